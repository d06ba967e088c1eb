package postgres

import (
	"encoding/json"
	"fmt"
	"identity/pkg/domain"
	"time"

	"github.com/google/uuid"
)

type PgUser struct {
	ID           int64     `db:"id"            goqu:"skipinsert"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	PasswordSalt string    `db:"password_salt"`
	Email        string    `db:"email"`
	CreatedAt    time.Time `db:"created_at"    goqu:"skipinsert"`
}

// ToDomain rebuilds the User aggregate from a stored row. The stored password
// digest is restored without re-running strength rules; username and email
// re-pass their shape validation, which stored rows satisfy by construction.
func (p *PgUser) ToDomain() (*domain.User, error) {
	username, err := domain.NewUsername(p.Username)
	if err != nil {
		return nil, fmt.Errorf("could not restore username: %w", err)
	}

	password, err := domain.PasswordFromHash(p.PasswordHash, p.PasswordSalt)
	if err != nil {
		return nil, fmt.Errorf("could not restore password: %w", err)
	}

	email, err := domain.NewEmail(p.Email)
	if err != nil {
		return nil, fmt.Errorf("could not restore email: %w", err)
	}

	user := domain.RestoreUser(domain.UserID(p.ID), username, password, email)

	return &user, nil
}

func (p *PgUser) FromDomain(user domain.User) {
	*p = PgUser{
		ID:           int64(user.ID()),
		Username:     user.Username().Value(),
		PasswordHash: user.Password().Hash(),
		PasswordSalt: user.Password().Salt(),
		Email:        user.Email().Value(),
	}
}

type PgEvent struct {
	ID          uuid.UUID       `db:"id"`
	AggregateID int64           `db:"aggregate_id"`
	EventType   string          `db:"event_type"`
	EventData   json.RawMessage `db:"event_data"`
	Version     int64           `db:"version"`
	OccurredOn  time.Time       `db:"occurred_on"`
}

func (p *PgEvent) ToDomain() domain.Event {
	return domain.Event{
		ID:          p.ID,
		Type:        p.EventType,
		AggregateID: domain.UserID(p.AggregateID),
		Version:     p.Version,
		Payload:     p.EventData,
		OccurredAt:  p.OccurredOn,
	}
}

func (p *PgEvent) FromDomain(event domain.Event) {
	*p = PgEvent{
		ID:          event.ID,
		AggregateID: int64(event.AggregateID),
		EventType:   event.Type,
		EventData:   event.Payload,
		Version:     event.Version,
		OccurredOn:  event.OccurredAt,
	}
}

func pgEventsToDomain(events []PgEvent) []domain.Event {
	out := make([]domain.Event, 0, len(events))
	for i := range events {
		out = append(out, events[i].ToDomain())
	}

	return out
}
