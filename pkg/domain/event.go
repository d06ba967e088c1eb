package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventTypeUserRegistered names the event recorded when a registration
// completes.
const EventTypeUserRegistered = "UserRegistered"

// RegisteredVersion is the version under which the registration event of a
// brand-new aggregate is recorded; the matching expected version on append is
// RegisteredVersion - 1.
const RegisteredVersion int64 = 1

// Event is an immutable domain event recorded against a user aggregate.
// Events are append-only: once written they are never edited or deleted, and
// the versions of one aggregate's events form a contiguous, strictly
// increasing sequence.
type Event struct {
	// ID is the globally unique identifier of this event.
	ID uuid.UUID `json:"id"`
	// Type names the kind of occurrence, e.g. EventTypeUserRegistered.
	Type string `json:"type"`
	// AggregateID is the durable id of the user the event belongs to.
	AggregateID UserID `json:"aggregateId"`
	// Version is the position of this event in the aggregate's sequence.
	Version int64 `json:"version"`
	// Payload carries the serialized event-specific data.
	Payload json.RawMessage `json:"payload"`
	// OccurredAt is the creation timestamp of the event.
	OccurredAt time.Time `json:"occurredAt"`
}

// UserRegisteredPayload is the payload of a UserRegistered event.
type UserRegisteredPayload struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NewUserRegistered builds the registration event for a freshly persisted
// user at the given version.
func NewUserRegistered(aggregateID UserID, version int64, username string, email string) (Event, error) {
	payload, err := json.Marshal(UserRegisteredPayload{Username: username, Email: email})
	if err != nil {
		return Event{}, fmt.Errorf("could not marshal payload: %w", err)
	}

	return Event{
		ID:          uuid.New(),
		Type:        EventTypeUserRegistered,
		AggregateID: aggregateID,
		Version:     version,
		Payload:     payload,
		OccurredAt:  time.Now().UTC(),
	}, nil
}
