package postgres

import (
	"context"
	"database/sql"
	"errors"
	"identity/pkg/domain"
	"identity/pkg/serrors"
	"identity/pkg/storage"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgconn"
)

const eventsTable = "events"

// Unique index on (aggregate_id, version); the authoritative guard against
// two appends winning the same version slot.
const eventVersionUniqueConstraint = "events_aggregate_id_version_key"

// streamHeadQuery locks and returns the latest event row of the aggregate.
// Locking must target a plain row read: PostgreSQL rejects FOR UPDATE on
// aggregate functions, so the head is the newest row by version rather than
// MAX(version). An empty result means the stream is at version 0.
func (p *PgSQL) streamHeadQuery(aggregateID int64) *goqu.SelectDataset {
	return p.Builder.From(eventsTable).
		Select("version").
		Where(goqu.I("aggregate_id").Eq(aggregateID)).
		Order(goqu.I("version").Desc()).
		Limit(1).
		ForUpdate(goqu.Wait)
}

// AppendEvents writes the batch atomically provided the aggregate's stream is
// at expectedVersion. It always runs inside a transaction: when called on a
// non-transactional handle it opens one for the duration of the append. The
// current stream head row is read with FOR UPDATE so concurrent appenders on
// the same aggregate serialize; the unique index on (aggregate_id, version)
// backstops writers that raced before the lock.
func (p *PgSQL) AppendEvents(ctx context.Context, aggregateID domain.UserID, events []domain.Event, expectedVersion int64) error {
	if len(events) == 0 {
		return nil
	}

	if _, inTx := p.DB.(*sql.Tx); !inTx {
		return p.WithTx(ctx, func(tx storage.AllStorage) error {
			return tx.AppendEvents(ctx, aggregateID, events, expectedVersion)
		})
	}

	var current int64
	found, err := p.streamHeadQuery(int64(aggregateID)).
		Executor().ScanValContext(ctx, &current)
	if err != nil {
		return serrors.Wrap(serrors.ErrPersistence, err, "could not read event stream head from pg")
	}
	if !found {
		current = 0
	}

	if current != expectedVersion {
		return serrors.With(serrors.ErrConcurrencyConflict,
			"event stream for aggregate %d is at version %d, expected %d",
			aggregateID, current, expectedVersion)
	}

	rows := make([]interface{}, 0, len(events))
	for i := range events {
		want := expectedVersion + int64(i) + 1
		if events[i].Version != want {
			return serrors.With(serrors.ErrPersistence,
				"event batch is not contiguous: got version %d at position %d, want %d",
				events[i].Version, i, want)
		}

		var row PgEvent
		row.FromDomain(events[i])
		rows = append(rows, row)
	}

	if _, err := p.Builder.Insert(eventsTable).
		Rows(rows...).
		Executor().ExecContext(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation &&
			pgErr.ConstraintName == eventVersionUniqueConstraint {
			return serrors.Wrap(serrors.ErrConcurrencyConflict, err,
				"a concurrent append already claimed this version range")
		}

		return serrors.Wrap(serrors.ErrPersistence, err, "could not insert events into pg")
	}

	return nil
}

// EventsFor returns the aggregate's events ordered by version. Unknown
// aggregates yield an empty slice.
func (p *PgSQL) EventsFor(ctx context.Context, aggregateID domain.UserID) ([]domain.Event, error) {
	var rows []PgEvent
	if err := p.Builder.From(eventsTable).
		Where(goqu.I("aggregate_id").Eq(int64(aggregateID))).
		Order(goqu.I("version").Asc()).
		Executor().ScanStructsContext(ctx, &rows); err != nil {
		return nil, serrors.Wrap(serrors.ErrPersistence, err, "could not fetch events from pg")
	}

	return pgEventsToDomain(rows), nil
}
