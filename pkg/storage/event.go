package storage

import (
	"context"
	"identity/pkg/domain"
)

// EventStorage defines the append-only event log, one version-ordered
// sequence per aggregate.
type EventStorage interface {
	// AppendEvents writes all given events for the aggregate as one atomic
	// unit, provided the aggregate's current persisted version equals
	// expectedVersion. On a mismatch the call fails with a
	// concurrency-conflict error and writes nothing; partial batches are never
	// observable. On success the aggregate's version advances by len(events).
	// Concurrent appends under the same expected version are mutually
	// exclusive: at most one succeeds.
	AppendEvents(ctx context.Context, aggregateID domain.UserID, events []domain.Event, expectedVersion int64) error
	// EventsFor returns the version-ordered sequence of all events recorded
	// for the aggregate. An unknown aggregate yields an empty slice, not an
	// error. Once an event at version N is visible, all events with version
	// <= N are visible too.
	EventsFor(ctx context.Context, aggregateID domain.UserID) ([]domain.Event, error)
}
