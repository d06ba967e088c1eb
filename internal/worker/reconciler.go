package worker

import (
	"context"
	"errors"
	"fmt"
	"identity/internal/identity"
	"identity/pkg/domain"
	"identity/pkg/logger"
	"identity/pkg/serrors"
	"identity/pkg/storage"

	"github.com/riverqueue/river"
	"go.uber.org/zap"
)

// ReconcileWorker is a River worker that repairs the partial-failure window
// of the registration workflow. The workflow persists the user snapshot and
// appends the UserRegistered event as two separate calls; when the append
// never lands (crash, conflict, storage outage) the snapshot exists with an
// empty event stream. A reconcile job is enqueued in the same transaction as
// every snapshot, so this worker eventually inspects each new user's stream
// and re-appends the missing registration event.
//
// The job is scheduled with a delay so the workflow's own append almost
// always wins; a non-empty stream makes reconciliation a no-op. A concurrency
// conflict on the re-append means another writer (usually a concurrently
// retried job) already filled version 1, which is equally success.
type ReconcileWorker struct {
	river.WorkerDefaults[identity.ReconcileJobArgs]

	storage storage.Storage
}

// NewReconcileWorker constructs a ReconcileWorker backed by the given storage.
func NewReconcileWorker(st storage.Storage) *ReconcileWorker {
	return &ReconcileWorker{storage: st}
}

// Work reconciles a single user's registration event.
func (w *ReconcileWorker) Work(ctx context.Context, job *river.Job[identity.ReconcileJobArgs]) error {
	ctx = logger.WithFields(ctx, zap.Int64("jobID", job.ID), zap.Int64("userID", job.Args.UserID))

	if err := w.Reconcile(ctx, domain.UserID(job.Args.UserID)); err != nil {
		logger.Error(ctx, "error reconciling registration events", zap.Error(err))

		return fmt.Errorf("could not reconcile registration events: %w", err)
	}

	return nil
}

// Reconcile checks the user's event stream and appends the missing
// UserRegistered event when the stream is empty. A user deleted between
// snapshot and reconcile, a non-empty stream, and a lost append race are all
// terminal no-ops.
func (w *ReconcileWorker) Reconcile(ctx context.Context, userID domain.UserID) error {
	user, err := w.storage.UserByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("could not get user: %w", err)
	}
	if user == nil {
		logger.Warn(ctx, "user gone before reconcile, nothing to repair")

		return nil
	}

	events, err := w.storage.EventsFor(ctx, userID)
	if err != nil {
		return fmt.Errorf("could not get events: %w", err)
	}
	if len(events) > 0 {
		return nil
	}

	event, err := domain.NewUserRegistered(userID, domain.RegisteredVersion,
		user.Username().Value(), user.Email().Value())
	if err != nil {
		return fmt.Errorf("could not build registration event: %w", err)
	}

	if err := w.storage.AppendEvents(ctx, userID, []domain.Event{event}, 0); err != nil {
		if errors.Is(err, serrors.ErrConcurrencyConflict) {
			// someone else filled version 1 between our read and write
			return nil
		}

		return fmt.Errorf("could not append registration event: %w", err)
	}

	logger.Info(ctx, "re-appended missing registration event")

	return nil
}
