package worker_test

import (
	"context"
	"identity/internal/worker"
	"identity/pkg/domain"
	"identity/pkg/logger"
	"identity/pkg/storage/memory"
	"testing"

	"github.com/stretchr/testify/require"
)

func savedUser(t *testing.T, store *memory.Memory) domain.User {
	t.Helper()

	user, err := domain.NewUser("john_doe", "SecurePass123!", "john@example.com")
	require.NoError(t, err)

	saved, err := store.SaveUser(context.Background(), user)
	require.NoError(t, err)

	return saved
}

func TestReconcileWorker_AppendsMissingEvent(t *testing.T) {
	logger.Setup(logger.DevelopmentEnvironment)

	store := memory.New()
	saved := savedUser(t, store)
	w := worker.NewReconcileWorker(store)

	// empty stream: the workflow's append never happened
	err := w.Reconcile(context.Background(), saved.ID())
	require.NoError(t, err)

	events, err := store.EventsFor(context.Background(), saved.ID())
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, domain.EventTypeUserRegistered, events[0].Type)
	require.Equal(t, domain.RegisteredVersion, events[0].Version)
}

func TestReconcileWorker_NonEmptyStreamIsNoop(t *testing.T) {
	store := memory.New()
	saved := savedUser(t, store)
	w := worker.NewReconcileWorker(store)

	event, err := domain.NewUserRegistered(saved.ID(), domain.RegisteredVersion,
		saved.Username().Value(), saved.Email().Value())
	require.NoError(t, err)
	require.NoError(t, store.AppendEvents(context.Background(), saved.ID(), []domain.Event{event}, 0))

	err = w.Reconcile(context.Background(), saved.ID())
	require.NoError(t, err)

	events, err := store.EventsFor(context.Background(), saved.ID())
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestReconcileWorker_MissingUserIsNoop(t *testing.T) {
	store := memory.New()
	w := worker.NewReconcileWorker(store)

	err := w.Reconcile(context.Background(), domain.UserID(404))
	require.NoError(t, err)

	events, err := store.EventsFor(context.Background(), domain.UserID(404))
	require.NoError(t, err)
	require.Empty(t, events)
}

func TestReconcileWorker_Idempotent(t *testing.T) {
	store := memory.New()
	saved := savedUser(t, store)
	w := worker.NewReconcileWorker(store)

	require.NoError(t, w.Reconcile(context.Background(), saved.ID()))
	require.NoError(t, w.Reconcile(context.Background(), saved.ID()))

	events, err := store.EventsFor(context.Background(), saved.ID())
	require.NoError(t, err)
	require.Len(t, events, 1)
}
