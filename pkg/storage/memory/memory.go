// Package memory implements the storage interfaces in process memory. It is
// used by tests and as a lightweight backend for local experimentation; it
// mirrors the PostgreSQL backend's semantics, including uniqueness of
// usernames and emails and optimistic concurrency on the event log.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"identity/pkg/domain"
	"identity/pkg/serrors"
	"identity/pkg/storage"
	"sync"

	"github.com/riverqueue/river"
)

// Job records an enqueued job for later inspection.
type Job struct {
	Kind string
	Args json.RawMessage
}

type state struct {
	nextUserID int64
	users      map[int64]domain.User
	events     map[int64][]domain.Event
	jobs       []Job
}

func newState() *state {
	return &state{
		nextUserID: 1,
		users:      make(map[int64]domain.User),
		events:     make(map[int64][]domain.Event),
	}
}

func (s *state) clone() *state {
	cp := &state{
		nextUserID: s.nextUserID,
		users:      make(map[int64]domain.User, len(s.users)),
		events:     make(map[int64][]domain.Event, len(s.events)),
		jobs:       append([]Job(nil), s.jobs...),
	}
	for id, user := range s.users {
		cp.users[id] = user
	}
	for id, events := range s.events {
		cp.events[id] = append([]domain.Event(nil), events...)
	}

	return cp
}

// Memory implements storage.Storage entirely in memory. A single mutex guards
// all state; transactions hold the mutex for their whole lifetime and operate
// on a scratch copy, so a rolled back transaction leaves no trace and
// transactions serialize with each other and with direct operations.
type Memory struct {
	mu    sync.Mutex
	state *state
}

// New creates an empty in-memory storage.
func New() *Memory {
	return &Memory{state: newState()}
}

// Close is a no-op for the in-memory backend.
func (m *Memory) Close() error { return nil }

// Jobs returns a copy of all jobs enqueued so far.
func (m *Memory) Jobs() []Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]Job(nil), m.state.jobs...)
}

// Begin starts a transaction. The returned handle owns the storage mutex
// until Commit or Rollback is called.
func (m *Memory) Begin(_ context.Context) (storage.TxStorage, error) {
	m.mu.Lock()

	return &memoryTx{parent: m, state: m.state.clone()}, nil
}

// WithTx runs cb against a transactional handle, committing on success and
// rolling back when cb returns an error.
func (m *Memory) WithTx(ctx context.Context, cb func(storage storage.AllStorage) error) error {
	tx, err := m.Begin(ctx)
	if err != nil {
		return err
	}

	if err := cb(tx); err != nil {
		_ = tx.Rollback()

		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit tx: %w", err)
	}

	return nil
}

func (m *Memory) SaveUser(ctx context.Context, user domain.User) (domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.saveUser(ctx, user)
}

func (m *Memory) UserByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.userByID(ctx, id)
}

func (m *Memory) UserByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.userByUsername(ctx, username)
}

func (m *Memory) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.userByEmail(ctx, email)
}

func (m *Memory) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	user, err := m.UserByUsername(ctx, username)

	return user != nil, err
}

func (m *Memory) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	user, err := m.UserByEmail(ctx, email)

	return user != nil, err
}

func (m *Memory) AppendEvents(ctx context.Context, aggregateID domain.UserID, events []domain.Event, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.appendEvents(ctx, aggregateID, events, expectedVersion)
}

func (m *Memory) EventsFor(ctx context.Context, aggregateID domain.UserID) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.eventsFor(ctx, aggregateID)
}

func (m *Memory) AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state.addJob(ctx, args, opts)
}

type memoryTx struct {
	parent *Memory
	state  *state
	done   bool
}

// Commit publishes the scratch state and releases the storage mutex.
func (t *memoryTx) Commit() error {
	if t.done {
		return storage.ErrNotInTx
	}
	t.done = true

	t.parent.state = t.state
	t.parent.mu.Unlock()

	return nil
}

// Rollback discards the scratch state and releases the storage mutex.
func (t *memoryTx) Rollback() error {
	if t.done {
		return storage.ErrNotInTx
	}
	t.done = true

	t.parent.mu.Unlock()

	return nil
}

func (t *memoryTx) SaveUser(ctx context.Context, user domain.User) (domain.User, error) {
	return t.state.saveUser(ctx, user)
}

func (t *memoryTx) UserByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return t.state.userByID(ctx, id)
}

func (t *memoryTx) UserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return t.state.userByUsername(ctx, username)
}

func (t *memoryTx) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return t.state.userByEmail(ctx, email)
}

func (t *memoryTx) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	user, err := t.state.userByUsername(ctx, username)

	return user != nil, err
}

func (t *memoryTx) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	user, err := t.state.userByEmail(ctx, email)

	return user != nil, err
}

func (t *memoryTx) AppendEvents(ctx context.Context, aggregateID domain.UserID, events []domain.Event, expectedVersion int64) error {
	return t.state.appendEvents(ctx, aggregateID, events, expectedVersion)
}

func (t *memoryTx) EventsFor(ctx context.Context, aggregateID domain.UserID) ([]domain.Event, error) {
	return t.state.eventsFor(ctx, aggregateID)
}

func (t *memoryTx) AddJob(ctx context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error) {
	return t.state.addJob(ctx, args, opts)
}

func (s *state) saveUser(_ context.Context, user domain.User) (domain.User, error) {
	if !user.IsNew() {
		return domain.User{}, serrors.With(serrors.ErrUnsupported,
			"updating a persisted user in place is not supported")
	}

	for _, existing := range s.users {
		if existing.Username().Value() == user.Username().Value() {
			return domain.User{}, serrors.With(serrors.ErrDuplicateIdentity, "username already registered")
		}
		if existing.Email().Value() == user.Email().Value() {
			return domain.User{}, serrors.With(serrors.ErrDuplicateIdentity, "email already registered")
		}
	}

	id := s.nextUserID
	s.nextUserID++

	saved := user.WithID(domain.UserID(id))
	s.users[id] = saved

	return saved, nil
}

func (s *state) userByID(_ context.Context, id domain.UserID) (*domain.User, error) {
	user, ok := s.users[int64(id)]
	if !ok {
		return nil, nil
	}

	return &user, nil
}

func (s *state) userByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, user := range s.users {
		if user.Username().Value() == username {
			return &user, nil
		}
	}

	return nil, nil
}

func (s *state) userByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range s.users {
		if user.Email().Value() == email {
			return &user, nil
		}
	}

	return nil, nil
}

func (s *state) appendEvents(_ context.Context, aggregateID domain.UserID, events []domain.Event, expectedVersion int64) error {
	if len(events) == 0 {
		return nil
	}

	stream := s.events[int64(aggregateID)]
	current := int64(0)
	if len(stream) > 0 {
		current = stream[len(stream)-1].Version
	}

	if current != expectedVersion {
		return serrors.With(serrors.ErrConcurrencyConflict,
			"event stream for aggregate %d is at version %d, expected %d",
			aggregateID, current, expectedVersion)
	}

	for i := range events {
		want := expectedVersion + int64(i) + 1
		if events[i].Version != want {
			return serrors.With(serrors.ErrPersistence,
				"event batch is not contiguous: got version %d at position %d, want %d",
				events[i].Version, i, want)
		}
	}

	s.events[int64(aggregateID)] = append(stream, events...)

	return nil
}

func (s *state) eventsFor(_ context.Context, aggregateID domain.UserID) ([]domain.Event, error) {
	return append([]domain.Event(nil), s.events[int64(aggregateID)]...), nil
}

func (s *state) addJob(_ context.Context, args river.JobArgs, opts *river.InsertOpts) (bool, error) {
	payload, err := json.Marshal(args)
	if err != nil {
		return false, fmt.Errorf("could not marshal job args: %w", err)
	}

	// callers may pass nil opts and rely on the args type declaring its own
	// insert options, the same way river resolves them
	if opts == nil {
		if withOpts, ok := args.(river.JobArgsWithInsertOpts); ok {
			argOpts := withOpts.InsertOpts()
			opts = &argOpts
		}
	}

	if opts != nil && opts.UniqueOpts.ByArgs {
		for _, job := range s.jobs {
			if job.Kind == args.Kind() && string(job.Args) == string(payload) {
				return false, nil
			}
		}
	}

	s.jobs = append(s.jobs, Job{Kind: args.Kind(), Args: payload})

	return true, nil
}
