package identity

import (
	"context"
	"fmt"
	"identity/internal/config"
	"identity/pkg/domain"
	"identity/pkg/logger"
	"identity/pkg/serrors"
	"identity/pkg/storage"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Options configure the registration workflow's reconcile job.
// These settings are typically derived from application configuration.
type Options struct {
	// ReconcileDelay is how long after registration the reconcile job becomes
	// runnable. It should comfortably exceed the workflow's own append latency.
	ReconcileDelay time.Duration
	// ReconcileMaxAttempts is the maximum number of attempts River should make
	// on a reconcile job before giving up.
	ReconcileMaxAttempts int
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		ReconcileDelay:       cfg.Reconciler.Delay,
		ReconcileMaxAttempts: cfg.Reconciler.MaxAttempts,
	}
}

// identity is the concrete implementation of the Identity interface.
// It coordinates the registration workflow across the snapshot store, the
// event log and the job queue.
type identity struct {
	options Options
	storage storage.Storage
}

// RegisterUser runs the registration workflow:
//
//  1. Pre-check username and email for collisions. These checks are advisory
//     snapshots; the storage-level unique constraints are the authoritative
//     guard and two racers may both pass here.
//  2. Construct the User aggregate, which validates all value objects and
//     hashes the password. No write happens before this point, so invalid
//     input leaves storage untouched.
//  3. In one transaction, persist the snapshot (obtaining the durable id) and
//     enqueue a reconcile job keyed by that id.
//  4. Append the UserRegistered event at expected version 0. A failure here
//     is surfaced to the caller but does not roll back the snapshot; the
//     reconcile job enqueued in step 3 repairs the missing event later.
func (i identity) RegisterUser(ctx context.Context, username, password, email string) (domain.UserID, error) {
	// the username and email value objects are built first so the uniqueness
	// checks run on their normalized forms, ahead of password hashing
	name, err := domain.NewUsername(username)
	if err != nil {
		return 0, err
	}

	address, err := domain.NewEmail(email)
	if err != nil {
		return 0, err
	}

	usernameTaken, err := i.storage.ExistsByUsername(ctx, name.Value())
	if err != nil {
		return 0, fmt.Errorf("could not check username existence: %w", err)
	}
	if usernameTaken {
		return 0, serrors.With(serrors.ErrDuplicateIdentity, "username already registered")
	}

	emailTaken, err := i.storage.ExistsByEmail(ctx, address.Value())
	if err != nil {
		return 0, fmt.Errorf("could not check email existence: %w", err)
	}
	if emailTaken {
		return 0, serrors.With(serrors.ErrDuplicateIdentity, "email already registered")
	}

	user, err := domain.NewUser(username, password, email)
	if err != nil {
		return 0, err
	}

	var saved domain.User
	if err := i.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		saved, err = tx.SaveUser(ctx, user)
		if err != nil {
			return fmt.Errorf("could not save user: %w", err)
		}

		if _, err := tx.AddJob(ctx, ReconcileJobArgs{
			UserID:      int64(saved.ID()),
			maxAttempts: i.options.ReconcileMaxAttempts,
			delay:       i.options.ReconcileDelay,
		}, nil); err != nil {
			return fmt.Errorf("could not add reconcile job: %w", err)
		}

		return nil
	}); err != nil {
		return 0, fmt.Errorf("could not register user: %w", err)
	}

	event, err := domain.NewUserRegistered(saved.ID(), domain.RegisteredVersion,
		saved.Username().Value(), saved.Email().Value())
	if err != nil {
		return 0, fmt.Errorf("could not build registration event: %w", err)
	}

	if err := i.storage.AppendEvents(ctx, saved.ID(), []domain.Event{event}, 0); err != nil {
		// the snapshot stays; the reconcile job re-appends the event later
		logger.Error(ctx, "registration event append failed, deferring to reconciler",
			zap.Int64("user_id", int64(saved.ID())), zap.Error(err))

		return 0, fmt.Errorf("could not append registration event: %w", err)
	}

	return saved.ID(), nil
}

// GetUserByID returns the stored summary for the given id. Absence yields
// (nil, nil), not an error.
func (i identity) GetUserByID(ctx context.Context, id domain.UserID) (*UserSummary, error) {
	user, err := i.storage.UserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("could not get user: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	return summarize(user), nil
}

// Authenticate verifies the plaintext password for the named user. Unknown
// usernames and wrong passwords both fail with the same unauthorized error so
// callers cannot enumerate which usernames exist.
func (i identity) Authenticate(ctx context.Context, username, password string) (*UserSummary, error) {
	// usernames are stored trimmed, so the lookup has to match that form
	user, err := i.storage.UserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("could not get user: %w", err)
	}
	if user == nil || !user.IsPasswordValid(password) {
		return nil, serrors.With(serrors.ErrUnauthorized, "invalid credentials")
	}

	return summarize(user), nil
}

func summarize(user *domain.User) *UserSummary {
	return &UserSummary{
		ID:       user.ID(),
		Username: user.Username().Value(),
		Email:    user.Email().Value(),
	}
}

// New creates a new Identity instance backed by the provided storage and
// configured with the given options.
func New(storage storage.Storage, options Options) Identity {
	return &identity{
		options: options,
		storage: storage,
	}
}
