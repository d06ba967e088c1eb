package storage

import (
	"context"
	"identity/pkg/domain"
)

// UserStorage defines persistence of user snapshots. Existence checks operate
// on the normalized value-object forms; they are advisory reads, not locks,
// and the unique constraints of the backend remain the authoritative
// uniqueness guard.
type UserStorage interface {
	// SaveUser inserts a transient user snapshot and returns the user carrying
	// the assigned id. Saving a user that already has an id is deliberately
	// unimplemented and fails with an unsupported-operation error; durable
	// users change only through copy-on-write transitions followed by a fresh
	// persistence call.
	SaveUser(ctx context.Context, user domain.User) (domain.User, error)
	// UserByID returns the stored snapshot, or nil when no user with the given
	// id exists. Absence is not an error.
	UserByID(ctx context.Context, id domain.UserID) (*domain.User, error)
	// UserByUsername returns the snapshot for the given normalized username,
	// or nil when absent.
	UserByUsername(ctx context.Context, username string) (*domain.User, error)
	// UserByEmail returns the snapshot for the given normalized email, or nil
	// when absent.
	UserByEmail(ctx context.Context, email string) (*domain.User, error)
	// ExistsByUsername reports whether a user with the given normalized
	// username is already registered.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	// ExistsByEmail reports whether a user with the given normalized email is
	// already registered.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
