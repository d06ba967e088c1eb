package postgres

import (
	"context"
	"errors"
	"identity/pkg/domain"
	"identity/pkg/serrors"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgconn"
)

const usersTable = "users"

// Unique constraint names from the users migration. They are the
// authoritative uniqueness guard; the workflow's existence pre-checks only
// produce a friendlier error in the common case.
const (
	usernameUniqueConstraint = "users_username_key"
	emailUniqueConstraint    = "users_email_key"
)

const pgUniqueViolation = "23505"

// classifyUserInsertError maps a unique violation on the users table to a
// duplicate-identity error with a field-specific message; everything else is
// wrapped as a persistence failure.
func classifyUserInsertError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		switch pgErr.ConstraintName {
		case usernameUniqueConstraint:
			return serrors.Wrap(serrors.ErrDuplicateIdentity, err, "username already registered")
		case emailUniqueConstraint:
			return serrors.Wrap(serrors.ErrDuplicateIdentity, err, "email already registered")
		}
	}

	return serrors.Wrap(serrors.ErrPersistence, err, "could not insert user into pg")
}

// SaveUser inserts a transient user snapshot and returns the user carrying
// the database-assigned id. Updating a durable user in place is deliberately
// unimplemented.
func (p *PgSQL) SaveUser(ctx context.Context, user domain.User) (domain.User, error) {
	if !user.IsNew() {
		return domain.User{}, serrors.With(serrors.ErrUnsupported,
			"updating a persisted user in place is not supported")
	}

	var row PgUser
	row.FromDomain(user)

	var inserted PgUser
	found, err := p.Builder.Insert(usersTable).
		Rows(row).
		Returning(&PgUser{}).
		Executor().ScanStructContext(ctx, &inserted)
	if err != nil {
		return domain.User{}, classifyUserInsertError(err)
	}
	if !found {
		return domain.User{}, serrors.With(serrors.ErrPersistence, "insert returned no row")
	}

	return user.WithID(domain.UserID(inserted.ID)), nil
}

// UserByID returns the stored snapshot for the given id, or nil when absent.
func (p *PgSQL) UserByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	return p.userBy(ctx, goqu.I("id").Eq(int64(id)))
}

// UserByUsername returns the snapshot for the given normalized username, or
// nil when absent.
func (p *PgSQL) UserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return p.userBy(ctx, goqu.I("username").Eq(username))
}

// UserByEmail returns the snapshot for the given normalized email, or nil
// when absent.
func (p *PgSQL) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return p.userBy(ctx, goqu.I("email").Eq(email))
}

func (p *PgSQL) userBy(ctx context.Context, where goqu.Expression) (*domain.User, error) {
	var row PgUser
	found, err := p.Builder.From(usersTable).
		Where(where).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrPersistence, err, "could not fetch user from pg")
	}
	if !found {
		return nil, nil
	}

	return row.ToDomain()
}

// ExistsByUsername reports whether a user with the given normalized username
// is registered.
func (p *PgSQL) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return p.existsBy(ctx, goqu.I("username").Eq(username))
}

// ExistsByEmail reports whether a user with the given normalized email is
// registered.
func (p *PgSQL) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return p.existsBy(ctx, goqu.I("email").Eq(email))
}

func (p *PgSQL) existsBy(ctx context.Context, where goqu.Expression) (bool, error) {
	var count int64
	if _, err := p.Builder.From(usersTable).
		Select(goqu.COUNT("*")).
		Where(where).
		Executor().ScanValContext(ctx, &count); err != nil {
		return false, serrors.Wrap(serrors.ErrPersistence, err, "could not check user existence in pg")
	}

	return count > 0, nil
}
