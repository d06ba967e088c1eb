package postgres_test

import (
	"context"
	"identity/pkg/domain"
	"identity/pkg/serrors"
	"testing"

	"github.com/stretchr/testify/require"
)

const testPlaintext = "Sup3rSecret!"

func newTestUser(t *testing.T, username, email string) domain.User {
	t.Helper()

	user, err := domain.NewUser(username, testPlaintext, email)
	require.NoError(t, err)

	return user
}

func TestPgSQL_SaveUser_AssignsID(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	saved, err := pg.SaveUser(ctx, newTestUser(t, "alice", "alice@example.com"))
	require.NoError(t, err)
	require.False(t, saved.IsNew())
	require.Equal(t, "alice", saved.Username().Value())
	require.Equal(t, "alice@example.com", saved.Email().Value())
	require.True(t, saved.IsPasswordValid(testPlaintext))
}

func TestPgSQL_SaveUser_DurableIsUnsupported(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	saved, err := pg.SaveUser(ctx, newTestUser(t, "bob", "bob@example.com"))
	require.NoError(t, err)

	_, err = pg.SaveUser(ctx, saved)
	require.ErrorIs(t, err, serrors.ErrUnsupported)
}

func TestPgSQL_SaveUser_DuplicateUsername(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_, err := pg.SaveUser(ctx, newTestUser(t, "carol", "carol@example.com"))
	require.NoError(t, err)

	_, err = pg.SaveUser(ctx, newTestUser(t, "carol", "other@example.com"))
	require.ErrorIs(t, err, serrors.ErrDuplicateIdentity)
	require.ErrorContains(t, err, "username")
}

func TestPgSQL_SaveUser_DuplicateEmail(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_, err := pg.SaveUser(ctx, newTestUser(t, "dave", "dave@example.com"))
	require.NoError(t, err)

	_, err = pg.SaveUser(ctx, newTestUser(t, "dave2", "dave@example.com"))
	require.ErrorIs(t, err, serrors.ErrDuplicateIdentity)
	require.ErrorContains(t, err, "email")
}

func TestPgSQL_UserLookups(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	saved, err := pg.SaveUser(ctx, newTestUser(t, "erin", "erin@example.com"))
	require.NoError(t, err)

	byID, err := pg.UserByID(ctx, saved.ID())
	require.NoError(t, err)
	require.NotNil(t, byID)
	require.True(t, byID.Equal(saved))

	byUsername, err := pg.UserByUsername(ctx, "erin")
	require.NoError(t, err)
	require.NotNil(t, byUsername)
	require.Equal(t, saved.ID(), byUsername.ID())

	byEmail, err := pg.UserByEmail(ctx, "erin@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	require.Equal(t, saved.ID(), byEmail.ID())

	// restored passwords still verify
	require.True(t, byID.IsPasswordValid(testPlaintext))
	require.False(t, byID.IsPasswordValid("WrongPass1!"))
}

func TestPgSQL_UserLookups_AbsentYieldNil(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	byID, err := pg.UserByID(ctx, domain.UserID(999999))
	require.NoError(t, err)
	require.Nil(t, byID)

	byUsername, err := pg.UserByUsername(ctx, "nobody")
	require.NoError(t, err)
	require.Nil(t, byUsername)

	byEmail, err := pg.UserByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, byEmail)
}

func TestPgSQL_Exists(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	_, err := pg.SaveUser(ctx, newTestUser(t, "frank", "frank@example.com"))
	require.NoError(t, err)

	exists, err := pg.ExistsByUsername(ctx, "frank")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = pg.ExistsByUsername(ctx, "absent")
	require.NoError(t, err)
	require.False(t, exists)

	exists, err = pg.ExistsByEmail(ctx, "frank@example.com")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = pg.ExistsByEmail(ctx, "absent@example.com")
	require.NoError(t, err)
	require.False(t, exists)
}
