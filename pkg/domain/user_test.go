package domain_test

import (
	"identity/pkg/domain"
	"testing"

	"identity/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func newTestUser(t *testing.T) domain.User {
	t.Helper()

	u, err := domain.NewUser("john_doe", "SecurePass123!", "john@example.com")
	require.NoError(t, err)

	return u
}

func TestNewUser(t *testing.T) {
	u := newTestUser(t)

	require.True(t, u.IsNew())
	require.EqualValues(t, 0, u.ID())
	require.Equal(t, "john_doe", u.Username().Value())
	require.Equal(t, "john@example.com", u.Email().Value())
	require.True(t, u.IsPasswordValid("SecurePass123!"))
	require.False(t, u.IsPasswordValid("WrongPass123!"))
	require.False(t, u.IsPasswordValid(""))
}

func TestNewUserValidatesAtomically(t *testing.T) {
	_, err := domain.NewUser("ab", "SecurePass123!", "john@example.com")
	require.ErrorIs(t, err, serrors.ErrValidation)

	_, err = domain.NewUser("john_doe", "weak", "john@example.com")
	require.ErrorIs(t, err, serrors.ErrValidation)

	_, err = domain.NewUser("john_doe", "SecurePass123!", "not-an-email")
	require.ErrorIs(t, err, serrors.ErrValidation)
}

func TestWithIDMakesDurable(t *testing.T) {
	u := newTestUser(t).WithID(7)

	require.False(t, u.IsNew())
	require.EqualValues(t, 7, u.ID())
}

func TestCopyOnWriteTransitions(t *testing.T) {
	original := newTestUser(t).WithID(7)

	t.Run("email", func(t *testing.T) {
		updated, err := original.WithNewEmail("new@example.com")
		require.NoError(t, err)

		require.Equal(t, "john@example.com", original.Email().Value(), "original must stay untouched")
		require.Equal(t, "new@example.com", updated.Email().Value())
		require.Equal(t, original.ID(), updated.ID())
	})

	t.Run("username", func(t *testing.T) {
		updated, err := original.WithNewUsername("jane_doe")
		require.NoError(t, err)

		require.Equal(t, "john_doe", original.Username().Value())
		require.Equal(t, "jane_doe", updated.Username().Value())
		require.Equal(t, original.ID(), updated.ID())
	})

	t.Run("password", func(t *testing.T) {
		updated, err := original.WithNewPassword("OtherPass456?")
		require.NoError(t, err)

		require.True(t, original.IsPasswordValid("SecurePass123!"))
		require.True(t, updated.IsPasswordValid("OtherPass456?"))
		require.False(t, updated.IsPasswordValid("SecurePass123!"))
		require.Equal(t, original.ID(), updated.ID())
	})

	t.Run("invalid replacement fails without mutation", func(t *testing.T) {
		_, err := original.WithNewEmail("broken")
		require.ErrorIs(t, err, serrors.ErrValidation)
		require.Equal(t, "john@example.com", original.Email().Value())
	})
}

// TestEqualitySwitch covers the identity-vs-value equality invariant: id-only
// comparison when both sides are durable, full value comparison otherwise.
func TestEqualitySwitch(t *testing.T) {
	t.Run("both durable compares ids only", func(t *testing.T) {
		a := newTestUser(t).WithID(1)
		differentValues, err := domain.NewUser("jane_doe", "OtherPass456?", "jane@example.com")
		require.NoError(t, err)
		b := differentValues.WithID(1)

		require.True(t, a.Equal(b), "same id must mean equal regardless of values")
		require.False(t, a.Equal(newTestUser(t).WithID(2)), "different ids must mean not equal")
	})

	t.Run("transient falls back to value comparison", func(t *testing.T) {
		a := newTestUser(t)
		require.True(t, a.Equal(a))

		// same field values but a fresh password hash (new salt) is a
		// different value object, so transient users differ
		b := newTestUser(t)
		require.False(t, a.Equal(b))

		// transient vs durable with equal value objects
		require.True(t, a.Equal(a.WithID(5)), "value comparison applies when either side is transient")
	})
}
