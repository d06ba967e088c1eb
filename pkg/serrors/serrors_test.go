package serrors_test

import (
	"errors"
	"identity/pkg/serrors"
	"testing"

	"github.com/stretchr/testify/require"
)

type customError struct{ msg string }

func (e customError) Error() string { return e.msg }

func TestDefaultKindsDistinct(t *testing.T) {
	kinds := []serrors.Kind{
		serrors.ErrValidation,
		serrors.ErrDuplicateIdentity,
		serrors.ErrConcurrencyConflict,
		serrors.ErrPersistence,
		serrors.ErrUnsupported,
		serrors.ErrNotFound,
		serrors.ErrUnauthorized,
		serrors.ErrInternal,
	}
	seen := map[serrors.Kind]bool{}
	for i, k := range kinds {
		require.NotNil(t, k, "kind at index %d is nil", i)
		require.False(t, seen[k], "kind at index %d is duplicate: %v", i, k)
		seen[k] = true
	}

	// Ensure some expected inequalities
	require.NotEqual(t, serrors.ErrValidation, serrors.ErrDuplicateIdentity,
		"Validation should not equal DuplicateIdentity")
}

func TestErrorFormatting(t *testing.T) {
	base := errors.New("db down")

	e1 := serrors.With(serrors.ErrNotFound, "user %d not found", 42)
	require.Equal(t, "user 42 not found", e1.Error(), "With() Error() mismatch")

	e2 := serrors.Wrap(serrors.ErrNotFound, base, "getting user")
	require.Equal(t, "getting user: db down", e2.Error(), "Wrap() Error() mismatch")

	e3 := serrors.KindOnly(serrors.ErrConcurrencyConflict)
	require.Equal(t, "CONCURRENCY_CONFLICT", e3.Error(), "KindOnly Error() mismatch")
}

func TestIsMatchesKindAndWrapped(t *testing.T) {
	base := customError{"root cause"}
	e := serrors.Wrap(serrors.ErrPersistence, base, "inserting user")

	require.ErrorIs(t, e, serrors.ErrPersistence)
	require.ErrorIs(t, e, base)
	require.NotErrorIs(t, e, serrors.ErrValidation, "errors.Is should not match a different kind")
}

func TestAsMatchesKindAndWrapped(t *testing.T) {
	base := &customError{"root cause"}
	e := serrors.Wrap(serrors.ErrPersistence, base, "reading")

	var k serrors.Kind
	require.ErrorAs(t, e, &k, "errors.As should extract Kind")
	require.Equal(t, serrors.ErrPersistence, k)

	var ce *customError
	require.ErrorAs(t, e, &ce, "errors.As should extract wrapped error type")
	require.Equal(t, base, ce, "extracted cause pointer mismatch")
}

func TestAccessors(t *testing.T) {
	base := errors.New("boom")
	e := serrors.Wrap(serrors.ErrDuplicateIdentity, base, "email taken")
	require.Equal(t, serrors.ErrDuplicateIdentity, e.Kind())
	require.Equal(t, "email taken", e.Message())
	require.Equal(t, base, e.Cause())
}
