package hasher_test

import (
	"identity/pkg/hasher"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashVerifyRoundtrip(t *testing.T) {
	hash, salt, err := hasher.Hash("SecurePass123!")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEmpty(t, salt)

	require.True(t, hasher.Verify("SecurePass123!", hash, salt))
	require.False(t, hasher.Verify("SecurePass123?", hash, salt))
	require.False(t, hasher.Verify("securepass123!", hash, salt))
}

func TestHashGeneratesFreshSalt(t *testing.T) {
	h1, s1, err := hasher.Hash("SecurePass123!")
	require.NoError(t, err)
	h2, s2, err := hasher.Hash("SecurePass123!")
	require.NoError(t, err)

	require.NotEqual(t, s1, s2, "two hash calls must not reuse a salt")
	require.NotEqual(t, h1, h2, "distinct salts must yield distinct digests")
}

func TestVerifyEmptyCandidate(t *testing.T) {
	hash, salt, err := hasher.Hash("SecurePass123!")
	require.NoError(t, err)

	require.False(t, hasher.Verify("", hash, salt), "empty candidate must report false, not error")
}

func TestVerifyCorruptStoredValues(t *testing.T) {
	require.False(t, hasher.Verify("SecurePass123!", "not-base64!!!", "also-not-base64!!!"))
}
