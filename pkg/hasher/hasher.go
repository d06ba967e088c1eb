// Package hasher derives and verifies salted password digests using Argon2id.
// Hashing is deliberately slow and memory-hard; digests are never reversible
// and verification never touches plaintext comparison.
package hasher

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters. Changing them invalidates previously stored digests,
// so treat them as part of the storage format.
const (
	saltLength  = 16
	timeCost    = 2
	memoryCost  = 64 * 1024
	parallelism = 1
	keyLength   = 32
)

// Hash derives a fresh salted digest from the given plaintext. Every call
// generates a new cryptographically random salt, so hashing the same plaintext
// twice yields different results. Both digest and salt are returned
// base64-encoded, ready for storage.
func Hash(plaintext string) (hash string, salt string, err error) {
	rawSalt := make([]byte, saltLength)
	if _, err := rand.Read(rawSalt); err != nil {
		return "", "", fmt.Errorf("could not generate salt: %w", err)
	}

	key := argon2.IDKey([]byte(plaintext), rawSalt, timeCost, memoryCost, parallelism, keyLength)

	return base64.StdEncoding.EncodeToString(key), base64.StdEncoding.EncodeToString(rawSalt), nil
}

// Verify recomputes the digest of candidate under the stored salt and compares
// it to the stored hash in constant time. A missing candidate, an undecodable
// salt or a mismatching digest all report false; Verify never errors.
func Verify(candidate string, storedHash string, storedSalt string) bool {
	if candidate == "" {
		return false
	}

	rawSalt, err := base64.StdEncoding.DecodeString(storedSalt)
	if err != nil {
		return false
	}
	rawHash, err := base64.StdEncoding.DecodeString(storedHash)
	if err != nil {
		return false
	}

	key := argon2.IDKey([]byte(candidate), rawSalt, timeCost, memoryCost, parallelism, keyLength)

	return subtle.ConstantTimeCompare(key, rawHash) == 1
}
