package domain

import (
	"identity/pkg/hasher"
	"identity/pkg/serrors"
	"regexp"
)

const passwordMinLength = 8

var (
	passwordUppercase = regexp.MustCompile(`[A-Z]`)
	passwordLowercase = regexp.MustCompile(`[a-z]`)
	passwordDigit     = regexp.MustCompile(`\d`)
	passwordSpecial   = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>/?]`)
)

// Password holds a salted one-way digest of a user's secret. It has two
// construction paths that must stay distinct: NewPassword validates a fresh
// plaintext for strength before hashing it, while PasswordFromHash rebuilds
// the value from an already stored (hash, salt) pair without re-running
// strength rules. Unifying the two would either re-validate stored data or
// silently skip validation for new data.
type Password struct {
	hash string
	salt string
}

// NewPassword validates the plaintext strength rules (length, upper, lower,
// digit, then special character, stopping at the first failure) and derives a
// freshly salted digest from it. The plaintext is never retained.
func NewPassword(plaintext string) (Password, error) {
	if err := validatePlaintext(plaintext); err != nil {
		return Password{}, err
	}

	hash, salt, err := hasher.Hash(plaintext)
	if err != nil {
		return Password{}, serrors.Wrap(serrors.ErrInternal, err, "could not hash password")
	}

	return Password{hash: hash, salt: salt}, nil
}

// PasswordFromHash rebuilds a Password from stored values. Strength rules do
// not apply here; only structural emptiness is rejected.
func PasswordFromHash(hash string, salt string) (Password, error) {
	if hash == "" {
		return Password{}, serrors.With(serrors.ErrValidation, "password hash must not be empty")
	}
	if salt == "" {
		return Password{}, serrors.With(serrors.ErrValidation, "password salt must not be empty")
	}

	return Password{hash: hash, salt: salt}, nil
}

func validatePlaintext(plaintext string) error {
	if plaintext == "" {
		return serrors.With(serrors.ErrValidation, "password must not be empty")
	}
	if len(plaintext) < passwordMinLength {
		return serrors.With(serrors.ErrValidation,
			"password must be at least %d characters", passwordMinLength)
	}
	if !passwordUppercase.MatchString(plaintext) {
		return serrors.With(serrors.ErrValidation, "password must contain at least one uppercase letter")
	}
	if !passwordLowercase.MatchString(plaintext) {
		return serrors.With(serrors.ErrValidation, "password must contain at least one lowercase letter")
	}
	if !passwordDigit.MatchString(plaintext) {
		return serrors.With(serrors.ErrValidation, "password must contain at least one digit")
	}
	if !passwordSpecial.MatchString(plaintext) {
		return serrors.With(serrors.ErrValidation, "password must contain at least one special character")
	}

	return nil
}

// Matches reports whether candidate re-hashes to the stored digest under the
// stored salt. An empty candidate reports false, never an error.
func (p Password) Matches(candidate string) bool {
	return hasher.Verify(candidate, p.hash, p.salt)
}

// Hash returns the stored digest.
func (p Password) Hash() string { return p.hash }

// Salt returns the stored salt.
func (p Password) Salt() string { return p.salt }

// String redacts the digest so passwords never leak through logging.
func (p Password) String() string { return "Password{hash: ***, salt: ***}" }
