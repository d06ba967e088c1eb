package domain

import (
	"identity/pkg/serrors"
	"regexp"
	"strings"
)

const (
	usernameMinLength = 3
	usernameMaxLength = 50
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Username is the validated, trimmed account name of a user. Construction via
// NewUsername is the only validation gate; an existing Username is always
// well-formed.
type Username struct {
	value string
}

// NewUsername validates raw and returns the trimmed Username. Checks run in
// order blank, length, pattern and stop at the first failure, each reporting
// a field-specific validation error.
func NewUsername(raw string) (Username, error) {
	if strings.TrimSpace(raw) == "" {
		return Username{}, serrors.With(serrors.ErrValidation, "username must not be empty")
	}

	trimmed := strings.TrimSpace(raw)

	if len(trimmed) < usernameMinLength {
		return Username{}, serrors.With(serrors.ErrValidation,
			"username must be at least %d characters", usernameMinLength)
	}
	if len(trimmed) > usernameMaxLength {
		return Username{}, serrors.With(serrors.ErrValidation,
			"username must be at most %d characters", usernameMaxLength)
	}

	if !usernamePattern.MatchString(trimmed) {
		return Username{}, serrors.With(serrors.ErrValidation,
			"username may only contain letters, digits and underscore")
	}

	return Username{value: trimmed}, nil
}

// Value returns the normalized username string.
func (u Username) Value() string { return u.value }

func (u Username) String() string { return u.value }
