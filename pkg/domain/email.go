package domain

import (
	"identity/pkg/serrors"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email is a validated, normalized email address. The stored value is trimmed
// and lower-cased exactly once, at construction, and that normalized form is
// what participates in equality, storage and uniqueness checks.
type Email struct {
	value string
}

// NewEmail validates raw against an RFC-light local@domain.tld pattern and
// returns the normalized Email. Normalization is a fixed point: constructing
// an Email from an existing Email's Value yields the same value.
func NewEmail(raw string) (Email, error) {
	if strings.TrimSpace(raw) == "" {
		return Email{}, serrors.With(serrors.ErrValidation, "email must not be empty")
	}

	trimmed := strings.TrimSpace(raw)
	if !emailPattern.MatchString(trimmed) {
		return Email{}, serrors.With(serrors.ErrValidation, "email must have a valid format")
	}

	return Email{value: strings.ToLower(trimmed)}, nil
}

// Value returns the normalized (trimmed, lower-cased) address.
func (e Email) Value() string { return e.value }

// LocalPart returns the part of the address before the '@'.
func (e Email) LocalPart() string {
	return e.value[:strings.IndexByte(e.value, '@')]
}

// Domain returns the part of the address after the '@'.
func (e Email) Domain() string {
	return e.value[strings.IndexByte(e.value, '@')+1:]
}

func (e Email) String() string { return e.value }
