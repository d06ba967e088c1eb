package domain_test

import (
	"identity/pkg/domain"
	"testing"

	"identity/pkg/serrors"

	"github.com/stretchr/testify/require"
)

func TestNewEmail(t *testing.T) {
	cases := []struct {
		name string
		in   string
		out  string
		ok   bool
	}{
		{name: "simple", in: "john@example.com", out: "john@example.com", ok: true},
		{name: "trims and lowercases", in: "  John.Doe@Example.COM  ", out: "john.doe@example.com", ok: true},
		{name: "plus addressing", in: "john+tag@example.com", out: "john+tag@example.com", ok: true},
		{name: "subdomain", in: "a@mail.example.co", out: "a@mail.example.co", ok: true},
		{name: "empty", in: "", ok: false},
		{name: "blank", in: "   ", ok: false},
		{name: "missing at", in: "john.example.com", ok: false},
		{name: "missing tld", in: "john@example", ok: false},
		{name: "one letter tld", in: "john@example.c", ok: false},
		{name: "space inside", in: "john doe@example.com", ok: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := domain.NewEmail(tc.in)
			if !tc.ok {
				require.ErrorIs(t, err, serrors.ErrValidation)

				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.out, got.Value())
		})
	}
}

func TestEmailParts(t *testing.T) {
	e, err := domain.NewEmail("John.Doe@Example.com")
	require.NoError(t, err)

	require.Equal(t, "john.doe", e.LocalPart())
	require.Equal(t, "example.com", e.Domain())
	require.Equal(t, e.LocalPart()+"@"+e.Domain(), e.Value())
}

func TestEmailNormalizationIsFixedPoint(t *testing.T) {
	first, err := domain.NewEmail("  MIXED.Case@Example.COM ")
	require.NoError(t, err)

	second, err := domain.NewEmail(first.Value())
	require.NoError(t, err)
	require.Equal(t, first.Value(), second.Value())
}
