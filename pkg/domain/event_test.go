package domain_test

import (
	"encoding/json"
	"identity/pkg/domain"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewUserRegistered(t *testing.T) {
	ev, err := domain.NewUserRegistered(42, domain.RegisteredVersion, "john_doe", "john@example.com")
	require.NoError(t, err)

	require.NotEqual(t, uuid.Nil, ev.ID)
	require.Equal(t, domain.EventTypeUserRegistered, ev.Type)
	require.EqualValues(t, 42, ev.AggregateID)
	require.Equal(t, domain.RegisteredVersion, ev.Version)
	require.False(t, ev.OccurredAt.IsZero())

	var payload domain.UserRegisteredPayload
	require.NoError(t, json.Unmarshal(ev.Payload, &payload))
	require.Equal(t, "john_doe", payload.Username)
	require.Equal(t, "john@example.com", payload.Email)
}

func TestNewUserRegisteredEventIDsAreUnique(t *testing.T) {
	a, err := domain.NewUserRegistered(1, 1, "a_user", "a@example.com")
	require.NoError(t, err)
	b, err := domain.NewUserRegistered(1, 1, "a_user", "a@example.com")
	require.NoError(t, err)

	require.NotEqual(t, a.ID, b.ID)
}
