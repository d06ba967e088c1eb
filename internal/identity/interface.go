package identity

import (
	"context"
	"identity/pkg/domain"
)

// UserSummary is the read-side projection of a user exposed to the serving
// layer. It never carries the password digest.
type UserSummary struct {
	ID       domain.UserID `json:"id"`
	Username string        `json:"username"`
	Email    string        `json:"email"`
}

//go:generate mockgen -package mockidentity -source=interface.go -destination=mock/mockidentity.go *
type Identity interface {
	// RegisterUser runs the registration workflow for the given raw
	// credentials and returns the new user's id, or a typed failure.
	RegisterUser(ctx context.Context, username, password, email string) (domain.UserID, error)
	// GetUserByID returns the stored summary for the given id, or nil when no
	// such user exists.
	GetUserByID(ctx context.Context, id domain.UserID) (*UserSummary, error)
	// Authenticate verifies the given plaintext password against the stored
	// digest for the named user and returns the summary on success.
	Authenticate(ctx context.Context, username, password string) (*UserSummary, error)
}
