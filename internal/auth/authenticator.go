// Package auth implements password authentication and JWT sessions.
package auth

import (
	"context"

	"github.com/chimt4chi/personal-budget-tracker/internal/models"
)

// Registration carries the fields needed to open an account.
// CurrencyCode and TimeZone fall back to the models defaults when empty.
type Registration struct {
	Email        string
	DisplayName  string
	Credential   string
	CurrencyCode string
	TimeZone     string
}

// Authenticator defines the interface for authentication implementations.
// This abstraction allows swapping between different auth methods (password, passkeys, OAuth, etc.)
// without changing the service layer code.
type Authenticator interface {
	// Register creates a new user account.
	// Returns ErrEmailExists when the email is already registered.
	Register(ctx context.Context, reg Registration) (*models.User, error)

	// Authenticate verifies the user's credentials and returns the user if successful.
	// Unknown emails and wrong credentials both yield ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks if the credential meets the implementation's requirements.
	ValidateCredential(credential string) error
}
