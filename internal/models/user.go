package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultCurrencyCode = "INR"
	DefaultTimeZone     = "Asia/Kolkata"
)

// User represents a registered user account.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique).
	// Used for login and for adding the user to groups.
	Email string

	// DisplayName is the name shown to other group members.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CurrencyCode is the ISO 4217 code amounts are displayed in.
	// No conversion happens between currencies.
	CurrencyCode string

	// TimeZone is the IANA zone name used to present dates.
	TimeZone string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile change.
	UpdatedAt int64
}

// NewUser creates a user with a fresh ID, default locale settings and
// timestamps set to now.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
		CurrencyCode: DefaultCurrencyCode,
		TimeZone:     DefaultTimeZone,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
