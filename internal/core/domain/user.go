package domain

import (
	"errors"
	"time"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidToken = errors.New("invalid or expired token")
var ErrUserExists = errors.New("user already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrResetTokenInvalid = errors.New("invalid or expired reset token")

// ValidationError carries a client-facing message for malformed input.
// It always maps to a 400 response.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError wraps msg in a ValidationError.
func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

// ResetToken holds the pending password-reset descriptor for a user.
// Only the SHA-256 hash of the secret is stored; the raw secret exists
// solely in the email sent to the user. Issuing a new descriptor
// replaces any prior one, so at most one secret is live per account.
type ResetToken struct {
	TokenHash string    `json:"-" bson:"token_hash"`
	ExpiresAt time.Time `json:"-" bson:"expires_at"`
}

// User models a registered account.
type User struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PasswordHash string      `json:"-"`
	ResetToken   *ResetToken `json:"-"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
