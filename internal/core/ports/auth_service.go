package ports

import (
	"context"

	"github.com/voicify/voicify-api/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (string, *domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
	Me(ctx context.Context, userID string) (*domain.User, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, rawSecret, newPassword string) error
}

// TokenIssuer mints and verifies self-contained session credentials.
// Verification is a pure check: no storage or network access.
type TokenIssuer interface {
	Mint(userID string) (string, error)
	Verify(token string) (userID string, err error)
}

// Mailer delivers a single message. Implementations make one attempt;
// callers decide whether a failure is surfaced or swallowed.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody, textBody string) error
}
