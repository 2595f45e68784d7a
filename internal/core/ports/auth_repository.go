package ports

import (
	"context"
	"time"

	"github.com/voicify/voicify-api/internal/core/domain"
)

// UserRepository defines the persistence operations the auth flows need.
// Every method touches exactly one user document; implementations must
// make each call individually atomic.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// SetResetToken stores a new reset descriptor on the user,
	// replacing any previously issued one.
	SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error

	// ResetPassword atomically consumes the reset descriptor matching
	// tokenHash (unexpired) and swaps in the new password hash. When no
	// live descriptor matches, it returns domain.ErrResetTokenInvalid;
	// of two concurrent calls with the same hash, exactly one succeeds.
	ResetPassword(ctx context.Context, tokenHash, newPasswordHash string, now time.Time) error
}
