package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/voicify/voicify-api/internal/api/metrics"
	"github.com/voicify/voicify-api/internal/core/domain"
	"github.com/voicify/voicify-api/internal/core/ports"
)

const defaultResetTTL = time.Hour

// AuthService implements registration, login, profile lookup and the
// password-reset flow.
type AuthService struct {
	repo        ports.UserRepository
	issuer      ports.TokenIssuer
	mailer      ports.Mailer
	frontendURL string
	resetTTL    time.Duration
	logger      zerolog.Logger
}

func NewAuthService(repo ports.UserRepository, issuer ports.TokenIssuer, mailer ports.Mailer, frontendURL string, resetTTL time.Duration, logger zerolog.Logger) *AuthService {
	if resetTTL <= 0 {
		resetTTL = defaultResetTTL
	}
	return &AuthService{
		repo:        repo,
		issuer:      issuer,
		mailer:      mailer,
		frontendURL: strings.TrimRight(frontendURL, "/"),
		resetTTL:    resetTTL,
		logger:      logger,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (string, *domain.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return "", nil, domain.NewValidationError("name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return "", nil, domain.NewValidationError("a valid email is required")
	}
	if err := validatePassword(password); err != nil {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// Uniqueness is enforced by the repository (unique email index), so
	// two concurrent registrations cannot both succeed.
	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return "", nil, err
	}

	token, err := s.issuer.Mint(created.ID)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("user_id", created.ID).Msg("user registered")
	return token, created, nil
}

// Login deliberately collapses "no such account" and "wrong password"
// into the same error so callers cannot probe for registered emails.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.issuer.Mint(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Account deleted after the token was minted.
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// RequestPasswordReset returns nil for unknown emails as well: the
// response shape never reveals whether an account exists.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	email = normalizeEmail(email)

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil
		}
		return err
	}

	secret, err := generateResetSecret()
	if err != nil {
		return err
	}
	expiresAt := time.Now().UTC().Add(s.resetTTL)

	// Overwrites any earlier descriptor: the previous secret is dead
	// from this point on.
	if err := s.repo.SetResetToken(ctx, user.ID, hashSecret(secret), expiresAt); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password/%s", s.frontendURL, secret)
	subject := "Reset your Voicify password"
	text := fmt.Sprintf("You requested a password reset. Open this link to choose a new password: %s\nThe link expires in %s. If you did not request this, ignore this email.", link, s.resetTTL)
	html := fmt.Sprintf(`<p>You requested a password reset.</p><p><a href="%s">Choose a new password</a></p><p>The link expires in %s. If you did not request this, ignore this email.</p>`, link, s.resetTTL)

	if err := s.mailer.Send(ctx, user.Email, subject, html, text); err != nil {
		metrics.ResetEmailsTotal.WithLabelValues("failed").Inc()
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("reset email delivery failed")
		return domain.ErrMailDelivery
	}

	metrics.ResetEmailsTotal.WithLabelValues("sent").Inc()
	s.logger.Info().Str("user_id", user.ID).Msg("password reset requested")
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, rawSecret, newPassword string) error {
	if rawSecret == "" {
		return domain.ErrResetTokenInvalid
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	// Consumption and password swap happen in one repository call;
	// a replayed secret finds no matching descriptor and fails.
	if err := s.repo.ResetPassword(ctx, hashSecret(rawSecret), string(hash), time.Now().UTC()); err != nil {
		return err
	}

	s.logger.Info().Msg("password reset completed")
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validatePassword enforces the account password policy: at least
// eight characters with at least one letter and one digit.
func validatePassword(password string) error {
	if len(password) < 8 {
		return domain.NewValidationError("password must be at least 8 characters")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return domain.NewValidationError("password must contain at least one letter and one number")
	}
	return nil
}

func generateResetSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func hashSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
