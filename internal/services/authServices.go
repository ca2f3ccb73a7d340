package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"snapecabs/internal/metrics"
	"snapecabs/internal/models"
	"snapecabs/internal/repositories"
)

// AdminCredentials is the single administrative identity.
type AdminCredentials struct {
	Username     string
	PasswordHash string
}

// AuthService covers admin login, phone OTP login and logout for both kinds
// of token.
type AuthService interface {
	AdminLogin(ctx context.Context, username, password string) (string, error)
	AdminLogout(ctx context.Context, claims *Claims) error
	RequestLoginOTP(ctx context.Context, phoneNumber string) error
	VerifyLogin(ctx context.Context, phoneNumber, code string) (string, *models.User, error)
	Logout(ctx context.Context, token string, claims *Claims) error
	// Authenticate verifies a bearer token and rejects revoked ones with
	// ErrInvalidToken.
	Authenticate(ctx context.Context, token string) (*Claims, error)
}

type authService struct {
	admin       AdminCredentials
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	otpService  OTPService
	tokens      TokenService
	revoked     RevocationList
}

func NewAuthService(
	admin AdminCredentials,
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	otpService OTPService,
	tokens TokenService,
	revoked RevocationList,
) AuthService {
	return &authService{
		admin:       admin,
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		otpService:  otpService,
		tokens:      tokens,
		revoked:     revoked,
	}
}

func (a *authService) AdminLogin(ctx context.Context, username, password string) (string, error) {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.admin.Username)) == 1
	passwordOK := bcrypt.CompareHashAndPassword([]byte(a.admin.PasswordHash), []byte(password)) == nil
	if !usernameOK || !passwordOK {
		metrics.LoginAttemptsTotal.WithLabelValues("admin", "failed").Inc()
		log.Warn().Str("username", username).Msg("Admin login failed")
		return "", ErrInvalidCredentials
	}

	token, _, err := a.tokens.Issue("", true)
	if err != nil {
		return "", err
	}

	metrics.LoginAttemptsTotal.WithLabelValues("admin", "success").Inc()
	log.Info().Msg("Admin logged in")
	return token, nil
}

func (a *authService) AdminLogout(ctx context.Context, claims *Claims) error {
	if err := a.revoke(ctx, claims); err != nil {
		return err
	}
	metrics.TokensRevokedTotal.WithLabelValues("admin").Inc()
	log.Info().Msg("Admin logged out")
	return nil
}

// approvedUserByPhone returns ErrUserNotFound or ErrAccountNotApproved when
// the phone does not belong to an approved account.
func (a *authService) approvedUserByPhone(ctx context.Context, phoneNumber string) (*models.User, error) {
	user, err := a.userRepo.FindByPhone(ctx, phoneNumber)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if user.Status != models.UserStatusApproved {
		return nil, ErrAccountNotApproved
	}
	return user, nil
}

func (a *authService) RequestLoginOTP(ctx context.Context, phoneNumber string) error {
	user, err := a.approvedUserByPhone(ctx, phoneNumber)
	if err != nil {
		return err
	}
	userID := user.ID
	return a.otpService.Request(ctx, phoneNumber, &userID)
}

func (a *authService) VerifyLogin(ctx context.Context, phoneNumber, code string) (string, *models.User, error) {
	ok, err := a.otpService.Verify(ctx, phoneNumber, code)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		metrics.LoginAttemptsTotal.WithLabelValues("user", "failed").Inc()
		return "", nil, ErrInvalidOTP
	}

	user, err := a.approvedUserByPhone(ctx, phoneNumber)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("user", "failed").Inc()
		return "", nil, err
	}

	token, claims, err := a.tokens.Issue(user.ID, false)
	if err != nil {
		return "", nil, err
	}
	if _, err := a.sessionRepo.Create(ctx, &models.Session{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
	}); err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to create session")
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("user", "success").Inc()
	log.Info().Str("user_id", user.ID).Msg("User logged in")
	return token, user, nil
}

func (a *authService) Logout(ctx context.Context, token string, claims *Claims) error {
	deleted, err := a.sessionRepo.DeleteByToken(ctx, token)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrSessionNotFound
	}
	if err := a.revoke(ctx, claims); err != nil {
		return err
	}

	metrics.TokensRevokedTotal.WithLabelValues("user").Inc()
	log.Info().Str("user_id", claims.UserID).Msg("User logged out")
	return nil
}

func (a *authService) revoke(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return ErrInvalidToken
	}
	return a.revoked.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (a *authService) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := a.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	revoked, err := a.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
