package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"snapecabs/internal/models"
	"snapecabs/internal/repositories"
)

type authFixture struct {
	svc    AuthService
	store  *repositories.Store
	sender *recordingSender
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	store := newMemoryStore()
	sender := newRecordingSender()
	otps := NewOTPService(store.OTPs, sender, 90*time.Second)
	svc := NewAuthService(
		AdminCredentials{Username: "admin", PasswordHash: string(hash)},
		store.Users,
		store.Sessions,
		otps,
		NewTokenService(testSecret, time.Hour),
		NewMemoryRevocationList(),
	)
	return &authFixture{svc: svc, store: store, sender: sender}
}

func TestAuthService_AdminLogin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.AdminLogin(ctx, "admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = f.svc.AdminLogin(ctx, "root", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, err := f.svc.AdminLogin(ctx, "admin", "s3cret-pass")
	require.NoError(t, err)

	claims, err := f.svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)

	require.NoError(t, f.svc.AdminLogout(ctx, claims))
	_, err = f.svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_UserLoginFlow(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	phone := "+911234567890"

	err := f.svc.RequestLoginOTP(ctx, phone)
	assert.ErrorIs(t, err, ErrUserNotFound)

	pending, err := f.store.Users.Create(ctx, &models.User{Email: "a@example.com", PhoneNumber: phone})
	require.NoError(t, err)
	err = f.svc.RequestLoginOTP(ctx, phone)
	assert.ErrorIs(t, err, ErrAccountNotApproved)

	_, err = f.store.Users.UpdateStatus(ctx, pending.ID, models.UserStatusApproved)
	require.NoError(t, err)
	require.NoError(t, f.svc.RequestLoginOTP(ctx, phone))

	_, _, err = f.svc.VerifyLogin(ctx, phone, "not-it")
	assert.ErrorIs(t, err, ErrInvalidOTP)

	token, user, err := f.svc.VerifyLogin(ctx, phone, f.sender.last(phone))
	require.NoError(t, err)
	assert.Equal(t, pending.ID, user.ID)

	session, err := f.store.Sessions.FindByToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, session.UserID)

	claims, err := f.svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, pending.ID, claims.UserID)

	require.NoError(t, f.svc.Logout(ctx, token, claims))
	_, err = f.svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken, "logout revokes the token")

	err = f.svc.Logout(ctx, token, claims)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
