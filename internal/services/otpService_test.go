package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOTPService(t *testing.T) (*otpService, *recordingSender, *fakeClock) {
	t.Helper()
	store := newMemoryStore()
	sender := newRecordingSender()
	clock := &fakeClock{t: time.Now()}
	svc := NewOTPService(store.OTPs, sender, 90*time.Second).(*otpService)
	svc.now = clock.now
	return svc, sender, clock
}

func TestOTPService_SingleUse(t *testing.T) {
	svc, sender, _ := newTestOTPService(t)
	ctx := context.Background()
	phone := "+911234567890"

	require.NoError(t, svc.Request(ctx, phone, nil))
	code := sender.last(phone)
	require.Len(t, code, 6)

	ok, err := svc.Verify(ctx, phone, code)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Verify(ctx, phone, code)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOTPService_Expiry(t *testing.T) {
	svc, sender, clock := newTestOTPService(t)
	ctx := context.Background()
	phone := "+911234567890"

	require.NoError(t, svc.Request(ctx, phone, nil))
	clock.advance(91 * time.Second)

	ok, err := svc.Verify(ctx, phone, sender.last(phone))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOTPService_NewCodeSupersedesOld(t *testing.T) {
	svc, sender, _ := newTestOTPService(t)
	ctx := context.Background()
	phone := "+911234567890"

	require.NoError(t, svc.Request(ctx, phone, nil))
	first := sender.last(phone)
	require.NoError(t, svc.Request(ctx, phone, nil))
	second := sender.last(phone)

	if first != second {
		ok, err := svc.Verify(ctx, phone, first)
		require.NoError(t, err)
		assert.False(t, ok)
	}

	ok, err := svc.Verify(ctx, phone, second)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOTPService_Mismatch(t *testing.T) {
	svc, sender, _ := newTestOTPService(t)
	ctx := context.Background()

	ok, err := svc.Verify(ctx, "+910000000000", "123456")
	require.NoError(t, err)
	assert.False(t, ok, "unknown phone")

	require.NoError(t, svc.Request(ctx, "+911234567890", nil))
	wrong := "000000"
	if sender.last("+911234567890") == wrong {
		wrong = "111111"
	}
	ok, err = svc.Verify(ctx, "+911234567890", wrong)
	require.NoError(t, err)
	assert.False(t, ok, "wrong code")
}

func TestOTPService_DeliveryFailure(t *testing.T) {
	svc, sender, _ := newTestOTPService(t)
	sender.fail = true

	err := svc.Request(context.Background(), "+911234567890", nil)
	assert.ErrorIs(t, err, ErrDeliveryFailed)
}
