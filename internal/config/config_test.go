package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "this-is-a-test-secret-with-32-bytes!"

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD_HASH", "$2a$10$abcdefghijklmnopqrstuv")
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("OTP_SENDER", "log")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, BackendMemory, cfg.StoreBackend)
	assert.Equal(t, 90*time.Second, cfg.OTPTTL)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "snapecabs", cfg.MongoDatabase)
	assert.False(t, cfg.SeedDrivers)
}

func TestLoad_MissingSecrets(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD_HASH is required")
}

func TestLoad_ShortSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("JWT_SECRET", "short")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 32 bytes")
}

func TestLoad_BackendRequirements(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "mongo without uri",
			env:     map[string]string{"STORE_BACKEND": "mongo", "MONGO_URI": ""},
			wantErr: "MONGO_URI is required",
		},
		{
			name:    "postgres without dsn",
			env:     map[string]string{"STORE_BACKEND": "postgres", "POSTGRES_DSN": ""},
			wantErr: "POSTGRES_DSN is required",
		},
		{
			name:    "unknown backend",
			env:     map[string]string{"STORE_BACKEND": "dynamo"},
			wantErr: "unknown STORE_BACKEND",
		},
		{
			name:    "twilio without credentials",
			env:     map[string]string{"OTP_SENDER": "twilio"},
			wantErr: "TWILIO_ACCOUNT_SID",
		},
		{
			name:    "invalid port",
			env:     map[string]string{"PORT": "eighty"},
			wantErr: "invalid PORT",
		},
		{
			name:    "invalid otp ttl",
			env:     map[string]string{"OTP_TTL": "soon"},
			wantErr: "invalid OTP_TTL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_AllowedOrigins(t *testing.T) {
	setRequired(t)
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000, http://localhost:5173,,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.AllowedOrigins)
}
