package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snapecabs/internal/services"
)

type stubAuthenticator map[string]*services.Claims

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*services.Claims, error) {
	if token == "broken-store" {
		return nil, errors.New("redis down")
	}
	claims, ok := s[token]
	if !ok {
		return nil, services.ErrInvalidToken
	}
	return claims, nil
}

func TestAuthMiddleware(t *testing.T) {
	auth := NewAuthMiddleware(stubAuthenticator{
		"admin-token": {IsAdmin: true},
		"user-token":  {UserID: "user-1"},
	})

	var seen *services.Claims
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		assert.NotEmpty(t, TokenFromContext(r.Context()))
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name   string
		gate   func(http.Handler) http.Handler
		header string
		want   int
	}{
		{"admin no header", auth.RequireAdmin, "", http.StatusUnauthorized},
		{"admin wrong scheme", auth.RequireAdmin, "Basic abc", http.StatusUnauthorized},
		{"admin unknown token", auth.RequireAdmin, "Bearer nope", http.StatusUnauthorized},
		{"admin with user token", auth.RequireAdmin, "Bearer user-token", http.StatusForbidden},
		{"admin ok", auth.RequireAdmin, "Bearer admin-token", http.StatusOK},
		{"user with admin token", auth.RequireUser, "Bearer admin-token", http.StatusForbidden},
		{"user ok", auth.RequireUser, "Bearer user-token", http.StatusOK},
		{"store failure", auth.RequireUser, "Bearer broken-store", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()

			tt.gate(ok).ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Code)
			if tt.want == http.StatusOK {
				require.NotNil(t, seen)
			} else {
				assert.Nil(t, seen)
				assert.Contains(t, rr.Body.String(), `"message"`)
			}
		})
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	h := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/user/login", nil)
		req.RemoteAddr = "10.0.0.1:5000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodPost, "/api/user/login", nil)
	req.RemoteAddr = "10.0.0.2:5000"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code, "limits are per client")
}

func TestCorsMiddleware(t *testing.T) {
	h := CorsMiddleware([]string{"http://localhost:5173"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/user/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://evil.example")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, rr.Header().Get("Access-Control-Allow-Origin"))
}
