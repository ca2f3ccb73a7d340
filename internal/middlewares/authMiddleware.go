package middlewares

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog/hlog"

	"snapecabs/internal/services"
	"snapecabs/internal/utils"
)

type contextKey string

const (
	claimsKey contextKey = "claims"
	tokenKey  contextKey = "token"
)

// Authenticator verifies a bearer token, including revocation.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*services.Claims, error)
}

// AuthMiddleware gates routes on the capability carried by the token.
type AuthMiddleware struct {
	auth Authenticator
}

func NewAuthMiddleware(auth Authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// RequireAdmin lets through tokens issued by admin login.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return m.require(next, func(c *services.Claims) bool { return c.IsAdmin }, "Forbidden - Admin access required")
}

// RequireUser lets through tokens issued to an employee.
func (m *AuthMiddleware) RequireUser(next http.Handler) http.Handler {
	return m.require(next, func(c *services.Claims) bool { return c.UserID != "" }, "Forbidden - User access required")
}

func (m *AuthMiddleware) require(next http.Handler, allowed func(*services.Claims) bool, forbidden string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized - No token provided")
			return
		}

		claims, err := m.auth.Authenticate(r.Context(), token)
		if errors.Is(err, services.ErrInvalidToken) {
			utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized - Invalid token")
			return
		}
		if err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("Token check failed")
			utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		if !allowed(claims) {
			utils.RespondWithError(w, http.StatusForbidden, forbidden)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(token)
}

// ClaimsFromContext returns the claims stored by RequireAdmin or RequireUser.
func ClaimsFromContext(ctx context.Context) (*services.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*services.Claims)
	return claims, ok
}

// TokenFromContext returns the raw bearer token of an authenticated request.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}
