package middlewares

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// ContextTimeout bounds the request context, and with it every store call
// and OTP delivery made while serving the request.
func ContextTimeout(d time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
