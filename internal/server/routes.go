package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"

	"snapecabs/internal/handlers"
	"snapecabs/internal/middlewares"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(s.prometheus.Instrument)
	r.Use(middlewares.CorsMiddleware(s.allowedOrigins))
	r.Use(middlewares.ContextTimeout(s.storeTimeout))

	ch := handlers.NewCommonHandler(s.db)
	r.HandleFunc("/health", ch.HealthHandler).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/health", ch.HealthHandler).Methods("GET", "OPTIONS")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	s.registerAdminRoutes(r)
	s.registerUserRoutes(r)

	return withAccessLog(r)
}

func (s *Server) registerAdminRoutes(r *mux.Router) {
	ah := handlers.NewAuthHandler(s.authService)
	uh := handlers.NewUserHandler(s.userService)
	bh := handlers.NewBookingHandler(s.bookingService)
	dh := handlers.NewDriverHandler(s.driverService, s.allocationService)
	admin := s.auth.RequireAdmin

	r.Handle("/api/admin/login", s.limiter.Limit(http.HandlerFunc(ah.AdminLogin))).Methods("POST", "OPTIONS")
	r.Handle("/api/admin/logout", admin(http.HandlerFunc(ah.AdminLogout))).Methods("POST", "OPTIONS")

	r.Handle("/api/admin/users/pending", admin(http.HandlerFunc(uh.ListPending))).Methods("GET", "OPTIONS")
	r.Handle("/api/admin/users/approved", admin(http.HandlerFunc(uh.ListApproved))).Methods("GET", "OPTIONS")
	r.Handle("/api/admin/users/status", admin(http.HandlerFunc(uh.UpdateStatus))).Methods("PUT", "OPTIONS")

	r.Handle("/api/admin/bookings/pending", admin(http.HandlerFunc(bh.ListPending))).Methods("GET", "OPTIONS")
	r.Handle("/api/admin/bookings/approved", admin(http.HandlerFunc(bh.ListApproved))).Methods("GET", "OPTIONS")
	r.Handle("/api/admin/bookings/status", admin(http.HandlerFunc(bh.UpdateStatus))).Methods("PATCH", "OPTIONS")

	r.Handle("/api/admin/drivers", admin(http.HandlerFunc(dh.List))).Methods("GET", "OPTIONS")
	r.Handle("/api/admin/drivers", admin(http.HandlerFunc(dh.Create))).Methods("POST", "OPTIONS")
	r.Handle("/api/admin/drivers/available", admin(http.HandlerFunc(dh.ListAvailable))).Methods("GET", "OPTIONS")
	r.Handle("/api/admin/allocate", admin(http.HandlerFunc(dh.Allocate))).Methods("POST", "OPTIONS")
}

func (s *Server) registerUserRoutes(r *mux.Router) {
	ah := handlers.NewAuthHandler(s.authService)
	uh := handlers.NewUserHandler(s.userService)
	bh := handlers.NewBookingHandler(s.bookingService)
	user := s.auth.RequireUser

	r.Handle("/api/user/register", s.limiter.Limit(http.HandlerFunc(uh.Register))).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/user/verify-otp", uh.VerifyOTP).Methods("POST", "OPTIONS")
	r.Handle("/api/user/login", s.limiter.Limit(http.HandlerFunc(ah.UserLogin))).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/user/login/verify", ah.VerifyLogin).Methods("POST", "OPTIONS")
	r.Handle("/api/user/logout", user(http.HandlerFunc(ah.UserLogout))).Methods("POST", "OPTIONS")

	r.Handle("/api/user/bookings", user(http.HandlerFunc(bh.Create))).Methods("POST", "OPTIONS")
	r.Handle("/api/user/bookings", user(http.HandlerFunc(bh.ListMine))).Methods("GET", "OPTIONS")
}

// withAccessLog attaches a request-scoped logger with a request id and logs
// one line per request.
func withAccessLog(next http.Handler) http.Handler {
	h := hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request")
	})(next)
	h = hlog.RequestIDHandler("req_id", "X-Request-Id")(h)
	h = hlog.RemoteAddrHandler("ip")(h)
	return hlog.NewHandler(log.Logger)(h)
}
