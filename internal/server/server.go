package server

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"snapecabs/internal/config"
	"snapecabs/internal/database"
	"snapecabs/internal/middlewares"
	"snapecabs/internal/repositories"
	"snapecabs/internal/services"
)

// Deps are the collaborators chosen at process start.
type Deps struct {
	Store   *repositories.Store
	Sender  services.Sender
	Revoked services.RevocationList
}

type Server struct {
	port           int
	httpServer     *http.Server
	db             database.Service
	allowedOrigins []string
	storeTimeout   time.Duration

	userService       services.UserService
	authService       services.AuthService
	bookingService    services.BookingService
	driverService     services.DriverService
	allocationService services.AllocationService

	auth       *middlewares.AuthMiddleware
	limiter    *middlewares.RateLimiter
	prometheus *middlewares.PrometheusMiddleware
}

func NewServer(cfg *config.Config, deps Deps) *Server {
	store := deps.Store

	otpService := services.NewOTPService(store.OTPs, deps.Sender, cfg.OTPTTL)
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(
		services.AdminCredentials{Username: cfg.AdminUsername, PasswordHash: cfg.AdminPasswordHash},
		store.Users,
		store.Sessions,
		otpService,
		tokenService,
		deps.Revoked,
	)

	s := &Server{
		port:              cfg.Port,
		db:                store.DB,
		allowedOrigins:    cfg.AllowedOrigins,
		storeTimeout:      cfg.StoreTimeout,
		userService:       services.NewUserService(store.Users, otpService),
		authService:       authService,
		bookingService:    services.NewBookingService(store),
		driverService:     services.NewDriverService(store.Drivers),
		allocationService: services.NewAllocationService(store),
		auth:              middlewares.NewAuthMiddleware(authService),
		limiter:           middlewares.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		prometheus:        middlewares.NewPrometheusMiddleware(),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

// DriverService is exposed for start-up seeding.
func (s *Server) DriverService() services.DriverService {
	return s.driverService
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.limiter.CleanupVisitors(ctx, time.Minute, 3*time.Minute)

	log.Info().Int("port", s.port).Msg("Starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}
	if err := s.db.Close(ctx); err != nil {
		log.Error().Err(err).Msg("Failed to close store")
	}

	log.Info().Msg("Server exiting")
	done <- true
}
