package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"snapecabs/internal/config"
	"snapecabs/internal/database"
	"snapecabs/internal/repositories"
	"snapecabs/internal/repositories/memory"
	"snapecabs/internal/repositories/postgres"
	"snapecabs/internal/server"
	"snapecabs/internal/services"
)

func main() {
	// Configure zerolog for better output
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("Failed to open store")
	}
	if err := store.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare store schema")
	}

	revoked, err := openRevocationList(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}

	s := server.NewServer(cfg, server.Deps{
		Store:   store,
		Sender:  newSender(cfg),
		Revoked: revoked,
	})

	if cfg.SeedDrivers {
		n, err := s.DriverService().SeedDefaults(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to seed drivers")
		}
		log.Info().Int("inserted", n).Msg("Driver seeding finished")
	}

	done := make(chan bool, 1)

	go s.GracefulShutdown(done)

	err = s.Start()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("HTTP server error")
	}

	<-done
	log.Info().Msg("Graceful shutdown complete.")
}

func openStore(ctx context.Context, cfg *config.Config) (*repositories.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendMongo:
		db, err := database.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return repositories.NewMongoStore(db), nil
	case config.BackendPostgres:
		db, err := database.NewPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return postgres.NewStore(db), nil
	case config.BackendMemory:
		log.Warn().Msg("Using the in-memory store, data will not survive a restart")
		return memory.NewStore(), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// openRevocationList uses Redis when configured so logouts survive restarts
// and are shared between replicas.
func openRevocationList(ctx context.Context, cfg *config.Config) (services.RevocationList, error) {
	if cfg.RedisAddr == "" {
		return services.NewMemoryRevocationList(), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("Connected to Redis")
	return services.NewRedisRevocationList(client), nil
}

func newSender(cfg *config.Config) services.Sender {
	switch cfg.OTPSender {
	case config.SenderTwilio:
		return services.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom)
	case config.SenderEmail:
		return services.NewEmailGatewaySender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMSGatewayDomain)
	}
	log.Warn().Msg("OTP codes are written to the log only")
	return services.LogSender{}
}
