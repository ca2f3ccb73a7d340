package postgres

import (
	"context"
	"flag"
	"os"
	"testing"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"snapecabs/internal/database"
	"snapecabs/internal/repositories"
	"snapecabs/internal/repositories/storetest"
)

var dsn string

func mustStartPostgresContainer() (func(context.Context) error, error) {
	dbContainer, err := tcpostgres.Run(context.Background(), "postgres:16-alpine",
		tcpostgres.WithDatabase("snapecabs"),
		tcpostgres.WithUsername("snapecabs"),
		tcpostgres.WithPassword("snapecabs"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	connStr, err := dbContainer.ConnectionString(context.Background(), "sslmode=disable")
	if err != nil {
		return dbContainer.Terminate, err
	}
	dsn = connStr

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	teardown, err := mustStartPostgresContainer()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not start postgres container")
	}

	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Could not teardown postgres container")
		}
	}
	os.Exit(code)
}

func TestPostgresStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}

	db, err := database.NewPostgres(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(context.Background()) })

	storetest.Run(t, func(t *testing.T) *repositories.Store {
		ctx := context.Background()
		store := NewStore(db)
		require.NoError(t, store.EnsureSchema(ctx))
		require.NoError(t, db.DB().Exec("TRUNCATE users, otps, bookings, drivers, allocations, sessions").Error)
		return store
	})
}
