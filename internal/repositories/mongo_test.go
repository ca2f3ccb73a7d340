package repositories_test

import (
	"context"
	"flag"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"snapecabs/internal/database"
	"snapecabs/internal/repositories"
	"snapecabs/internal/repositories/storetest"
)

var mongoURI string

func mustStartMongoContainer() (func(context.Context) error, error) {
	dbContainer, err := mongodb.Run(context.Background(), "mongo:7")
	if err != nil {
		return nil, err
	}

	uri, err := dbContainer.ConnectionString(context.Background())
	if err != nil {
		return dbContainer.Terminate, err
	}
	mongoURI = uri

	return dbContainer.Terminate, nil
}

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}

	teardown, err := mustStartMongoContainer()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not start mongodb container")
	}

	code := m.Run()

	if teardown != nil {
		if err := teardown(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("Could not teardown mongodb container")
		}
	}
	os.Exit(code)
}

func TestMongoStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test in short mode.")
	}

	storetest.Run(t, func(t *testing.T) *repositories.Store {
		ctx := context.Background()
		db, err := database.New(ctx, mongoURI, "snapecabs_"+uuid.NewString()[:8])
		require.NoError(t, err)
		t.Cleanup(func() {
			_ = db.Database().Drop(context.Background())
			_ = db.Close(context.Background())
		})

		store := repositories.NewMongoStore(db)
		require.NoError(t, store.EnsureSchema(ctx))
		return store
	})
}
