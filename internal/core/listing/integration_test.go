//go:build integration

package listing_test

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/imoveis/catalog/config"
	"github.com/imoveis/catalog/internal/core/listing"
	"github.com/imoveis/catalog/internal/storage/postgres"
	redisstore "github.com/imoveis/catalog/internal/storage/redis"
)

var (
	testDB    *postgres.Client
	testRedis *goredis.Client
)

// TestMain starts Postgres and Redis containers for the repository tests.
func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("Could not construct pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		log.Fatalf("Could not connect to Docker: %s", err)
	}

	hostConfig := func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	}

	pgResource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=imoveis",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=imoveis_test",
		},
	}, hostConfig)
	if err != nil {
		log.Fatalf("Could not start Postgres resource: %s", err)
	}

	redisResource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, hostConfig)
	if err != nil {
		log.Fatalf("Could not start Redis resource: %s", err)
	}

	var port int
	fmt.Sscanf(pgResource.GetPort("5432/tcp"), "%d", &port)
	dbCfg := &config.DatabaseConfig{
		Host:     "localhost",
		Port:     port,
		User:     "imoveis",
		Password: "secret",
		Name:     "imoveis_test",
		SSLMode:  "disable",
	}

	if err := pool.Retry(func() error {
		var errRetry error
		testDB, errRetry = postgres.NewClient(dbCfg)
		return errRetry
	}); err != nil {
		log.Fatalf("Could not connect to Postgres: %s", err)
	}
	if err := testDB.EnsureSchema(context.Background()); err != nil {
		log.Fatalf("Could not apply schema: %s", err)
	}

	if err := pool.Retry(func() error {
		var errRetry error
		testRedis, errRetry = redisstore.NewClient(context.Background(), &config.RedisConfig{
			Address: redisResource.GetHostPort("6379/tcp"),
		})
		return errRetry
	}); err != nil {
		log.Fatalf("Could not connect to Redis: %s", err)
	}

	code := m.Run()

	testRedis.Close()
	testDB.Close()
	if err := pool.Purge(pgResource); err != nil {
		log.Printf("Could not purge Postgres: %s", err)
	}
	if err := pool.Purge(redisResource); err != nil {
		log.Printf("Could not purge Redis: %s", err)
	}
	os.Exit(code)
}

func resetListings(t *testing.T) {
	t.Helper()
	_, err := testDB.DB.Exec(`TRUNCATE listings`)
	require.NoError(t, err)
	require.NoError(t, testRedis.FlushDB(context.Background()).Err())
}

// seedExamples inserts the example catalog oldest first so that database
// timestamps follow the same order as the in-memory copy.
func seedExamples(t *testing.T, repo listing.Repository) {
	t.Helper()
	examples := listing.ExampleListings()
	for i := len(examples) - 1; i >= 0; i-- {
		require.NoError(t, repo.Create(context.Background(), examples[i]))
		time.Sleep(5 * time.Millisecond)
	}
}

func listIDs(t *testing.T, repo listing.Repository, f listing.Filter) []string {
	t.Helper()
	listings, err := repo.List(context.Background(), f.Criteria())
	require.NoError(t, err)
	ids := []string{}
	for _, l := range listings {
		ids = append(ids, l.ID)
	}
	return ids
}

func intPtr(n int) *int {
	return &n
}

func TestPostgresRepository_MatchesMemory(t *testing.T) {
	resetListings(t)
	pg := listing.NewPostgresRepository(testDB)
	seedExamples(t, pg)
	mem := listing.NewMemoryRepository(listing.ExampleListings())

	filters := []listing.Filter{
		{},
		{Suites: intPtr(0)},
		{Suites: intPtr(2)},
		{GarageRequired: true},
		{Type: "Casa"},
		{Term: "casa"},
		{Location: "belo horizonte", MinBedrooms: intPtr(3)},
		{PriceMin: "450000", PriceMax: "850000"},
		{PriceMin: "abc", MinBathrooms: intPtr(3)},
		{Term: "100%"},
	}

	for _, f := range filters {
		assert.Equal(t, listIDs(t, mem, f), listIDs(t, pg, f), "query %q", f.QueryString())
	}
}

func TestPostgresRepository_CRUD(t *testing.T) {
	resetListings(t)
	repo := listing.NewPostgresRepository(testDB)
	ctx := context.Background()

	l := listing.ExampleListings()[1]
	require.NoError(t, repo.Create(ctx, l))
	assert.False(t, l.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, l.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, l.Images, got.Images)
	assert.Equal(t, l.Images[0], got.CoverImage)
	assert.True(t, l.PriceValue.Equal(got.PriceValue))

	got.Images = []string{"/nova.jpg", "/outra.jpg"}
	got.Suites = 0
	require.NoError(t, repo.Update(ctx, got))
	assert.Equal(t, []string{"exemplo-2"}, listIDs(t, repo, listing.Filter{Suites: intPtr(0)}))

	assert.ErrorIs(t, repo.Update(ctx, &listing.Listing{ID: "missing", Images: []string{"/x.jpg"}}), listing.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, l.ID))
	assert.ErrorIs(t, repo.Delete(ctx, l.ID), listing.ErrNotFound)

	missing, err := repo.GetByID(ctx, l.ID)
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCachedRepository_InvalidatesOnWrite(t *testing.T) {
	resetListings(t)
	pg := listing.NewPostgresRepository(testDB)
	cached := listing.NewCachedRepository(pg, testRedis, time.Hour, time.Hour, zap.NewNop())
	ctx := context.Background()
	seedExamples(t, cached)

	noSuites := listing.Filter{Suites: intPtr(0)}
	assert.Equal(t, []string{"exemplo-4", "exemplo-6"}, listIDs(t, cached, noSuites))

	_, err := testDB.DB.Exec(`UPDATE listings SET suites = 0 WHERE id = 'exemplo-5'`)
	require.NoError(t, err)
	assert.Equal(t, []string{"exemplo-4", "exemplo-6"}, listIDs(t, cached, noSuites), "served from cache")

	first, err := cached.GetByID(ctx, "exemplo-4")
	require.NoError(t, err)
	require.NotNil(t, first)

	require.NoError(t, cached.Delete(ctx, "exemplo-4"))

	assert.Equal(t, []string{"exemplo-5", "exemplo-6"}, listIDs(t, cached, noSuites))
	gone, err := cached.GetByID(ctx, "exemplo-4")
	require.NoError(t, err)
	assert.Nil(t, gone)
}
