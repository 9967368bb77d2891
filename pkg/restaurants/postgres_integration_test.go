//go:build integration

package restaurants_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/platinummonkey/restaurant-service/pkg/restaurants"
	"github.com/platinummonkey/restaurant-service/pkg/storage/postgres"
)

// setupPostgres starts a disposable PostgreSQL with the schema applied
func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	provider, err := testcontainers.ProviderDocker.GetProvider()
	if err != nil {
		t.Skip("Docker/Podman not available, skipping integration tests")
	}
	defer provider.Close()

	container, err := tcpostgres.Run(ctx, "postgres:15-alpine",
		tcpostgres.WithDatabase("restaurants_test"),
		tcpostgres.WithUsername("restaurants"),
		tcpostgres.WithPassword("restaurants_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Skipf("Failed to start PostgreSQL container: %v", err)
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	require.NoError(t, db.Ping())
	require.NoError(t, postgres.Migrate(db), "Failed to run migrations")

	t.Cleanup(func() {
		db.Close()
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := container.Terminate(cleanupCtx); err != nil {
			t.Errorf("Failed to terminate container: %v", err)
		}
	})
	return db
}

func TestPostgresStoreIntegration(t *testing.T) {
	db := setupPostgres(t)
	store := restaurants.NewPostgresStoreWithConns(postgres.NewConnectionManagerFromDB(db))
	ctx := context.Background()

	r := &restaurants.Restaurant{Name: "Chez Go", Description: "bistro"}
	require.NoError(t, store.CreateRestaurant(ctx, r, "user-1"))

	ok, err := store.IsOwner(ctx, r.ID, "user-1")
	require.NoError(t, err)
	assert.True(t, ok)

	mine, err := store.ListRestaurantsByOwner(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, mine, 1)

	start := "11:00"
	m := &restaurants.Menu{RestaurantID: r.ID, Name: "Lunch", StartTime: &start}
	require.NoError(t, store.CreateMenu(ctx, m))

	it := &restaurants.Item{MenuID: m.ID, DisplayName: "Soup", ShortName: "SP", Price: 4.5, IsAvailable: true}
	require.NoError(t, store.CreateItem(ctx, it))

	got, err := store.GetItem(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, got.Price)
	require.NotNil(t, got.Menu)
	require.NotNil(t, got.Menu.Restaurant)
	assert.Equal(t, r.ID, got.Menu.Restaurant.ID)
	assert.Equal(t, "11:00", *got.Menu.StartTime)

	items, err := store.GetItemsForRestaurant(ctx, r.ID, []string{it.ID, "unknown"})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	_, err = store.AddOwner(ctx, r.ID, "user-2")
	require.NoError(t, err)
	_, err = store.AddOwner(ctx, r.ID, "user-2")
	require.NoError(t, err)
	owners, err := store.ListOwners(ctx, r.ID)
	require.NoError(t, err)
	assert.Len(t, owners, 2)

	require.NoError(t, store.DeleteRestaurant(ctx, r.ID))
	_, err = store.GetItem(ctx, it.ID)
	assert.ErrorIs(t, err, restaurants.ErrNotFound)
	assert.ErrorIs(t, store.DeleteItem(ctx, it.ID), restaurants.ErrNotFound)
}
