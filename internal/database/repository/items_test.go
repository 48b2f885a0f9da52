package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jask/shoplist/internal/database"
	"github.com/jask/shoplist/internal/database/repository"
	"github.com/jask/shoplist/internal/model"
	"github.com/jask/shoplist/internal/store"
)

var _ store.Backend = (*repository.ItemRepo)(nil)

var drivers = []string{database.DriverCGO, database.DriverPureGo}

func openMigrated(t *testing.T, driver string) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	require.NoError(t, database.RunMigrations(driver, dbPath))

	db, err := database.Open(driver, dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestItemRepoRoundTrip(t *testing.T) {
	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			repo := repository.NewItemRepo(openMigrated(t, driver))

			milk, err := repo.Insert(ctx, "milk")
			require.NoError(t, err)
			bread, err := repo.Insert(ctx, "bread")
			require.NoError(t, err)
			assert.Equal(t, int64(1), milk.ID)
			assert.Equal(t, int64(2), bread.ID)

			items, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []model.Item{milk, bread}, items)

			require.NoError(t, repo.Delete(ctx, milk.ID))
			require.NoError(t, repo.Delete(ctx, milk.ID), "deleting twice is fine")

			items, err = repo.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []model.Item{bread}, items)
		})
	}
}

func TestItemRepoNeverReusesIDs(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewItemRepo(openMigrated(t, database.DriverPureGo))

	a, err := repo.Insert(ctx, "a")
	require.NoError(t, err)
	require.NoError(t, repo.Delete(ctx, a.ID))
	b, err := repo.Insert(ctx, "b")
	require.NoError(t, err)
	assert.Greater(t, b.ID, a.ID)
}

func TestItemRepoRejectsBlankName(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewItemRepo(openMigrated(t, database.DriverCGO))

	_, err := repo.Insert(ctx, "   ")
	require.Error(t, err)

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStoreOverSQLite(t *testing.T) {
	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			ctx := context.Background()
			db := openMigrated(t, driver)
			repo := repository.NewItemRepo(db)

			s := store.New(store.WithBackend(repo))
			require.NoError(t, s.Load(ctx))
			sub := s.Observe()
			defer sub.Close()
			<-sub.C

			milk, err := s.Add(ctx, "milk")
			require.NoError(t, err)
			assert.Equal(t, []model.Item{{ID: 1, Name: "milk"}}, (<-sub.C).Items())

			_, err = s.Add(ctx, "bread")
			require.NoError(t, err)
			<-sub.C

			require.NoError(t, s.Remove(ctx, milk.ID))
			assert.Equal(t, []model.Item{{ID: 2, Name: "bread"}}, (<-sub.C).Items())

			// a second store over the same file sees the persisted state
			reopened := store.New(store.WithBackend(repository.NewItemRepo(db)))
			require.NoError(t, reopened.Load(ctx))
			assert.Equal(t, s.Snapshot().Items(), reopened.Snapshot().Items())
		})
	}
}

func TestStoreSurfacesConstraintFailure(t *testing.T) {
	ctx := context.Background()
	db := openMigrated(t, database.DriverPureGo)
	s := store.New(store.WithBackend(repository.NewItemRepo(db)))
	require.NoError(t, s.Load(ctx))

	_, err := db.ExecContext(ctx, `DROP TABLE items`)
	require.NoError(t, err)

	_, err = s.Add(ctx, "milk")
	require.Error(t, err)
	assert.Equal(t, 0, s.Snapshot().Len())
}
