package genres

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/librarian/internal/database/collection"
	"github.com/mrlokans/librarian/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := filepath.Join(t.TempDir(), "genres.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Genre{}))

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}

	return NewRepository(db), cleanup
}

func TestRepository_FindByName(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	genre := &entities.Genre{Name: "Fantasy"}
	require.NoError(t, repo.Create(ctx, genre))

	found, err := repo.FindByName(ctx, "Fantasy")
	require.NoError(t, err)
	assert.Equal(t, genre.ID, found.ID)

	_, err = repo.FindByName(ctx, "fantasy")
	assert.ErrorIs(t, err, collection.ErrNotFound)
}

func TestRepository_ListOrderedByName(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	for _, name := range []string{"Science Fiction", "Fantasy", "Romance"} {
		require.NoError(t, repo.Create(ctx, &entities.Genre{Name: name}))
	}

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Fantasy", list[0].Name)
	assert.Equal(t, "Science Fiction", list[2].Name)
}

func TestRepository_ReplaceAndDelete(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	genre := &entities.Genre{Name: "Fantsy"}
	require.NoError(t, repo.Create(ctx, genre))

	got, err := repo.Replace(ctx, genre.ID, &entities.Genre{Name: "Fantasy"})
	require.NoError(t, err)
	assert.Equal(t, "Fantasy", got.Name)

	require.NoError(t, repo.Delete(ctx, genre.ID))
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
