package collection

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/librarian/internal/entities"
)

func setupTestDB(t *testing.T) (*Collection[entities.Genre], func()) {
	dbPath := filepath.Join(t.TempDir(), "collection.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Genre{}))

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}

	return New[entities.Genre](db), cleanup
}

func TestCollection_InsertAssignsID(t *testing.T) {
	genres, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	g := &entities.Genre{Name: "Poetry"}
	require.NoError(t, genres.Insert(ctx, g))

	_, err := uuid.Parse(g.ID)
	assert.NoError(t, err)

	found, err := genres.FindByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Poetry", found.Name)
}

func TestCollection_FindByID_Errors(t *testing.T) {
	genres, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	_, err := genres.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = genres.FindByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestCollection_FindOrderAndWhere(t *testing.T) {
	genres, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	for _, name := range []string{"Poetry", "Drama", "Essay"} {
		require.NoError(t, genres.Insert(ctx, &entities.Genre{Name: name}))
	}

	all, err := genres.Find(ctx, Query{Order: "name ASC"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Drama", all[0].Name)
	assert.Equal(t, "Poetry", all[2].Name)

	some, err := genres.Find(ctx, Query{Where: map[string]any{"name": "Essay"}})
	require.NoError(t, err)
	assert.Len(t, some, 1)

	n, err := genres.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestCollection_FindEmptyIsNotNil(t *testing.T) {
	genres, cleanup := setupTestDB(t)
	defer cleanup()

	all, err := genres.Find(context.Background(), Query{})
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestCollection_ReplaceByID(t *testing.T) {
	genres, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	g := &entities.Genre{Name: "Poetry"}
	require.NoError(t, genres.Insert(ctx, g))

	replaced, err := genres.ReplaceByID(ctx, g.ID, &entities.Genre{Name: "Verse"})
	require.NoError(t, err)
	assert.Equal(t, g.ID, replaced.ID)
	assert.Equal(t, "Verse", replaced.Name)
	assert.Equal(t, g.CreatedAt.Unix(), replaced.CreatedAt.Unix())

	_, err = genres.ReplaceByID(ctx, uuid.NewString(), &entities.Genre{Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCollection_DeleteByID(t *testing.T) {
	genres, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	g := &entities.Genre{Name: "Poetry"}
	require.NoError(t, genres.Insert(ctx, g))

	require.NoError(t, genres.DeleteByID(ctx, g.ID))
	assert.ErrorIs(t, genres.DeleteByID(ctx, g.ID), ErrNotFound)
	assert.ErrorIs(t, genres.DeleteByID(ctx, "bogus"), ErrInvalidID)
}
