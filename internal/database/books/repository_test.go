package books

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

	"github.com/mrlokans/librarian/internal/database/collection"
	"github.com/mrlokans/librarian/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *gorm.DB, func()) {
	dbPath := filepath.Join(t.TempDir(), "books.db")

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Author{}, &entities.Genre{}, &entities.Book{}))

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}

	return NewRepository(db), db, cleanup
}

func seedAuthor(t *testing.T, db *gorm.DB, family string) *entities.Author {
	a := &entities.Author{FirstName: "A", FamilyName: family}
	require.NoError(t, db.Create(a).Error)
	return a
}

func seedGenre(t *testing.T, db *gorm.DB, name string) *entities.Genre {
	g := &entities.Genre{Name: name}
	require.NoError(t, db.Create(g).Error)
	return g
}

func TestRepository_CreateWithGenres(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	author := seedAuthor(t, db, "Herbert")
	sf := seedGenre(t, db, "Science Fiction")
	classic := seedGenre(t, db, "Classic")

	book := &entities.Book{
		Title: "Dune", AuthorID: author.ID, Summary: "Spice", ISBN: "9780441172719",
		GenreIDs: []string{sf.ID, classic.ID, sf.ID},
	}
	require.NoError(t, repo.Create(ctx, book))

	got, err := repo.Get(ctx, book.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Author)
	assert.Equal(t, "Herbert", got.Author.FamilyName)
	assert.Len(t, got.Genres, 2)
	assert.ElementsMatch(t, []string{sf.ID, classic.ID}, got.GenreIDs)
	assert.True(t, got.HasGenre(classic.ID))
}

func TestRepository_ReplaceSwapsGenreSet(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	author := seedAuthor(t, db, "Austen")
	romance := seedGenre(t, db, "Romance")
	fiction := seedGenre(t, db, "Fiction")

	book := &entities.Book{Title: "Emma", AuthorID: author.ID, GenreIDs: []string{romance.ID}}
	require.NoError(t, repo.Create(ctx, book))

	got, err := repo.Replace(ctx, book.ID, &entities.Book{
		Title: "Emma", AuthorID: author.ID, Summary: "Matchmaking", GenreIDs: []string{fiction.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, book.ID, got.ID)
	assert.Equal(t, "Matchmaking", got.Summary)
	assert.Equal(t, []string{fiction.ID}, got.GenreIDs)

	byRomance, err := repo.ListByGenre(ctx, romance.ID)
	require.NoError(t, err)
	assert.Empty(t, byRomance)
}

func TestRepository_ReplaceMissing(t *testing.T) {
	repo, _, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.Replace(context.Background(), uuid.NewString(), &entities.Book{Title: "X"})
	assert.ErrorIs(t, err, collection.ErrNotFound)
}

func TestRepository_ListAndTitles(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	author := seedAuthor(t, db, "Asimov")
	require.NoError(t, repo.Create(ctx, &entities.Book{Title: "I, Robot", AuthorID: author.ID, Summary: "Laws"}))
	require.NoError(t, repo.Create(ctx, &entities.Book{Title: "Foundation", AuthorID: author.ID, Summary: "Empire"}))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Foundation", list[0].Title)
	require.NotNil(t, list[0].Author)
	assert.Equal(t, "Asimov", list[0].Author.FamilyName)
	assert.Empty(t, list[0].Summary)

	titles, err := repo.Titles(ctx)
	require.NoError(t, err)
	require.Len(t, titles, 2)
	assert.Equal(t, "I, Robot", titles[1].Title)
	assert.Empty(t, titles[1].AuthorID)
}

func TestRepository_ListByAuthorAndGenre(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	asimov := seedAuthor(t, db, "Asimov")
	austen := seedAuthor(t, db, "Austen")
	sf := seedGenre(t, db, "Science Fiction")

	require.NoError(t, repo.Create(ctx, &entities.Book{Title: "Foundation", AuthorID: asimov.ID, GenreIDs: []string{sf.ID}}))
	require.NoError(t, repo.Create(ctx, &entities.Book{Title: "The Gods Themselves", AuthorID: asimov.ID}))
	require.NoError(t, repo.Create(ctx, &entities.Book{Title: "Emma", AuthorID: austen.ID}))

	byAsimov, err := repo.ListByAuthor(ctx, asimov.ID)
	require.NoError(t, err)
	assert.Len(t, byAsimov, 2)

	bySF, err := repo.ListByGenre(ctx, sf.ID)
	require.NoError(t, err)
	require.Len(t, bySF, 1)
	assert.Equal(t, "Foundation", bySF[0].Title)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestRepository_DeleteRemovesGenreLinks(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	sf := seedGenre(t, db, "Science Fiction")
	book := &entities.Book{Title: "Dune", GenreIDs: []string{sf.ID}}
	require.NoError(t, repo.Create(ctx, book))

	require.NoError(t, repo.Delete(ctx, book.ID))

	var links int64
	require.NoError(t, db.Table("book_genres").Count(&links).Error)
	assert.Zero(t, links)
	assert.ErrorIs(t, repo.Delete(ctx, book.ID), collection.ErrNotFound)
}

func TestRepository_DanglingReferences(t *testing.T) {
	repo, db, cleanup := setupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	author := seedAuthor(t, db, "Herbert")
	genre := seedGenre(t, db, "Science Fiction")

	require.NoError(t, repo.Create(ctx, &entities.Book{Title: "Dune", AuthorID: author.ID, GenreIDs: []string{genre.ID}}))
	require.NoError(t, repo.Create(ctx, &entities.Book{Title: "Ghost", AuthorID: uuid.NewString()}))

	orphans, err := repo.ListWithoutAuthor(ctx)
	require.NoError(t, err)
	require.Len(t, orphans, 1)
	assert.Equal(t, "Ghost", orphans[0].Title)

	n, err := repo.CountDanglingGenreLinks(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	require.NoError(t, db.Delete(genre).Error)
	n, err = repo.CountDanglingGenreLinks(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
