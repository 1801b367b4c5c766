// Package books provides database operations for the book collection and
// its genre links.
//
// Genre membership lives in the book_genres join table. It is written by this
// package in the same transaction as the book row, never through gorm
// association upserts, so a book can only ever link genres by id.
//
// # Interface Implementation
//
//	var _ catalog.BookStore = (*Repository)(nil)
//
// # Usage
//
//	repo := books.NewRepository(db)
//	book, err := repo.Get(ctx, id) // author and genres populated
package books

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/database/collection"
	"github.com/mrlokans/librarian/internal/entities"
)

// Repository handles all book database operations.
type Repository struct {
	db    *gorm.DB
	books *collection.Collection[entities.Book]
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, books: collection.New[entities.Book](db)}
}

// List returns title and author of every book, ordered by title.
func (r *Repository) List(ctx context.Context) ([]entities.Book, error) {
	return r.books.Find(ctx, collection.Query{
		Select:  []string{"id", "title", "author_id"},
		Order:   "title ASC",
		Preload: []string{"Author"},
	})
}

// Titles returns id and title of every book for selection lists.
func (r *Repository) Titles(ctx context.Context) ([]entities.Book, error) {
	return r.books.Find(ctx, collection.Query{
		Select: []string{"id", "title"},
		Order:  "title ASC",
	})
}

// Get retrieves a book with its author and genres populated.
func (r *Repository) Get(ctx context.Context, id string) (*entities.Book, error) {
	book, err := r.books.FindByID(ctx, id, "Author", "Genres")
	if err != nil {
		return nil, err
	}
	book.GenreIDs = make([]string, 0, len(book.Genres))
	for _, g := range book.Genres {
		book.GenreIDs = append(book.GenreIDs, g.ID)
	}
	return book, nil
}

// Create stores a new book and its genre links.
func (r *Repository) Create(ctx context.Context, book *entities.Book) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := collection.New[entities.Book](tx).Insert(ctx, book); err != nil {
			return err
		}
		return replaceGenreLinks(tx, book.ID, book.GenreIDs)
	})
}

// Replace overwrites the book with the given ID, including its genre set.
func (r *Repository) Replace(ctx context.Context, id string, book *entities.Book) (*entities.Book, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := collection.New[entities.Book](tx).ReplaceByID(ctx, id, book); err != nil {
			return err
		}
		return replaceGenreLinks(tx, id, book.GenreIDs)
	})
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

// Delete removes a book and its genre links.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := collection.New[entities.Book](tx).DeleteByID(ctx, id); err != nil {
			return err
		}
		return tx.Exec("DELETE FROM book_genres WHERE book_id = ?", id).Error
	})
}

// Count returns the number of books.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	return r.books.Count(ctx, nil)
}

// ListByAuthor returns the books written by the author, ordered by title.
func (r *Repository) ListByAuthor(ctx context.Context, authorID string) ([]entities.Book, error) {
	return r.books.Find(ctx, collection.Query{
		Where: map[string]any{"author_id": authorID},
		Order: "title ASC",
	})
}

// ListByGenre returns the books whose genre set contains the genre.
func (r *Repository) ListByGenre(ctx context.Context, genreID string) ([]entities.Book, error) {
	books := []entities.Book{}
	err := r.db.WithContext(ctx).
		Joins("JOIN book_genres ON book_genres.book_id = books.id").
		Where("book_genres.genre_id = ?", genreID).
		Order("books.title ASC").
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

// ListWithoutAuthor returns books whose author reference points at no
// stored author.
func (r *Repository) ListWithoutAuthor(ctx context.Context) ([]entities.Book, error) {
	books := []entities.Book{}
	err := r.db.WithContext(ctx).
		Joins("LEFT JOIN authors ON authors.id = books.author_id").
		Where("authors.id IS NULL").
		Order("books.title ASC").
		Find(&books).Error
	if err != nil {
		return nil, err
	}
	return books, nil
}

// CountDanglingGenreLinks counts book_genres rows whose genre is gone.
func (r *Repository) CountDanglingGenreLinks(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Table("book_genres").
		Joins("LEFT JOIN genres ON genres.id = book_genres.genre_id").
		Where("genres.id IS NULL").
		Count(&n).Error
	return n, err
}

func replaceGenreLinks(tx *gorm.DB, bookID string, genreIDs []string) error {
	if err := tx.Exec("DELETE FROM book_genres WHERE book_id = ?", bookID).Error; err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(genreIDs))
	for _, genreID := range genreIDs {
		if _, dup := seen[genreID]; dup || genreID == "" {
			continue
		}
		seen[genreID] = struct{}{}
		if err := tx.Exec("INSERT INTO book_genres (book_id, genre_id) VALUES (?, ?)", bookID, genreID).Error; err != nil {
			return err
		}
	}
	return nil
}
