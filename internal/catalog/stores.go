package catalog

import (
	"context"

	"github.com/mrlokans/librarian/internal/entities"
)

// Store interfaces consumed by the workflows. Each is implemented by the
// matching repository in internal/database.

// AuthorStore provides author persistence.
type AuthorStore interface {
	List(ctx context.Context) ([]entities.Author, error)
	Get(ctx context.Context, id string) (*entities.Author, error)
	Create(ctx context.Context, author *entities.Author) error
	Replace(ctx context.Context, id string, author *entities.Author) (*entities.Author, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// GenreStore provides genre persistence and the duplicate-name lookup.
type GenreStore interface {
	List(ctx context.Context) ([]entities.Genre, error)
	Get(ctx context.Context, id string) (*entities.Genre, error)
	FindByName(ctx context.Context, name string) (*entities.Genre, error)
	Create(ctx context.Context, genre *entities.Genre) error
	Replace(ctx context.Context, id string, genre *entities.Genre) (*entities.Genre, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

// BookStore provides book persistence. Get populates author and genres.
type BookStore interface {
	List(ctx context.Context) ([]entities.Book, error)
	Titles(ctx context.Context) ([]entities.Book, error)
	Get(ctx context.Context, id string) (*entities.Book, error)
	Create(ctx context.Context, book *entities.Book) error
	Replace(ctx context.Context, id string, book *entities.Book) (*entities.Book, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	ListByAuthor(ctx context.Context, authorID string) ([]entities.Book, error)
	ListByGenre(ctx context.Context, genreID string) ([]entities.Book, error)
}

// InstanceStore provides book instance persistence. Get populates the book.
type InstanceStore interface {
	List(ctx context.Context) ([]entities.BookInstance, error)
	Get(ctx context.Context, id string) (*entities.BookInstance, error)
	Create(ctx context.Context, instance *entities.BookInstance) error
	Replace(ctx context.Context, id string, instance *entities.BookInstance) (*entities.BookInstance, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status entities.InstanceStatus) (int64, error)
	ListByBook(ctx context.Context, bookID string) ([]entities.BookInstance, error)
}

// Stores groups the four collections the workflows read and write.
type Stores struct {
	Authors   AuthorStore
	Genres    GenreStore
	Books     BookStore
	Instances InstanceStore
}
