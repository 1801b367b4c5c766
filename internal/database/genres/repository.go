// Package genres provides database operations for the genre collection.
//
// # Interface Implementation
//
//	var _ catalog.GenreStore = (*Repository)(nil)
package genres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/database/collection"
	"github.com/mrlokans/librarian/internal/entities"
)

// Repository handles all genre database operations.
type Repository struct {
	db     *gorm.DB
	genres *collection.Collection[entities.Genre]
}

// NewRepository creates a new genres repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, genres: collection.New[entities.Genre](db)}
}

// List returns every genre ordered by name.
func (r *Repository) List(ctx context.Context) ([]entities.Genre, error) {
	return r.genres.Find(ctx, collection.Query{Order: "name ASC"})
}

// Get retrieves a genre by ID.
func (r *Repository) Get(ctx context.Context, id string) (*entities.Genre, error) {
	return r.genres.FindByID(ctx, id)
}

// FindByName returns the genre with exactly this name.
// Names are not unique in storage; the oldest match wins.
func (r *Repository) FindByName(ctx context.Context, name string) (*entities.Genre, error) {
	var genre entities.Genre
	err := r.db.WithContext(ctx).Where("name = ?", name).Order("created_at ASC").First(&genre).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, collection.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &genre, nil
}

// Create stores a new genre and assigns its ID.
func (r *Repository) Create(ctx context.Context, genre *entities.Genre) error {
	return r.genres.Insert(ctx, genre)
}

// Replace overwrites the genre with the given ID.
func (r *Repository) Replace(ctx context.Context, id string, genre *entities.Genre) (*entities.Genre, error) {
	return r.genres.ReplaceByID(ctx, id, genre)
}

// Delete removes a genre.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.genres.DeleteByID(ctx, id)
}

// Count returns the number of genres.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	return r.genres.Count(ctx, nil)
}
