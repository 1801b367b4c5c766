// Package authors provides database operations for the author collection.
//
// # Interface Implementation
//
//	var _ catalog.AuthorStore = (*Repository)(nil)
//
// # Usage
//
//	repo := authors.NewRepository(db)
//	author, err := repo.Get(ctx, id)
package authors

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/database/collection"
	"github.com/mrlokans/librarian/internal/entities"
)

// Repository handles all author database operations.
type Repository struct {
	authors *collection.Collection[entities.Author]
}

// NewRepository creates a new authors repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{authors: collection.New[entities.Author](db)}
}

// List returns every author ordered by family name.
func (r *Repository) List(ctx context.Context) ([]entities.Author, error) {
	return r.authors.Find(ctx, collection.Query{Order: "family_name ASC, first_name ASC"})
}

// Get retrieves an author by ID.
func (r *Repository) Get(ctx context.Context, id string) (*entities.Author, error) {
	return r.authors.FindByID(ctx, id)
}

// Create stores a new author and assigns its ID.
func (r *Repository) Create(ctx context.Context, author *entities.Author) error {
	return r.authors.Insert(ctx, author)
}

// Replace overwrites the author with the given ID.
func (r *Repository) Replace(ctx context.Context, id string, author *entities.Author) (*entities.Author, error) {
	return r.authors.ReplaceByID(ctx, id, author)
}

// Delete removes an author.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.authors.DeleteByID(ctx, id)
}

// Count returns the number of authors.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	return r.authors.Count(ctx, nil)
}
