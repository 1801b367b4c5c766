// Package instances provides database operations for physical book copies.
//
// # Interface Implementation
//
//	var _ catalog.InstanceStore = (*Repository)(nil)
package instances

import (
	"context"

	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/database/collection"
	"github.com/mrlokans/librarian/internal/entities"
)

// Repository handles all book instance database operations.
type Repository struct {
	db        *gorm.DB
	instances *collection.Collection[entities.BookInstance]
}

// NewRepository creates a new instances repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db, instances: collection.New[entities.BookInstance](db)}
}

// List returns every copy with its book populated.
func (r *Repository) List(ctx context.Context) ([]entities.BookInstance, error) {
	return r.instances.Find(ctx, collection.Query{
		Order:   "created_at ASC",
		Preload: []string{"Book"},
	})
}

// Get retrieves a copy with its book populated.
func (r *Repository) Get(ctx context.Context, id string) (*entities.BookInstance, error) {
	return r.instances.FindByID(ctx, id, "Book")
}

// Create stores a new copy and assigns its ID.
func (r *Repository) Create(ctx context.Context, instance *entities.BookInstance) error {
	return r.instances.Insert(ctx, instance)
}

// Replace overwrites the copy with the given ID.
func (r *Repository) Replace(ctx context.Context, id string, instance *entities.BookInstance) (*entities.BookInstance, error) {
	return r.instances.ReplaceByID(ctx, id, instance)
}

// Delete removes a copy.
func (r *Repository) Delete(ctx context.Context, id string) error {
	return r.instances.DeleteByID(ctx, id)
}

// Count returns the number of copies.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	return r.instances.Count(ctx, nil)
}

// CountByStatus returns the number of copies in the given status.
func (r *Repository) CountByStatus(ctx context.Context, status entities.InstanceStatus) (int64, error) {
	return r.instances.Count(ctx, map[string]any{"status": status})
}

// ListByBook returns the copies of a book.
func (r *Repository) ListByBook(ctx context.Context, bookID string) ([]entities.BookInstance, error) {
	return r.instances.Find(ctx, collection.Query{
		Where: map[string]any{"book_id": bookID},
		Order: "created_at ASC",
	})
}

// ListOrphaned returns copies whose book reference points at no stored book.
func (r *Repository) ListOrphaned(ctx context.Context) ([]entities.BookInstance, error) {
	orphans := []entities.BookInstance{}
	err := r.db.WithContext(ctx).
		Joins("LEFT JOIN books ON books.id = book_instances.book_id").
		Where("books.id IS NULL").
		Order("book_instances.created_at ASC").
		Find(&orphans).Error
	if err != nil {
		return nil, err
	}
	return orphans, nil
}
