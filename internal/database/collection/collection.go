// Package collection provides the uniform query/mutate contract shared by
// every entity repository.
//
// A Collection wraps a *gorm.DB scoped to one model type and offers
// find / find-by-id / count / insert / replace / delete. Repositories in the
// sibling packages build their domain queries on top of it.
//
// # Usage
//
//	genres := collection.New[entities.Genre](db)
//	list, err := genres.Find(ctx, collection.Query{Order: "name ASC"})
//	genre, err := genres.FindByID(ctx, id)
package collection

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrNotFound is returned when no record matches the requested id.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidID is returned when an identifier is not a well-formed UUID.
	ErrInvalidID = errors.New("malformed identifier")
)

// Query narrows a Find or Count.
type Query struct {
	Where   map[string]any
	Select  []string
	Order   string
	Preload []string
}

// Collection is the store contract for one model type.
type Collection[T any] struct {
	db *gorm.DB
}

// New creates a collection for T over db. db may be a transaction.
func New[T any](db *gorm.DB) *Collection[T] {
	return &Collection[T]{db: db}
}

// ValidateID checks the identifier format before it reaches the database.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return nil
}

func (c *Collection[T]) scoped(ctx context.Context, q Query) *gorm.DB {
	tx := c.db.WithContext(ctx).Model(new(T))
	if len(q.Select) > 0 {
		tx = tx.Select(q.Select)
	}
	if len(q.Where) > 0 {
		tx = tx.Where(q.Where)
	}
	if q.Order != "" {
		tx = tx.Order(q.Order)
	}
	for _, p := range q.Preload {
		tx = tx.Preload(p)
	}
	return tx
}

// Find returns every record matching q. An empty result is not an error.
func (c *Collection[T]) Find(ctx context.Context, q Query) ([]T, error) {
	out := []T{}
	if err := c.scoped(ctx, q).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FindByID returns the record with the given id, populating the named
// associations.
func (c *Collection[T]) FindByID(ctx context.Context, id string, preload ...string) (*T, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	var out T
	err := c.scoped(ctx, Query{Preload: preload}).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Count returns the number of records matching where.
func (c *Collection[T]) Count(ctx context.Context, where map[string]any) (int64, error) {
	var n int64
	err := c.scoped(ctx, Query{Where: where}).Count(&n).Error
	return n, err
}

// Insert stores a new record. The model's BeforeCreate hook assigns the id.
// Associations are never upserted through the parent.
func (c *Collection[T]) Insert(ctx context.Context, record *T) error {
	return c.db.WithContext(ctx).Omit(clause.Associations).Create(record).Error
}

// ReplaceByID overwrites every mutable column of the record with the given
// id and returns the stored result. The id and creation time are preserved.
func (c *Collection[T]) ReplaceByID(ctx context.Context, id string, record *T) (*T, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}
	result := c.db.WithContext(ctx).Model(new(T)).
		Where("id = ?", id).
		Select("*").
		Omit("id", "created_at", clause.Associations).
		Updates(record)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return c.FindByID(ctx, id)
}

// DeleteByID removes the record with the given id.
func (c *Collection[T]) DeleteByID(ctx context.Context, id string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	result := c.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
