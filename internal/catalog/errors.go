package catalog

import (
	"errors"
	"fmt"

	"github.com/mrlokans/librarian/internal/database/collection"
	"github.com/mrlokans/librarian/internal/entities"
)

// ErrNotFound matches every NotFoundError through errors.Is.
var ErrNotFound = errors.New("entity not found")

// NotFoundError reports that the target of a detail, update or delete does
// not exist.
type NotFoundError struct {
	Kind entities.Kind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// StoreError wraps any other failure of the entity store, including an id
// the store rejects as malformed. It is never retried.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// classify maps a store error for the entity kind/id to the catalog taxonomy.
func classify(kind entities.Kind, id, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, collection.ErrNotFound) {
		return &NotFoundError{Kind: kind, ID: id}
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

// IsInvalidID reports whether err was caused by a malformed identifier.
func IsInvalidID(err error) bool {
	return errors.Is(err, collection.ErrInvalidID)
}

// isNotFound reports whether err is (or wraps) a NotFoundError.
func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
