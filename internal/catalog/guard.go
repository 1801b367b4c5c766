package catalog

import (
	"context"

	"github.com/mrlokans/librarian/internal/entities"
)

// Dependent is a stored record that references the entity being deleted.
type Dependent struct {
	Kind  entities.Kind `json:"kind"`
	ID    string        `json:"id"`
	Label string        `json:"label"`
	Path  string        `json:"path"`
}

// Verdict is the guard's answer for one delete request.
type Verdict struct {
	Allowed  bool
	Blocking []Dependent
}

// Guard decides whether an entity may be deleted without leaving dangling
// references behind.
//
//	book     -> blocked by instances of the book
//	genre    -> blocked by books listing the genre
//	author   -> blocked by books written by the author
//	instance -> never blocked
//
// The check and the delete are separate store calls and are not atomic.
type Guard struct {
	books     BookStore
	instances InstanceStore
}

func NewGuard(books BookStore, instances InstanceStore) *Guard {
	return &Guard{books: books, instances: instances}
}

// CanDelete queries the dependents of kind/id.
func (g *Guard) CanDelete(ctx context.Context, kind entities.Kind, id string) (Verdict, error) {
	deps, err := g.Dependents(ctx, kind, id)
	if err != nil {
		return Verdict{}, err
	}
	return Verdict{Allowed: len(deps) == 0, Blocking: deps}, nil
}

// Dependents lists the records referencing kind/id.
func (g *Guard) Dependents(ctx context.Context, kind entities.Kind, id string) ([]Dependent, error) {
	switch kind {
	case entities.KindBook:
		copies, err := g.instances.ListByBook(ctx, id)
		if err != nil {
			return nil, &StoreError{Op: "list instances of book", Err: err}
		}
		return instanceDependents(copies), nil
	case entities.KindGenre:
		books, err := g.books.ListByGenre(ctx, id)
		if err != nil {
			return nil, &StoreError{Op: "list books of genre", Err: err}
		}
		return bookDependents(books), nil
	case entities.KindAuthor:
		books, err := g.books.ListByAuthor(ctx, id)
		if err != nil {
			return nil, &StoreError{Op: "list books of author", Err: err}
		}
		return bookDependents(books), nil
	default:
		return []Dependent{}, nil
	}
}

func bookDependents(books []entities.Book) []Dependent {
	out := make([]Dependent, 0, len(books))
	for _, b := range books {
		out = append(out, Dependent{Kind: entities.KindBook, ID: b.ID, Label: b.Title, Path: b.URL()})
	}
	return out
}

func instanceDependents(copies []entities.BookInstance) []Dependent {
	out := make([]Dependent, 0, len(copies))
	for _, c := range copies {
		out = append(out, Dependent{
			Kind:  entities.KindBookInstance,
			ID:    c.ID,
			Label: c.Imprint + " (" + string(c.Status) + ")",
			Path:  c.URL(),
		})
	}
	return out
}
