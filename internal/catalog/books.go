package catalog

import (
	"context"

	"github.com/mrlokans/librarian/internal/aggregate"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/validation"
)

// ListBooks renders every book with its author, ordered by title.
func (s *Service) ListBooks(ctx context.Context) Result {
	books, err := s.stores.Books.List(ctx)
	if err != nil {
		return fail(&StoreError{Op: "list books", Err: err})
	}
	return Render{View: "book_list", Data: ViewData{"title": "Book List", "book_list": books}}
}

// BookDetail renders a book with its copies.
func (s *Service) BookDetail(ctx context.Context, id string) Result {
	res, err := aggregate.JoinAll(ctx, aggregate.Tasks{
		"book": lookup(entities.KindBook, id, s.stores.Books.Get),
		"book_instances": storeTask("list instances of book", func(ctx context.Context) ([]entities.BookInstance, error) {
			return s.stores.Instances.ListByBook(ctx, id)
		}),
	})
	if err != nil {
		return fail(err)
	}

	book := aggregate.Get[*entities.Book](res, "book")
	return Render{View: "book_detail", Data: ViewData{
		"title":          book.Title,
		"book":           book,
		"book_instances": aggregate.Get[[]entities.BookInstance](res, "book_instances"),
	}}
}

// BookCreateForm renders an empty book form with every author and genre.
func (s *Service) BookCreateForm(ctx context.Context) Result {
	refs, err := s.loadBookForm(ctx, nil)
	if err != nil {
		return fail(err)
	}
	return bookFormView("Create Book", &entities.Book{}, refs, nil)
}

// CreateBook validates the submission and stores a new book.
func (s *Service) CreateBook(ctx context.Context, in validation.Input) Result {
	clean, errs := bookRules.Run(in)
	draft := bookDraft(clean)

	if len(errs) > 0 {
		refs, err := s.loadBookForm(ctx, nil)
		if err != nil {
			return fail(err)
		}
		return bookFormView("Create Book", draft, refs, errs)
	}

	if err := s.stores.Books.Create(ctx, draft); err != nil {
		return fail(&StoreError{Op: "create book", Err: err})
	}
	s.logWrite(entities.KindBook, "create", draft.ID)
	return Redirect{Path: draft.URL()}
}

// BookUpdateForm renders the form for a stored book with its genres checked.
func (s *Service) BookUpdateForm(ctx context.Context, id string) Result {
	refs, err := s.loadBookForm(ctx, aggregate.Tasks{
		"book": lookup(entities.KindBook, id, s.stores.Books.Get),
	})
	if err != nil {
		return fail(err)
	}
	return bookFormView("Update Book", aggregate.Get[*entities.Book](refs, "book"), refs, nil)
}

// UpdateBook validates the submission and replaces the book with id.
// A submission with errors is redisplayed and never written.
func (s *Service) UpdateBook(ctx context.Context, id string, in validation.Input) Result {
	clean, errs := bookRules.Run(in)
	draft := bookDraft(clean)
	draft.ID = id

	if len(errs) > 0 {
		refs, err := s.loadBookForm(ctx, nil)
		if err != nil {
			return fail(err)
		}
		return bookFormView("Update Book", draft, refs, errs)
	}

	book, err := s.stores.Books.Replace(ctx, id, draft)
	if err != nil {
		return fail(classify(entities.KindBook, id, "replace book", err))
	}
	s.logWrite(entities.KindBook, "update", id)
	return Redirect{Path: book.URL()}
}

// BookDeleteForm renders the delete confirmation with the book's copies.
func (s *Service) BookDeleteForm(ctx context.Context, id string) Result {
	return s.deleteForm(ctx, entities.KindBook, id, "Delete Book",
		lookup(entities.KindBook, id, s.stores.Books.Get))
}

// DeleteBook deletes the book unless copies of it exist.
func (s *Service) DeleteBook(ctx context.Context, id string) Result {
	return s.remove(ctx, entities.KindBook, id, "Delete Book",
		lookup(entities.KindBook, id, s.stores.Books.Get), s.stores.Books.Delete)
}
