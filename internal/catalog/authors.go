package catalog

import (
	"context"

	"github.com/mrlokans/librarian/internal/aggregate"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/validation"
)

// ListAuthors renders every author ordered by family name.
func (s *Service) ListAuthors(ctx context.Context) Result {
	authors, err := s.stores.Authors.List(ctx)
	if err != nil {
		return fail(&StoreError{Op: "list authors", Err: err})
	}
	return Render{View: "author_list", Data: ViewData{"title": "Author List", "author_list": authors}}
}

// AuthorDetail renders an author with their books.
func (s *Service) AuthorDetail(ctx context.Context, id string) Result {
	res, err := aggregate.JoinAll(ctx, aggregate.Tasks{
		"author": lookup(entities.KindAuthor, id, s.stores.Authors.Get),
		"author_books": storeTask("list books of author", func(ctx context.Context) ([]entities.Book, error) {
			return s.stores.Books.ListByAuthor(ctx, id)
		}),
	})
	if err != nil {
		return fail(err)
	}

	return Render{View: "author_detail", Data: ViewData{
		"title":        "Author Detail",
		"author":       aggregate.Get[*entities.Author](res, "author"),
		"author_books": aggregate.Get[[]entities.Book](res, "author_books"),
	}}
}

func (s *Service) AuthorCreateForm(ctx context.Context) Result {
	return authorFormView("Create Author", &entities.Author{}, nil)
}

func (s *Service) CreateAuthor(ctx context.Context, in validation.Input) Result {
	clean, errs := authorRules.Run(in)
	draft := authorDraft(clean)

	if len(errs) > 0 {
		return authorFormView("Create Author", draft, errs)
	}

	if err := s.stores.Authors.Create(ctx, draft); err != nil {
		return fail(&StoreError{Op: "create author", Err: err})
	}
	s.logWrite(entities.KindAuthor, "create", draft.ID)
	return Redirect{Path: draft.URL()}
}

func (s *Service) AuthorUpdateForm(ctx context.Context, id string) Result {
	author, err := s.stores.Authors.Get(ctx, id)
	if err != nil {
		return fail(classify(entities.KindAuthor, id, "get author", err))
	}
	return authorFormView("Update Author", author, nil)
}

func (s *Service) UpdateAuthor(ctx context.Context, id string, in validation.Input) Result {
	clean, errs := authorRules.Run(in)
	draft := authorDraft(clean)
	draft.ID = id

	if len(errs) > 0 {
		return authorFormView("Update Author", draft, errs)
	}

	author, err := s.stores.Authors.Replace(ctx, id, draft)
	if err != nil {
		return fail(classify(entities.KindAuthor, id, "replace author", err))
	}
	s.logWrite(entities.KindAuthor, "update", id)
	return Redirect{Path: author.URL()}
}

func (s *Service) AuthorDeleteForm(ctx context.Context, id string) Result {
	return s.deleteForm(ctx, entities.KindAuthor, id, "Delete Author",
		lookup(entities.KindAuthor, id, s.stores.Authors.Get))
}

// DeleteAuthor deletes the author unless books reference them.
func (s *Service) DeleteAuthor(ctx context.Context, id string) Result {
	return s.remove(ctx, entities.KindAuthor, id, "Delete Author",
		lookup(entities.KindAuthor, id, s.stores.Authors.Get), s.stores.Authors.Delete)
}
