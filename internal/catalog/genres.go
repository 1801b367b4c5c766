package catalog

import (
	"context"
	"errors"

	"github.com/mrlokans/librarian/internal/aggregate"
	"github.com/mrlokans/librarian/internal/database/collection"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/validation"
)

func (s *Service) ListGenres(ctx context.Context) Result {
	genres, err := s.stores.Genres.List(ctx)
	if err != nil {
		return fail(&StoreError{Op: "list genres", Err: err})
	}
	return Render{View: "genre_list", Data: ViewData{"title": "Genre List", "genre_list": genres}}
}

// GenreDetail renders a genre with the books listing it.
func (s *Service) GenreDetail(ctx context.Context, id string) Result {
	res, err := aggregate.JoinAll(ctx, aggregate.Tasks{
		"genre": lookup(entities.KindGenre, id, s.stores.Genres.Get),
		"genre_books": storeTask("list books of genre", func(ctx context.Context) ([]entities.Book, error) {
			return s.stores.Books.ListByGenre(ctx, id)
		}),
	})
	if err != nil {
		return fail(err)
	}

	return Render{View: "genre_detail", Data: ViewData{
		"title":       "Genre Detail",
		"genre":       aggregate.Get[*entities.Genre](res, "genre"),
		"genre_books": aggregate.Get[[]entities.Book](res, "genre_books"),
	}}
}

func (s *Service) GenreCreateForm(ctx context.Context) Result {
	return genreFormView("Create Genre", &entities.Genre{}, nil)
}

// CreateGenre stores a new genre. When a genre with the same name already
// exists, it redirects there instead of creating a duplicate.
func (s *Service) CreateGenre(ctx context.Context, in validation.Input) Result {
	clean, errs := genreRules.Run(in)
	draft := genreDraft(clean)

	if len(errs) > 0 {
		return genreFormView("Create Genre", draft, errs)
	}

	existing, err := s.stores.Genres.FindByName(ctx, draft.Name)
	switch {
	case err == nil:
		return Redirect{Path: existing.URL()}
	case !errors.Is(err, collection.ErrNotFound):
		return fail(&StoreError{Op: "find genre by name", Err: err})
	}

	if err := s.stores.Genres.Create(ctx, draft); err != nil {
		return fail(&StoreError{Op: "create genre", Err: err})
	}
	s.logWrite(entities.KindGenre, "create", draft.ID)
	return Redirect{Path: draft.URL()}
}

func (s *Service) GenreUpdateForm(ctx context.Context, id string) Result {
	genre, err := s.stores.Genres.Get(ctx, id)
	if err != nil {
		return fail(classify(entities.KindGenre, id, "get genre", err))
	}
	return genreFormView("Update Genre", genre, nil)
}

// UpdateGenre replaces the genre with id. Renames are not checked for
// duplicates.
func (s *Service) UpdateGenre(ctx context.Context, id string, in validation.Input) Result {
	clean, errs := genreRules.Run(in)
	draft := genreDraft(clean)
	draft.ID = id

	if len(errs) > 0 {
		return genreFormView("Update Genre", draft, errs)
	}

	genre, err := s.stores.Genres.Replace(ctx, id, draft)
	if err != nil {
		return fail(classify(entities.KindGenre, id, "replace genre", err))
	}
	s.logWrite(entities.KindGenre, "update", id)
	return Redirect{Path: genre.URL()}
}

func (s *Service) GenreDeleteForm(ctx context.Context, id string) Result {
	return s.deleteForm(ctx, entities.KindGenre, id, "Delete Genre",
		lookup(entities.KindGenre, id, s.stores.Genres.Get))
}

// DeleteGenre deletes the genre unless a book lists it.
func (s *Service) DeleteGenre(ctx context.Context, id string) Result {
	return s.remove(ctx, entities.KindGenre, id, "Delete Genre",
		lookup(entities.KindGenre, id, s.stores.Genres.Get), s.stores.Genres.Delete)
}
