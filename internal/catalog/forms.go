package catalog

import (
	"context"

	"github.com/mrlokans/librarian/internal/aggregate"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/validation"
)

// GenreOption is a genre checkbox on the book form.
type GenreOption struct {
	entities.Genre
	Checked bool `json:"checked"`
}

// loadBookForm fetches the author and genre lists of the book form, together
// with any extra tasks the caller needs. Both the initial display and the
// redisplay after a failed submission go through here.
func (s *Service) loadBookForm(ctx context.Context, extra aggregate.Tasks) (aggregate.Results, error) {
	tasks := aggregate.Tasks{
		"authors": storeTask("list authors", s.stores.Authors.List),
		"genres":  storeTask("list genres", s.stores.Genres.List),
	}
	for label, task := range extra {
		tasks[label] = task
	}
	return aggregate.JoinAll(ctx, tasks)
}

func bookFormView(title string, book *entities.Book, refs aggregate.Results, errs []validation.FieldError) Render {
	genres := aggregate.Get[[]entities.Genre](refs, "genres")
	options := make([]GenreOption, 0, len(genres))
	for _, g := range genres {
		options = append(options, GenreOption{Genre: g, Checked: book.HasGenre(g.ID)})
	}
	return Render{View: "book_form", Data: ViewData{
		"title":   title,
		"book":    book,
		"authors": aggregate.Get[[]entities.Author](refs, "authors"),
		"genres":  options,
		"errors":  errs,
	}}
}

// loadInstanceForm fetches the book list of the instance form plus extra.
func (s *Service) loadInstanceForm(ctx context.Context, extra aggregate.Tasks) (aggregate.Results, error) {
	tasks := aggregate.Tasks{
		"books": storeTask("list book titles", s.stores.Books.Titles),
	}
	for label, task := range extra {
		tasks[label] = task
	}
	return aggregate.JoinAll(ctx, tasks)
}

func instanceFormView(title string, instance *entities.BookInstance, refs aggregate.Results, errs []validation.FieldError) Render {
	return Render{View: "bookinstance_form", Data: ViewData{
		"title":           title,
		"bookinstance":    instance,
		"books":           aggregate.Get[[]entities.Book](refs, "books"),
		"statuses":        entities.InstanceStatuses(),
		"selected_book":   instance.BookID,
		"selected_status": instance.Status,
		"errors":          errs,
	}}
}

func authorFormView(title string, author *entities.Author, errs []validation.FieldError) Render {
	return Render{View: "author_form", Data: ViewData{
		"title":  title,
		"author": author,
		"errors": errs,
	}}
}

func genreFormView(title string, genre *entities.Genre, errs []validation.FieldError) Render {
	return Render{View: "genre_form", Data: ViewData{
		"title":  title,
		"genre":  genre,
		"errors": errs,
	}}
}
