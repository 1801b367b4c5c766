package catalog

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"

	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/validation"
)

func TestCreateGenre(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	t.Run("new genre", func(t *testing.T) {
		redirect := requireRedirect(t, svc.CreateGenre(ctx, validation.Input{"name": {" Fantasy "}}))

		genre, err := db.Genres.FindByName(ctx, "Fantasy")
		require.NoError(t, err)
		assert.Equal(t, genre.URL(), redirect.Path)
	})

	t.Run("duplicate redirects to existing", func(t *testing.T) {
		existing, err := db.Genres.FindByName(ctx, "Fantasy")
		require.NoError(t, err)

		redirect := requireRedirect(t, svc.CreateGenre(ctx, validation.Input{"name": {"Fantasy"}}))

		assert.Equal(t, "/catalog/genre/"+existing.ID, redirect.Path)
		n, err := db.Genres.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})

	t.Run("too short", func(t *testing.T) {
		render := requireRender(t, svc.CreateGenre(ctx, validation.Input{"name": {"ab"}}))

		assert.Equal(t, "genre_form", render.View)
		assert.Equal(t, []validation.FieldError{
			{Field: "name", Message: "Genre name must be at least 3 characters"},
		}, render.Data["errors"])
		assert.Equal(t, "ab", render.Data["genre"].(*entities.Genre).Name)
	})
}

func TestGenreDetailAndDelete(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	genre := createGenre(t, db, "Fantasy")
	book := createBook(t, db, "Earthsea", "A1", genre.ID)

	render := requireRender(t, svc.GenreDetail(ctx, genre.ID))
	assert.Equal(t, "genre_detail", render.View)
	books := render.Data["genre_books"].([]entities.Book)
	require.Len(t, books, 1)
	assert.Equal(t, book.ID, books[0].ID)

	blocked := requireRender(t, svc.DeleteGenre(ctx, genre.ID))
	assert.Equal(t, "genre_delete", blocked.View)
	assert.Len(t, blocked.Data["blocking"], 1)

	_, err := db.Genres.Get(ctx, genre.ID)
	require.NoError(t, err)
}

func TestUpdateGenre(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	genre := createGenre(t, db, "Fantasy")

	render := requireRender(t, svc.GenreUpdateForm(ctx, genre.ID))
	assert.Equal(t, "Update Genre", render.Data["title"])

	redirect := requireRedirect(t, svc.UpdateGenre(ctx, genre.ID, validation.Input{"name": {"High Fantasy"}}))
	assert.Equal(t, genre.URL(), redirect.Path)

	stored, err := db.Genres.Get(ctx, genre.ID)
	require.NoError(t, err)
	assert.Equal(t, "High Fantasy", stored.Name)
}

func TestAuthorWorkflows(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	t.Run("validation messages", func(t *testing.T) {
		long := make([]byte, 101)
		for i := range long {
			long[i] = 'x'
		}
		render := requireRender(t, svc.CreateAuthor(ctx, validation.Input{
			"first_name":    {string(long)},
			"date_of_birth": {"1920-13-01"},
		}))

		assert.Equal(t, []validation.FieldError{
			{Field: "first_name", Message: "First name must not exceed 100 characters."},
			{Field: "family_name", Message: "Family name must be specified."},
			{Field: "date_of_birth", Message: "Invalid date of birth"},
		}, render.Data["errors"])
	})

	var authorID string
	t.Run("create", func(t *testing.T) {
		redirect := requireRedirect(t, svc.CreateAuthor(ctx, validation.Input{
			"first_name":    {"Frank"},
			"family_name":   {"Herbert"},
			"date_of_birth": {"1920-10-08"},
			"date_of_death": {""},
		}))

		authors, err := db.Authors.List(ctx)
		require.NoError(t, err)
		require.Len(t, authors, 1)
		authorID = authors[0].ID
		assert.Equal(t, authors[0].URL(), redirect.Path)
		assert.Equal(t, "Oct 8, 1920 (alive)", authors[0].Lifespan())
	})

	t.Run("update", func(t *testing.T) {
		requireRedirect(t, svc.UpdateAuthor(ctx, authorID, validation.Input{
			"first_name":    {"Frank"},
			"family_name":   {"Herbert"},
			"date_of_birth": {"1920-10-08"},
			"date_of_death": {"1986-02-11"},
		}))

		author, err := db.Authors.Get(ctx, authorID)
		require.NoError(t, err)
		assert.Equal(t, "1986-02-11", author.DateOfDeathISO())
	})

	t.Run("delete blocked by books", func(t *testing.T) {
		book := createBook(t, db, "Dune", authorID)

		render := requireRender(t, svc.DeleteAuthor(ctx, authorID))
		blocking := render.Data["blocking"].([]Dependent)
		require.Len(t, blocking, 1)
		assert.Equal(t, book.ID, blocking[0].ID)

		detail := requireRender(t, svc.AuthorDetail(ctx, authorID))
		assert.Len(t, detail.Data["author_books"], 1)

		requireRedirect(t, svc.DeleteBook(ctx, book.ID))
		assert.Equal(t, Redirect{Path: "/catalog/authors"}, svc.DeleteAuthor(ctx, authorID))
	})
}

func TestInstanceWorkflows(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	book := createBook(t, db, "Dune", "A1")

	t.Run("form lists books and statuses", func(t *testing.T) {
		render := requireRender(t, svc.InstanceCreateForm(ctx))
		assert.Equal(t, "bookinstance_form", render.View)
		assert.Len(t, render.Data["books"], 1)
		assert.Equal(t, entities.InstanceStatuses(), render.Data["statuses"])
	})

	t.Run("invalid status keeps selection", func(t *testing.T) {
		render := requireRender(t, svc.CreateInstance(ctx, validation.Input{
			"book":     {book.ID},
			"imprint":  {"Ace, 1990"},
			"status":   {"Lost"},
			"due_back": {"tomorrow"},
		}))

		assert.Equal(t, []validation.FieldError{
			{Field: "status", Message: "Status must be one of Available, Maintenance, Loaned, Reserved"},
			{Field: "due_back", Message: "Invalid date"},
		}, render.Data["errors"])
		assert.Equal(t, book.ID, render.Data["selected_book"])
	})

	var instanceID string
	t.Run("create defaults status", func(t *testing.T) {
		redirect := requireRedirect(t, svc.CreateInstance(ctx, validation.Input{
			"book":    {book.ID},
			"imprint": {"Ace, 1990"},
		}))

		copies, err := db.Instances.ListByBook(ctx, book.ID)
		require.NoError(t, err)
		require.Len(t, copies, 1)
		instanceID = copies[0].ID
		assert.Equal(t, copies[0].URL(), redirect.Path)
		assert.Equal(t, entities.StatusMaintenance, copies[0].Status)
	})

	t.Run("detail", func(t *testing.T) {
		render := requireRender(t, svc.InstanceDetail(ctx, instanceID))
		assert.Equal(t, "Copy: Dune", render.Data["title"])
	})

	t.Run("update", func(t *testing.T) {
		requireRedirect(t, svc.UpdateInstance(ctx, instanceID, validation.Input{
			"book":     {book.ID},
			"imprint":  {"Ace, 1990"},
			"status":   {"Loaned"},
			"due_back": {"2030-01-15"},
		}))

		render := requireRender(t, svc.InstanceUpdateForm(ctx, instanceID))
		assert.Equal(t, entities.StatusLoaned, render.Data["selected_status"])
		stored := render.Data["bookinstance"].(*entities.BookInstance)
		assert.Equal(t, "Jan 15, 2030", stored.DueBackFormatted())
	})

	t.Run("delete always allowed", func(t *testing.T) {
		requireRedirect(t, svc.DeleteInstance(ctx, instanceID))
		_, err := db.Instances.Get(ctx, instanceID)
		assert.Error(t, err)
	})
}

func TestListViews(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()
	createGenre(t, db, "Poetry")
	createGenre(t, db, "Fantasy")

	genres := requireRender(t, svc.ListGenres(ctx))
	list := genres.Data["genre_list"].([]entities.Genre)
	require.Len(t, list, 2)
	assert.Equal(t, "Fantasy", list[0].Name)

	for _, r := range []Result{svc.ListAuthors(ctx), svc.ListBooks(ctx), svc.ListInstances(ctx)} {
		render := requireRender(t, r)
		assert.NotEmpty(t, render.Data["title"])
	}
}

// failingBooks fails every call it does not override.
type failingBooks struct {
	BookStore
	err error
}

func (f failingBooks) Count(context.Context) (int64, error) { return 0, f.err }
func (f failingBooks) List(context.Context) ([]entities.Book, error) { return nil, f.err }
func (f failingBooks) Create(context.Context, *entities.Book) error { return f.err }
func (f failingBooks) Titles(context.Context) ([]entities.Book, error) { return nil, f.err }
func (f failingBooks) Get(context.Context, string) (*entities.Book, error) { return nil, f.err }

func TestStoreFailures(t *testing.T) {
	_, db := setupTestService(t)
	boom := errors.New("disk I/O error")
	svc := NewService(Stores{
		Authors:   db.Authors,
		Genres:    db.Genres,
		Books:     failingBooks{err: boom},
		Instances: db.Instances,
	}, nil)
	ctx := context.Background()

	cases := map[string]Result{
		"index":       svc.Index(ctx),
		"list":        svc.ListBooks(ctx),
		"create":      svc.CreateBook(ctx, bookInput("T", "A", "S", "1")),
		"form":        svc.InstanceCreateForm(ctx),
		"delete form": svc.BookDeleteForm(ctx, "1c9a3d42-5b7e-4f0a-9d59-3f8f2c1e0b11"),
	}
	for name, r := range cases {
		t.Run(name, func(t *testing.T) {
			failure := requireFailure(t, r)
			assert.ErrorIs(t, failure, boom)
			var storeErr *StoreError
			assert.ErrorAs(t, failure, &storeErr)
			assert.NotErrorIs(t, failure, ErrNotFound)
		})
	}
}

func columnSize(t *testing.T, model any, field string) int {
	t.Helper()
	s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
	require.NoError(t, err)
	f := s.LookUpField(field)
	require.NotNil(t, f, field)
	return f.Size
}

func TestCreate_EscapedNamesFitColumns(t *testing.T) {
	svc, db := setupTestService(t)
	ctx := context.Background()

	t.Run("author", func(t *testing.T) {
		first := "O'" + strings.Repeat("a", 98)
		family := strings.Repeat("'", 100)
		requireRedirect(t, svc.CreateAuthor(ctx, validation.Input{
			"first_name":  {first},
			"family_name": {family},
		}))

		authors, err := db.Authors.List(ctx)
		require.NoError(t, err)
		require.Len(t, authors, 1)
		assert.Equal(t, "O&#x27;"+strings.Repeat("a", 98), authors[0].FirstName)
		assert.Len(t, authors[0].FamilyName, 600)
		assert.LessOrEqual(t, len(authors[0].FirstName), columnSize(t, &entities.Author{}, "FirstName"))
		assert.LessOrEqual(t, len(authors[0].FamilyName), columnSize(t, &entities.Author{}, "FamilyName"))
	})

	t.Run("genre", func(t *testing.T) {
		name := "Sci/Fi " + strings.Repeat("b", 93)
		redirect := requireRedirect(t, svc.CreateGenre(ctx, validation.Input{"name": {name}}))

		genre, err := db.Genres.FindByName(ctx, "Sci&#x2F;Fi "+strings.Repeat("b", 93))
		require.NoError(t, err)
		assert.Equal(t, genre.URL(), redirect.Path)

		worst := strings.Repeat(`"`, 100)
		requireRedirect(t, svc.CreateGenre(ctx, validation.Input{"name": {worst}}))
		stored, err := db.Genres.FindByName(ctx, strings.Repeat("&quot;", 100))
		require.NoError(t, err)
		assert.LessOrEqual(t, len(stored.Name), columnSize(t, &entities.Genre{}, "Name"))
	})

	t.Run("unbounded fields have no column limit", func(t *testing.T) {
		assert.Zero(t, columnSize(t, &entities.Book{}, "Title"))
		assert.Zero(t, columnSize(t, &entities.Book{}, "ISBN"))
		assert.Zero(t, columnSize(t, &entities.BookInstance{}, "Imprint"))
	})
}

// Stores that read through to sqlite but fail every write.
type failingBookWrites struct {
	BookStore
	err error
}

func (f failingBookWrites) Replace(context.Context, string, *entities.Book) (*entities.Book, error) {
	return nil, f.err
}
func (f failingBookWrites) Delete(context.Context, string) error { return f.err }

type failingGenreWrites struct {
	GenreStore
	err error
}

func (f failingGenreWrites) Replace(context.Context, string, *entities.Genre) (*entities.Genre, error) {
	return nil, f.err
}
func (f failingGenreWrites) Delete(context.Context, string) error { return f.err }

type failingAuthorWrites struct {
	AuthorStore
	err error
}

func (f failingAuthorWrites) Replace(context.Context, string, *entities.Author) (*entities.Author, error) {
	return nil, f.err
}
func (f failingAuthorWrites) Delete(context.Context, string) error { return f.err }

type failingInstanceWrites struct {
	InstanceStore
	err error
}

func (f failingInstanceWrites) Replace(context.Context, string, *entities.BookInstance) (*entities.BookInstance, error) {
	return nil, f.err
}
func (f failingInstanceWrites) Delete(context.Context, string) error { return f.err }

func TestWriteFailures(t *testing.T) {
	_, db := setupTestService(t)
	boom := errors.New("database is locked")
	svc := NewService(Stores{
		Authors:   failingAuthorWrites{AuthorStore: db.Authors, err: boom},
		Genres:    failingGenreWrites{GenreStore: db.Genres, err: boom},
		Books:     failingBookWrites{BookStore: db.Books, err: boom},
		Instances: failingInstanceWrites{InstanceStore: db.Instances, err: boom},
	}, nil)
	ctx := context.Background()

	author := createAuthor(t, db, "Ursula", "Le Guin")
	genre := createGenre(t, db, "Fantasy")
	book := createBook(t, db, "Earthsea", author.ID)
	instance := createInstance(t, db, book.ID, entities.StatusAvailable)
	// Unreferenced entities so the guard allows their deletion.
	lonelyAuthor := createAuthor(t, db, "Jane", "Austen")
	lonelyBook := createBook(t, db, "The Lathe of Heaven", author.ID)

	cases := map[string]func() Result{
		"update book": func() Result {
			return svc.UpdateBook(ctx, book.ID, bookInput("Earthsea", author.ID, "S", "1"))
		},
		"update genre": func() Result {
			return svc.UpdateGenre(ctx, genre.ID, validation.Input{"name": {"High Fantasy"}})
		},
		"update author": func() Result {
			return svc.UpdateAuthor(ctx, author.ID, validation.Input{
				"first_name":  {"Ursula K."},
				"family_name": {"Le Guin"},
			})
		},
		"update instance": func() Result {
			return svc.UpdateInstance(ctx, instance.ID, validation.Input{
				"book":    {book.ID},
				"imprint": {"Parnassus, 1968"},
			})
		},
		"delete book":     func() Result { return svc.DeleteBook(ctx, lonelyBook.ID) },
		"delete genre":    func() Result { return svc.DeleteGenre(ctx, genre.ID) },
		"delete author":   func() Result { return svc.DeleteAuthor(ctx, lonelyAuthor.ID) },
		"delete instance": func() Result { return svc.DeleteInstance(ctx, instance.ID) },
	}
	for name, call := range cases {
		t.Run(name, func(t *testing.T) {
			failure := requireFailure(t, call())
			assert.ErrorIs(t, failure, boom)
			var storeErr *StoreError
			assert.ErrorAs(t, failure, &storeErr)
			assert.NotErrorIs(t, failure, ErrNotFound)
		})
	}

	_, err := db.Books.Get(ctx, lonelyBook.ID)
	assert.NoError(t, err)
	_, err = db.Instances.Get(ctx, instance.ID)
	assert.NoError(t, err)
}
