package catalog

import (
	"strings"

	"github.com/mrlokans/librarian/internal/entities"
	v "github.com/mrlokans/librarian/internal/validation"
)

// Submitted form field names.
const (
	fieldFirstName   = "first_name"
	fieldFamilyName  = "family_name"
	fieldDateOfBirth = "date_of_birth"
	fieldDateOfDeath = "date_of_death"
	fieldName        = "name"
	fieldTitle       = "title"
	fieldAuthor      = "author"
	fieldSummary     = "summary"
	fieldISBN        = "isbn"
	fieldGenre       = "genre"
	fieldBook        = "book"
	fieldImprint     = "imprint"
	fieldStatus      = "status"
	fieldDueBack     = "due_back"
)

var authorRules = v.New(
	v.Field(fieldFirstName,
		v.Required("First name must be specified."),
		v.MaxLen(100, "First name must not exceed 100 characters."),
	),
	v.Field(fieldFamilyName,
		v.Required("Family name must be specified."),
		v.MaxLen(100, "Family name must not exceed 100 characters."),
	),
	v.OptionalField(fieldDateOfBirth, v.ISODate("Invalid date of birth")),
	v.OptionalField(fieldDateOfDeath, v.ISODate("Invalid date of death")),
)

var genreRules = v.New(
	v.Field(fieldName,
		v.Required("Genre name required"),
		v.MinLen(3, "Genre name must be at least 3 characters"),
		v.MaxLen(100, "Genre name must not exceed 100 characters"),
	),
)

var bookRules = v.New(
	v.Field(fieldTitle, v.Required("Title must not be empty.")),
	v.Field(fieldAuthor, v.Required("Author must not be empty.")),
	v.Field(fieldSummary, v.Required("Summary must not be empty.")),
	v.Field(fieldISBN, v.Required("ISBN must not be empty")),
	v.ListField(fieldGenre),
)

var instanceRules = v.New(
	v.Field(fieldBook, v.Required("Book must be specified")),
	v.Field(fieldImprint, v.Required("Imprint must be specified")),
	v.OptionalField(fieldStatus, v.OneOf(statusValues(), statusMessage())).
		WithDefault(string(entities.DefaultInstanceStatus)),
	v.OptionalField(fieldDueBack, v.ISODate("Invalid date")),
)

func statusValues() []string {
	statuses := entities.InstanceStatuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func statusMessage() string {
	return "Status must be one of " + strings.Join(statusValues(), ", ")
}

// Drafts built from sanitized input. Dates have passed the ISO check, so a
// parse failure can only mean an empty value.

func authorDraft(clean v.Sanitized) *entities.Author {
	birth, _ := entities.ParseDate(clean.Get(fieldDateOfBirth))
	death, _ := entities.ParseDate(clean.Get(fieldDateOfDeath))
	return &entities.Author{
		FirstName:   clean.Get(fieldFirstName),
		FamilyName:  clean.Get(fieldFamilyName),
		DateOfBirth: birth,
		DateOfDeath: death,
	}
}

func genreDraft(clean v.Sanitized) *entities.Genre {
	return &entities.Genre{Name: clean.Get(fieldName)}
}

func bookDraft(clean v.Sanitized) *entities.Book {
	return &entities.Book{
		Title:    clean.Get(fieldTitle),
		AuthorID: clean.Get(fieldAuthor),
		Summary:  clean.Get(fieldSummary),
		ISBN:     clean.Get(fieldISBN),
		GenreIDs: clean.List(fieldGenre),
	}
}

func instanceDraft(clean v.Sanitized) *entities.BookInstance {
	due, _ := entities.ParseDate(clean.Get(fieldDueBack))
	return &entities.BookInstance{
		BookID:  clean.Get(fieldBook),
		Imprint: clean.Get(fieldImprint),
		Status:  entities.InstanceStatus(clean.Get(fieldStatus)),
		DueBack: due,
	}
}
