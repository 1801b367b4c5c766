package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kind names an entity collection. It doubles as the path segment used in
// canonical paths (/catalog/<kind>/<id>).
type Kind string

const (
	KindAuthor       Kind = "author"
	KindGenre        Kind = "genre"
	KindBook         Kind = "book"
	KindBookInstance Kind = "bookinstance"
)

// DetailPath returns the canonical path of the entity with the given id.
func (k Kind) DetailPath(id string) string {
	return "/catalog/" + string(k) + "/" + id
}

// CollectionPath returns the path of the listing page for the kind.
func (k Kind) CollectionPath() string {
	return "/catalog/" + string(k) + "s"
}

// InstanceStatus is the circulation state of a physical copy.
type InstanceStatus string

const (
	StatusAvailable   InstanceStatus = "Available"
	StatusMaintenance InstanceStatus = "Maintenance"
	StatusLoaned      InstanceStatus = "Loaned"
	StatusReserved    InstanceStatus = "Reserved"
)

// DefaultInstanceStatus is used when a copy is submitted without a status.
const DefaultInstanceStatus = StatusMaintenance

// InstanceStatuses returns every status in display order.
func InstanceStatuses() []InstanceStatus {
	return []InstanceStatus{StatusAvailable, StatusMaintenance, StatusLoaned, StatusReserved}
}

// Valid reports whether s is one of the known statuses.
func (s InstanceStatus) Valid() bool {
	for _, known := range InstanceStatuses() {
		if s == known {
			return true
		}
	}
	return false
}

const displayDateLayout = "Jan 2, 2006"
const isoDateLayout = "2006-01-02"

// Text columns hold escaped input. Escaping expands a character to at most
// six, so a name limited to 100 characters needs a 600-character column.
type Author struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	FirstName   string     `gorm:"size:600;not null" json:"first_name"`
	FamilyName  string     `gorm:"index;size:600;not null" json:"family_name"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	DateOfDeath *time.Time `json:"date_of_death,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Genre struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"index;size:600;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Book struct {
	ID       string  `gorm:"primaryKey;size:36" json:"id"`
	Title    string  `gorm:"index;type:text;not null" json:"title"`
	AuthorID string  `gorm:"index;size:36" json:"author_id"`
	Author   *Author `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Summary  string  `gorm:"type:text" json:"summary"`
	ISBN     string  `gorm:"type:text" json:"isbn"`
	Genres   []Genre `gorm:"many2many:book_genres" json:"genres,omitempty"`

	// GenreIDs is the submitted genre selection. Stored through book_genres.
	GenreIDs []string `gorm:"-" json:"genre_ids,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type BookInstance struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	BookID    string         `gorm:"index;size:36" json:"book_id"`
	Book      *Book          `gorm:"foreignKey:BookID" json:"book,omitempty"`
	Imprint   string         `gorm:"type:text;not null" json:"imprint"`
	Status    InstanceStatus `gorm:"index;size:20;default:'Maintenance'" json:"status"`
	DueBack   *time.Time     `json:"due_back,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (Author) TableName() string {
	return "authors"
}

func (Genre) TableName() string {
	return "genres"
}

func (Book) TableName() string {
	return "books"
}

func (BookInstance) TableName() string {
	return "book_instances"
}

func newID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (a *Author) BeforeCreate(tx *gorm.DB) error {
	newID(&a.ID)
	return nil
}

func (g *Genre) BeforeCreate(tx *gorm.DB) error {
	newID(&g.ID)
	return nil
}

func (b *Book) BeforeCreate(tx *gorm.DB) error {
	newID(&b.ID)
	return nil
}

func (i *BookInstance) BeforeCreate(tx *gorm.DB) error {
	newID(&i.ID)
	if i.Status == "" {
		i.Status = DefaultInstanceStatus
	}
	return nil
}

// Name is "family, first", or empty unless both parts are present.
func (a Author) Name() string {
	if a.FirstName == "" || a.FamilyName == "" {
		return ""
	}
	return a.FamilyName + ", " + a.FirstName
}

// Lifespan renders the birth date followed by the death date, or "(alive)".
func (a Author) Lifespan() string {
	birth := formatDate(a.DateOfBirth, displayDateLayout)
	if a.DateOfDeath == nil {
		return birth + " (alive)"
	}
	return birth + " - " + a.DateOfDeath.Format(displayDateLayout)
}

func (a Author) DateOfBirthISO() string {
	return formatDate(a.DateOfBirth, isoDateLayout)
}

func (a Author) DateOfDeathISO() string {
	return formatDate(a.DateOfDeath, isoDateLayout)
}

func (a Author) URL() string {
	return KindAuthor.DetailPath(a.ID)
}

func (g Genre) URL() string {
	return KindGenre.DetailPath(g.ID)
}

func (b Book) URL() string {
	return KindBook.DetailPath(b.ID)
}

// HasGenre reports whether the book's selection includes the genre id,
// looking at both the submitted ids and the populated genres.
func (b Book) HasGenre(id string) bool {
	for _, gid := range b.GenreIDs {
		if gid == id {
			return true
		}
	}
	for _, g := range b.Genres {
		if g.ID == id {
			return true
		}
	}
	return false
}

func (i BookInstance) URL() string {
	return KindBookInstance.DetailPath(i.ID)
}

func (i BookInstance) DueBackFormatted() string {
	return formatDate(i.DueBack, displayDateLayout)
}

func (i BookInstance) DueBackISO() string {
	return formatDate(i.DueBack, isoDateLayout)
}

func formatDate(t *time.Time, layout string) string {
	if t == nil {
		return ""
	}
	return t.Format(layout)
}

// ParseDate parses a yyyy-mm-dd date. Empty input yields nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(isoDateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
