package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/entrypoint"
	"github.com/mrlokans/librarian/internal/validation"
)

// SeedCommand populates a demo catalog by submitting forms through the
// create workflows, so every record passes the same validation as the UI.
type SeedCommand struct {
	Verbose bool
	cfg     *config.Config
}

func NewSeedCommand(cfg *config.Config) *SeedCommand {
	return &SeedCommand{cfg: cfg}
}

func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)

	fs.StringVar(&cmd.cfg.Database.Path, "db", cmd.cfg.Database.Path, "Path to the sqlite catalog database")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Print every created record")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a small demo catalog of authors, genres, books and copies.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

type seedBook struct {
	title, author, summary, isbn string
	genres                       []string
	copies                       []validation.Input
}

var (
	seedAuthors = map[string]validation.Input{
		"austen":  {"first_name": {"Jane"}, "family_name": {"Austen"}, "date_of_birth": {"1775-12-16"}, "date_of_death": {"1817-07-18"}},
		"asimov":  {"first_name": {"Isaac"}, "family_name": {"Asimov"}, "date_of_birth": {"1920-01-02"}, "date_of_death": {"1992-04-06"}},
		"le_guin": {"first_name": {"Ursula"}, "family_name": {"Le Guin"}, "date_of_birth": {"1929-10-21"}, "date_of_death": {"2018-01-22"}},
		"herbert": {"first_name": {"Frank"}, "family_name": {"Herbert"}, "date_of_birth": {"1920-10-08"}},
	}
	seedGenres = []string{"Fiction", "Science Fiction", "Fantasy", "Romance"}
	seedBooks  = []seedBook{
		{
			title: "Pride and Prejudice", author: "austen", isbn: "9780141439518",
			summary: "Elizabeth Bennet navigates manners, marriage and money in Regency England.",
			genres:  []string{"Fiction", "Romance"},
			copies: []validation.Input{
				{"imprint": {"Penguin Classics, 2003"}, "status": {"Available"}},
				{"imprint": {"Penguin Classics, 2003"}, "status": {"Loaned"}, "due_back": {"2026-11-01"}},
			},
		},
		{
			title: "Foundation", author: "asimov", isbn: "9780553293357",
			summary: "A mathematician predicts the fall of the Galactic Empire.",
			genres:  []string{"Science Fiction"},
			copies: []validation.Input{
				{"imprint": {"Bantam Spectra, 1991"}, "status": {"Available"}},
				{"imprint": {"Gnome Press, 1951"}, "status": {"Maintenance"}},
			},
		},
		{
			title: "A Wizard of Earthsea", author: "le_guin", isbn: "9780547773742",
			summary: "Young Ged learns the price of power on the islands of Earthsea.",
			genres:  []string{"Fantasy", "Fiction"},
			copies: []validation.Input{
				{"imprint": {"Houghton Mifflin, 2012"}, "status": {"Reserved"}, "due_back": {"2026-10-30"}},
			},
		},
		{
			title: "Dune", author: "herbert", isbn: "9780441172719",
			summary: "Paul Atreides and the desert planet Arrakis.",
			genres:  []string{"Science Fiction"},
			copies: []validation.Input{
				{"imprint": {"Ace, 1990"}, "status": {"Available"}},
				{"imprint": {"Ace, 1990"}, "status": {"Available"}},
				{"imprint": {"Chilton Books, 1965"}},
			},
		},
	}
)

func (cmd *SeedCommand) Run() error {
	fmt.Println("Seed Catalog")
	fmt.Println("============")

	db, err := entrypoint.OpenDatabase(cmd.cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	svc := entrypoint.NewCatalog(db)
	ctx := context.Background()

	authorIDs := make(map[string]string, len(seedAuthors))
	for key, in := range seedAuthors {
		id, err := created(svc.CreateAuthor(ctx, in))
		if err != nil {
			return fmt.Errorf("author %s: %w", key, err)
		}
		authorIDs[key] = id
		cmd.log("author", in["family_name"][0], id)
	}

	genreIDs := make(map[string]string, len(seedGenres))
	for _, name := range seedGenres {
		// An existing genre redirects to itself, so re-seeding reuses it.
		id, err := created(svc.CreateGenre(ctx, validation.Input{"name": {name}}))
		if err != nil {
			return fmt.Errorf("genre %s: %w", name, err)
		}
		genreIDs[name] = id
		cmd.log("genre", name, id)
	}

	copies := 0
	for _, b := range seedBooks {
		in := validation.Input{
			"title":   {b.title},
			"author":  {authorIDs[b.author]},
			"summary": {b.summary},
			"isbn":    {b.isbn},
		}
		for _, g := range b.genres {
			in["genre"] = append(in["genre"], genreIDs[g])
		}
		bookID, err := created(svc.CreateBook(ctx, in))
		if err != nil {
			return fmt.Errorf("book %q: %w", b.title, err)
		}
		cmd.log("book", b.title, bookID)

		for _, c := range b.copies {
			in := validation.Input{"book": {bookID}}
			for field, values := range c {
				in[field] = values
			}
			id, err := created(svc.CreateInstance(ctx, in))
			if err != nil {
				return fmt.Errorf("copy of %q: %w", b.title, err)
			}
			copies++
			cmd.log("bookinstance", c["imprint"][0], id)
		}
	}

	fmt.Printf("Created %d authors, %d genres, %d books and %d copies\n",
		len(authorIDs), len(genreIDs), len(seedBooks), copies)
	return nil
}

func (cmd *SeedCommand) log(kind, label, id string) {
	if cmd.Verbose {
		fmt.Printf("  %-13s %-28s %s\n", kind, label, id)
	}
}

// created returns the id of the record a create workflow redirected to.
func created(res catalog.Result) (string, error) {
	switch r := res.(type) {
	case catalog.Redirect:
		return path.Base(r.Path), nil
	case catalog.Failure:
		return "", r.Cause
	case catalog.Render:
		return "", fmt.Errorf("rejected: %v", r.Data["errors"])
	default:
		return "", fmt.Errorf("unexpected result %T", res)
	}
}
