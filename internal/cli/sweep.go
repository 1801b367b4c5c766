package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/entrypoint"
	"github.com/mrlokans/librarian/internal/tasks"
)

// SweepCommand runs the dangling-reference sweep once, in the foreground.
type SweepCommand struct {
	Timeout time.Duration
	Verbose bool
	cfg     *config.Config
}

func NewSweepCommand(cfg *config.Config) *SweepCommand {
	return &SweepCommand{cfg: cfg}
}

func (cmd *SweepCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)

	fs.StringVar(&cmd.cfg.Database.Path, "db", cmd.cfg.Database.Path, "Path to the sqlite catalog database")
	fs.DurationVar(&cmd.Timeout, "timeout", time.Minute, "Abort the sweep after this long")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "List the ids of every dangling record")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sweep [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Report copies whose book is gone, books whose author is gone and\n")
		fmt.Fprintf(os.Stderr, "genre links to deleted genres. Nothing is modified.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *SweepCommand) Run() error {
	fmt.Println("Dangling Reference Sweep")
	fmt.Println("========================")

	db, err := entrypoint.OpenDatabase(cmd.cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	report, err := tasks.NewSweeper(db.Instances, db.Books, nil).Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Copies without book:   %d\n", len(report.OrphanedInstances))
	fmt.Printf("Books without author:  %d\n", len(report.BooksWithoutAuthor))
	fmt.Printf("Dangling genre links:  %d\n", report.DanglingGenreLinks)

	if cmd.Verbose {
		for _, id := range report.OrphanedInstances {
			fmt.Printf("  bookinstance %s\n", id)
		}
		for _, id := range report.BooksWithoutAuthor {
			fmt.Printf("  book %s\n", id)
		}
	}

	if report.Total() == 0 {
		fmt.Println("\nNo dangling references found")
	}
	return nil
}
