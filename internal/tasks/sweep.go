package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/librarian/internal/aggregate"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/metrics"
)

// SweepQueueName is the backlite queue of the dangling-reference sweep.
const SweepQueueName = "sweep_dangling_refs"

// OrphanedInstanceFinder lists copies whose book is no longer stored.
type OrphanedInstanceFinder interface {
	ListOrphaned(ctx context.Context) ([]entities.BookInstance, error)
}

// DanglingBookFinder reports books and genre links pointing at missing
// records.
type DanglingBookFinder interface {
	ListWithoutAuthor(ctx context.Context) ([]entities.Book, error)
	CountDanglingGenreLinks(ctx context.Context) (int64, error)
}

// SweepReport lists the references left dangling, typically by a delete
// racing with a create.
type SweepReport struct {
	OrphanedInstances  []string
	BooksWithoutAuthor []string
	DanglingGenreLinks int64
}

// Total is the number of dangling references found.
func (r SweepReport) Total() int {
	return len(r.OrphanedInstances) + len(r.BooksWithoutAuthor) + int(r.DanglingGenreLinks)
}

// Sweeper reports dangling references. It never repairs them.
type Sweeper struct {
	instances OrphanedInstanceFinder
	books     DanglingBookFinder
	metrics   *metrics.Recorder
	logger    *slog.Logger
}

func NewSweeper(instances OrphanedInstanceFinder, books DanglingBookFinder, recorder *metrics.Recorder) *Sweeper {
	return &Sweeper{
		instances: instances,
		books:     books,
		metrics:   recorder,
		logger:    slog.Default().With("component", "sweep"),
	}
}

// Run queries every kind of dangling reference concurrently.
func (s *Sweeper) Run(ctx context.Context) (SweepReport, error) {
	res, err := aggregate.JoinAll(ctx, aggregate.Tasks{
		"instances": func(ctx context.Context) (any, error) {
			return s.instances.ListOrphaned(ctx)
		},
		"books": func(ctx context.Context) (any, error) {
			return s.books.ListWithoutAuthor(ctx)
		},
		"genre_links": func(ctx context.Context) (any, error) {
			return s.books.CountDanglingGenreLinks(ctx)
		},
	})
	if err != nil {
		return SweepReport{}, fmt.Errorf("sweep dangling references: %w", err)
	}

	report := SweepReport{
		OrphanedInstances:  []string{},
		BooksWithoutAuthor: []string{},
		DanglingGenreLinks: aggregate.Get[int64](res, "genre_links"),
	}
	for _, i := range aggregate.Get[[]entities.BookInstance](res, "instances") {
		report.OrphanedInstances = append(report.OrphanedInstances, i.ID)
		s.logger.Warn("dangling reference", "entity", entities.KindBookInstance, "id", i.ID, "book", i.BookID)
	}
	for _, b := range aggregate.Get[[]entities.Book](res, "books") {
		report.BooksWithoutAuthor = append(report.BooksWithoutAuthor, b.ID)
		s.logger.Warn("dangling reference", "entity", entities.KindBook, "id", b.ID, "author", b.AuthorID)
	}

	s.metrics.SetDangling("bookinstance_book", len(report.OrphanedInstances))
	s.metrics.SetDangling("book_author", len(report.BooksWithoutAuthor))
	s.metrics.SetDangling("book_genre", int(report.DanglingGenreLinks))

	s.logger.Info("sweep finished", "outcome", "reported", "dangling", report.Total())
	return report, nil
}

// SweepDanglingRefsTask runs the Sweeper in the background.
type SweepDanglingRefsTask struct{}

// Config returns the queue configuration for sweep tasks.
func (t SweepDanglingRefsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        SweepQueueName,
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     5 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// SweepDanglingRefsProcessor creates the processor for SweepDanglingRefsTask.
func SweepDanglingRefsProcessor(sweeper *Sweeper) backlite.QueueProcessor[SweepDanglingRefsTask] {
	return func(ctx context.Context, task SweepDanglingRefsTask) error {
		if sweeper == nil {
			return fmt.Errorf("sweeper not configured")
		}
		_, err := sweeper.Run(ctx)
		return err
	}
}

// NewSweepQueue creates a backlite queue for sweep tasks.
func NewSweepQueue(sweeper *Sweeper) backlite.Queue {
	return backlite.NewQueue(SweepDanglingRefsProcessor(sweeper))
}
