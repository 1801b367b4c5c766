package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateCronSchedule checks that a schedule is a valid 5-field cron expression.
func ValidateCronSchedule(schedule string) error {
	_, err := parser.Parse(schedule)
	return err
}

// NextRunTime returns when a schedule next fires after from.
func NextRunTime(schedule string, from time.Time) (time.Time, error) {
	sched, err := parser.Parse(schedule)
	if err != nil {
		return time.Time{}, err
	}
	return sched.Next(from), nil
}

// Trigger starts one sweep, typically by enqueueing a task.
type Trigger func(ctx context.Context) error

// SweepScheduler periodically triggers the dangling-reference sweep.
type SweepScheduler struct {
	schedule string
	trigger  Trigger
	logger   *slog.Logger

	cron      *cron.Cron
	entryID   cron.EntryID
	mu        sync.RWMutex
	isRunning bool
}

// NewSweepScheduler creates a scheduler firing trigger on schedule.
func NewSweepScheduler(schedule string, trigger Trigger) *SweepScheduler {
	return &SweepScheduler{
		schedule: schedule,
		trigger:  trigger,
		logger:   slog.Default().With("component", "scheduler"),
		cron:     cron.New(cron.WithParser(parser)),
	}
}

// Start begins the scheduler. It stops when ctx is cancelled.
func (s *SweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if err := ValidateCronSchedule(s.schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() { s.fire(ctx) })
	if err != nil {
		return fmt.Errorf("failed to schedule sweep job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	next, _ := NextRunTime(s.schedule, time.Now())
	s.logger.Info("sweep scheduler started", "schedule", s.schedule, "next_run", next)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running trigger to return.
func (s *SweepScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	s.isRunning = false

	s.logger.Info("sweep scheduler stopped")
}

// RunNow fires the trigger once, outside the schedule.
func (s *SweepScheduler) RunNow() {
	s.fire(context.Background())
}

func (s *SweepScheduler) fire(ctx context.Context) {
	if err := s.trigger(ctx); err != nil {
		s.logger.Error("sweep trigger failed", "error", err)
	}
}

// IsRunning returns whether the scheduler is active.
func (s *SweepScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns when the sweep next fires, or nil when stopped.
func (s *SweepScheduler) NextRun() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	t := s.cron.Entry(s.entryID).Next
	return &t
}
