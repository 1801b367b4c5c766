package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/database"
	http_controllers "github.com/mrlokans/librarian/internal/http"
	"github.com/mrlokans/librarian/internal/logging"
	"github.com/mrlokans/librarian/internal/metrics"
	"github.com/mrlokans/librarian/internal/scheduler"
	"github.com/mrlokans/librarian/internal/tasks"
)

// ShutdownFunc is called during graceful shutdown with a context that has the shutdown timeout.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("listen failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server", "timeout", timeout)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	slog.Info("server exiting")
}

// OpenDatabase connects to the configured catalog backend.
func OpenDatabase(cfg *config.Config) (*database.Database, error) {
	return database.NewDatabase(database.Options{
		Driver: cfg.Database.Driver,
		Path:   cfg.Database.Path,
		DSN:    cfg.Database.DSN,
	})
}

// NewCatalog builds the catalog service over the repositories of db.
func NewCatalog(db *database.Database) *catalog.Service {
	return catalog.NewService(catalog.Stores{
		Authors:   db.Authors,
		Genres:    db.Genres,
		Books:     db.Books,
		Instances: db.Instances,
	}, slog.Default())
}

// TaskDatabasePath resolves where the task queue keeps its sqlite file.
func TaskDatabasePath(cfg *config.Config) string {
	if cfg.Tasks.Path != "" {
		return cfg.Tasks.Path
	}
	if cfg.Database.Driver == database.DriverPostgres {
		return tasks.PathFor(config.DefaultDatabasePath)
	}
	return tasks.PathFor(cfg.Database.Path)
}

// csrfSecret accepts a hex-encoded secret or uses the raw bytes.
func csrfSecret(secret string) []byte {
	if secret == "" {
		return nil
	}
	if b, err := hex.DecodeString(secret); err == nil {
		return b
	}
	return []byte(secret)
}

func Run(cfg *config.Config, version string) {
	logging.Setup(cfg.Log.Level, cfg.Log.Format)
	slog.Info("starting librarian", "version", version, "driver", cfg.Database.Driver)

	db, err := OpenDatabase(cfg)
	if err != nil {
		slog.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
	}()

	var recorder *metrics.Recorder
	if cfg.Metrics.Enabled {
		recorder = metrics.New()
	}

	service := NewCatalog(db)

	// Initialize task queue and the dangling-reference sweep
	var taskClient *tasks.Client
	var taskCtxCancel context.CancelFunc
	var sweepScheduler *scheduler.SweepScheduler
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:         cfg.Tasks.Workers,
			ReleaseAfter:    cfg.Tasks.ReleaseAfter,
			CleanupInterval: cfg.Tasks.CleanupInterval,
		}

		taskClient, err = tasks.NewClient(TaskDatabasePath(cfg), taskCfg)
		if err != nil {
			slog.Error("failed to initialize task queue", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				slog.Error("error closing task client", "error", err)
			}
		}()

		taskClient.Register(
			tasks.NewSweepQueue(tasks.NewSweeper(db.Instances, db.Books, recorder)),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		if cfg.Sweep.Enabled {
			sweepScheduler = scheduler.NewSweepScheduler(cfg.Sweep.Schedule, func(ctx context.Context) error {
				_, err := taskClient.Add(tasks.SweepDanglingRefsTask{}).Ctx(ctx).Save()
				return err
			})
			if err := sweepScheduler.Start(taskCtx); err != nil {
				slog.Error("failed to start sweep scheduler", "error", err)
				os.Exit(1)
			}
		}
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Catalog:       service,
		Database:      db,
		Metrics:       recorder,
		TemplatesPath: cfg.UI.TemplatesPath,
		StaticPath:    cfg.UI.StaticPath,
		CSRFSecret:    csrfSecret(cfg.CSRF.Secret),
		SecureCookies: cfg.CSRF.SecureCookies,
		Version:       version,
	})

	onShutdown := func(ctx context.Context) {
		if sweepScheduler != nil {
			sweepScheduler.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
	}

	Serve(router, cfg, onShutdown)
}
