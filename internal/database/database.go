package database

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/librarian/internal/database/authors"
	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/database/genres"
	"github.com/mrlokans/librarian/internal/database/instances"
	"github.com/mrlokans/librarian/internal/entities"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects the backend and its connection settings.
type Options struct {
	Driver string // "sqlite" (default) or "postgres"
	Path   string // sqlite file path
	DSN    string // postgres connection string
	Silent bool   // suppress gorm query logging
}

type Database struct {
	DB *gorm.DB

	Authors   *authors.Repository
	Genres    *genres.Repository
	Books     *books.Repository
	Instances *instances.Repository
}

func dialector(opts Options) (gorm.Dialector, error) {
	switch opts.Driver {
	case "", DriverSQLite:
		if opts.Path == "" {
			return nil, fmt.Errorf("sqlite database path is empty")
		}
		return sqlite.Open(opts.Path), nil
	case DriverPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres DSN is empty")
		}
		return postgres.Open(opts.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

func NewDatabase(opts Options) (*Database, error) {
	dial, err := dialector(opts)
	if err != nil {
		return nil, err
	}

	logLevel := logger.Warn
	if opts.Silent {
		logLevel = logger.Silent
	}

	// References are validated by the catalog workflows, not by the schema:
	// a book may name an author id that is not (or no longer) stored.
	db, err := gorm.Open(dial, &gorm.Config{
		Logger:                                   logger.Default.LogMode(logLevel),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Author{},
		&entities.Genre{},
		&entities.Book{},
		&entities.BookInstance{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	slog.Info("database initialized", "driver", driverName(opts.Driver))

	return &Database{
		DB:        db,
		Authors:   authors.NewRepository(db),
		Genres:    genres.NewRepository(db),
		Books:     books.NewRepository(db),
		Instances: instances.NewRepository(db),
	}, nil
}

// Ping checks that the underlying connection is alive.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func driverName(driver string) string {
	if driver == "" {
		return DriverSQLite
	}
	return driver
}
