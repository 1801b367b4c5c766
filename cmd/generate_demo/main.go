// Command generate_demo creates a fresh demo catalog database.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/mrlokans/librarian/internal/cli"
	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/database"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	verbose := flag.Bool("verbose", false, "print every created record")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0o755); err != nil {
		log.Fatalf("Failed to create demo directory: %v", err)
	}

	cfg := config.NewConfig()
	cfg.Database.Driver = database.DriverSQLite
	cfg.Database.Path = *dbPath

	seed := cli.NewSeedCommand(cfg)
	seed.Verbose = *verbose
	if err := seed.Run(); err != nil {
		log.Fatalf("Failed to seed demo database: %v", err)
	}

	log.Println("Demo database generated successfully!")
}
