// Package database provides the data access layer for the catalog.
//
// # Architecture
//
// The database layer is organized into one sub-package per entity, all built
// on a shared generic collection:
//
//	database/
//	├── database.go      # Connection setup (sqlite or postgres), migrations
//	├── collection/      # Collection[T]: find, find-by-id, count, insert, replace, delete
//	├── authors/         # Author CRUD
//	├── genres/          # Genre CRUD and lookup by name
//	├── books/           # Book CRUD, genre links, dangling-reference queries
//	└── instances/       # Physical copies, status counts, orphan query
//
// # Using Sub-packages
//
// NewDatabase opens the connection, migrates the schema and wires one
// Repository per entity:
//
//	db, err := database.NewDatabase(database.Options{Path: "./librarian.db"})
//
//	book, err := db.Books.Get(ctx, id)           // author and genres populated
//	copies, err := db.Instances.ListByBook(ctx, id)
//
// Identifiers are UUID strings. A malformed id fails with
// collection.ErrInvalidID before any query runs; a well-formed id that names
// no record fails with collection.ErrNotFound.
//
// # References
//
// Foreign keys are not created. A book may point at an author that was never
// stored or has since been deleted; the catalog workflows guard deletes and
// the sweep task reports what slipped through.
//
// # Interface Implementations
//
//   - authors.Repository: implements catalog.AuthorStore
//   - genres.Repository: implements catalog.GenreStore
//   - books.Repository: implements catalog.BookStore and tasks.DanglingBookFinder
//   - instances.Repository: implements catalog.InstanceStore and tasks.OrphanedInstanceFinder
//   - Database: implements http.Pinger
package database
