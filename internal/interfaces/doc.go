// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Entity Stores
//
// The catalog workflows depend only on the store interfaces declared in
// internal/catalog/stores.go:
//
//   - AuthorStore: authors (internal/database/authors)
//   - GenreStore: genres, with lookup by exact name (internal/database/genres)
//   - BookStore: books and their genre links (internal/database/books)
//   - InstanceStore: physical copies (internal/database/instances)
//
// Each repository builds on collection.Collection, the shared
// find / find-by-id / count / insert / replace / delete contract.
//
// ## Sweep Finders
//
//   - OrphanedInstanceFinder: copies whose book is gone (internal/tasks/sweep.go)
//   - DanglingBookFinder: books whose author or genres are gone (internal/tasks/sweep.go)
//
// ## Health
//
//   - Pinger: backend liveness for /health (internal/http/health.go)
//
// # Adding a New Entity Kind
//
//  1. Add the model and its Kind constant in internal/entities/catalog.go and
//     register it with AutoMigrate in internal/database/database.go.
//
//  2. Create a repository package under internal/database/ that wraps
//     collection.New[entities.YourKind](db).
//
//  3. Declare the store interface in internal/catalog/stores.go, add it to
//     catalog.Stores and write the workflows (list, detail, create, update,
//     delete) returning catalog.Result values.
//
//  4. Teach catalog.Guard which kinds depend on the new one.
//
//  5. Add an entityWorkflows entry in internal/http/catalog.go so the routes
//     are mounted.
//
//  6. Add a compile-time check to internal/interfaces/checks.go:
//
//     var _ catalog.YourKindStore = (*yourkind.Repository)(nil)
package interfaces
