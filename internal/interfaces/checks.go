package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/database/authors"
	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/database/genres"
	"github.com/mrlokans/librarian/internal/database/instances"
	"github.com/mrlokans/librarian/internal/http"
	"github.com/mrlokans/librarian/internal/tasks"
)

// =============================================================================
// Entity Stores
// =============================================================================

var _ catalog.AuthorStore = (*authors.Repository)(nil)
var _ catalog.GenreStore = (*genres.Repository)(nil)
var _ catalog.BookStore = (*books.Repository)(nil)
var _ catalog.InstanceStore = (*instances.Repository)(nil)

// =============================================================================
// Dangling Reference Sweep
// =============================================================================

var _ tasks.OrphanedInstanceFinder = (*instances.Repository)(nil)
var _ tasks.DanglingBookFinder = (*books.Repository)(nil)

// =============================================================================
// Health
// =============================================================================

var _ http.Pinger = (*database.Database)(nil)
