// Package catalog implements the list, detail, create, update and delete
// workflows of the library catalog.
//
// Every workflow returns a Result describing what should happen next (render
// a view, redirect, or fail) and never touches the transport. Reads spanning
// several collections go through aggregate.JoinAll; submissions go through
// the validation pipelines in rules.go; deletes are gated by the Guard.
//
// # Usage
//
//	svc := catalog.NewService(catalog.Stores{...}, slog.Default())
//	switch r := svc.CreateBook(ctx, input).(type) {
//	case catalog.Render:   // redisplay the form with r.Data["errors"]
//	case catalog.Redirect: // go to r.Path
//	case catalog.Failure:  // 404 or 500 depending on r.Cause
//	}
package catalog

import (
	"context"
	"log/slog"

	"github.com/mrlokans/librarian/internal/aggregate"
	"github.com/mrlokans/librarian/internal/entities"
)

type Service struct {
	stores Stores
	guard  *Guard
	logger *slog.Logger
}

func NewService(stores Stores, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		stores: stores,
		guard:  NewGuard(stores.Books, stores.Instances),
		logger: logger.With("component", "catalog"),
	}
}

// Guard exposes the integrity guard used by the delete workflows.
func (s *Service) Guard() *Guard {
	return s.guard
}

// Index counts books, copies, available copies, authors and genres.
func (s *Service) Index(ctx context.Context) Result {
	res, err := aggregate.JoinAll(ctx, aggregate.Tasks{
		"book_count":          storeTask("count books", s.stores.Books.Count),
		"book_instance_count": storeTask("count instances", s.stores.Instances.Count),
		"book_instance_available_count": storeTask("count available instances", func(ctx context.Context) (int64, error) {
			return s.stores.Instances.CountByStatus(ctx, entities.StatusAvailable)
		}),
		"author_count": storeTask("count authors", s.stores.Authors.Count),
		"genre_count":  storeTask("count genres", s.stores.Genres.Count),
	})
	if err != nil {
		return fail(err)
	}

	data := ViewData{"title": "Local Library Home"}
	for label, value := range res {
		data[label] = value
	}
	return Render{View: "index", Data: data}
}

// storeTask adapts a store read into an aggregation task, wrapping a failure
// as a StoreError for op.
func storeTask[T any](op string, fn func(context.Context) (T, error)) aggregate.Task {
	return func(ctx context.Context) (any, error) {
		v, err := fn(ctx)
		if err != nil {
			return nil, &StoreError{Op: op, Err: err}
		}
		return v, nil
	}
}

// lookup adapts a get-by-id into a task result, mapping absence to a
// NotFoundError for kind/id.
func lookup[T any](kind entities.Kind, id string, get func(context.Context, string) (*T, error)) aggregate.Task {
	return func(ctx context.Context) (any, error) {
		v, err := get(ctx, id)
		if err != nil {
			return nil, classify(kind, id, "get "+string(kind), err)
		}
		return v, nil
	}
}

// deleteForm shows the confirmation page of kind/id together with the
// records that would block the delete. A missing entity redirects to the
// listing.
func (s *Service) deleteForm(ctx context.Context, kind entities.Kind, id, title string, get aggregate.Task) Result {
	res, err := aggregate.JoinAll(ctx, aggregate.Tasks{
		"entity": get,
		"blocking": func(ctx context.Context) (any, error) {
			return s.guard.Dependents(ctx, kind, id)
		},
	})
	if isNotFound(err) {
		return Redirect{Path: kind.CollectionPath()}
	}
	if err != nil {
		return fail(err)
	}

	return Render{View: string(kind) + "_delete", Data: ViewData{
		"title":      title,
		string(kind): res["entity"],
		"blocking":   aggregate.Get[[]Dependent](res, "blocking"),
	}}
}

// remove runs LOOKUP and GUARD concurrently, then deletes only when the
// guard allows it. Deleting an entity that is already gone redirects to the
// listing like a successful delete.
func (s *Service) remove(ctx context.Context, kind entities.Kind, id, title string, get aggregate.Task, del func(context.Context, string) error) Result {
	res, err := aggregate.JoinAll(ctx, aggregate.Tasks{
		"entity": get,
		"verdict": func(ctx context.Context) (any, error) {
			return s.guard.CanDelete(ctx, kind, id)
		},
	})
	if isNotFound(err) {
		return Redirect{Path: kind.CollectionPath()}
	}
	if err != nil {
		return fail(err)
	}

	verdict := aggregate.Get[Verdict](res, "verdict")
	if !verdict.Allowed {
		s.logger.Info("delete blocked", "entity", kind, "action", "delete", "id", id,
			"outcome", "blocked", "dependents", len(verdict.Blocking))
		return Render{View: string(kind) + "_delete", Data: ViewData{
			"title":      title,
			string(kind): res["entity"],
			"blocking":   verdict.Blocking,
		}}
	}

	if err := del(ctx, id); err != nil {
		err = classify(kind, id, "delete "+string(kind), err)
		if isNotFound(err) {
			return Redirect{Path: kind.CollectionPath()}
		}
		return fail(err)
	}

	s.logger.Info("entity deleted", "entity", kind, "action", "delete", "id", id, "outcome", "deleted")
	return Redirect{Path: kind.CollectionPath()}
}

func (s *Service) logWrite(kind entities.Kind, action, id string) {
	s.logger.Info("entity saved", "entity", kind, "action", action, "id", id, "outcome", "persisted")
}
