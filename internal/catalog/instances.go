package catalog

import (
	"context"

	"github.com/mrlokans/librarian/internal/aggregate"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/validation"
)

// ListInstances renders every copy with its book.
func (s *Service) ListInstances(ctx context.Context) Result {
	copies, err := s.stores.Instances.List(ctx)
	if err != nil {
		return fail(&StoreError{Op: "list instances", Err: err})
	}
	return Render{View: "bookinstance_list", Data: ViewData{
		"title":             "Book Instance List",
		"bookinstance_list": copies,
	}}
}

func (s *Service) InstanceDetail(ctx context.Context, id string) Result {
	instance, err := s.stores.Instances.Get(ctx, id)
	if err != nil {
		return fail(classify(entities.KindBookInstance, id, "get bookinstance", err))
	}

	title := "Copy"
	if instance.Book != nil {
		title = "Copy: " + instance.Book.Title
	}
	return Render{View: "bookinstance_detail", Data: ViewData{
		"title":        title,
		"bookinstance": instance,
	}}
}

func (s *Service) InstanceCreateForm(ctx context.Context) Result {
	refs, err := s.loadInstanceForm(ctx, nil)
	if err != nil {
		return fail(err)
	}
	return instanceFormView("Create Book Instance", &entities.BookInstance{}, refs, nil)
}

func (s *Service) CreateInstance(ctx context.Context, in validation.Input) Result {
	clean, errs := instanceRules.Run(in)
	draft := instanceDraft(clean)

	if len(errs) > 0 {
		refs, err := s.loadInstanceForm(ctx, nil)
		if err != nil {
			return fail(err)
		}
		return instanceFormView("Create Book Instance", draft, refs, errs)
	}

	if err := s.stores.Instances.Create(ctx, draft); err != nil {
		return fail(&StoreError{Op: "create bookinstance", Err: err})
	}
	s.logWrite(entities.KindBookInstance, "create", draft.ID)
	return Redirect{Path: draft.URL()}
}

func (s *Service) InstanceUpdateForm(ctx context.Context, id string) Result {
	refs, err := s.loadInstanceForm(ctx, aggregate.Tasks{
		"bookinstance": lookup(entities.KindBookInstance, id, s.stores.Instances.Get),
	})
	if err != nil {
		return fail(err)
	}
	instance := aggregate.Get[*entities.BookInstance](refs, "bookinstance")
	return instanceFormView("Update Book Instance", instance, refs, nil)
}

func (s *Service) UpdateInstance(ctx context.Context, id string, in validation.Input) Result {
	clean, errs := instanceRules.Run(in)
	draft := instanceDraft(clean)
	draft.ID = id

	if len(errs) > 0 {
		refs, err := s.loadInstanceForm(ctx, nil)
		if err != nil {
			return fail(err)
		}
		return instanceFormView("Update Book Instance", draft, refs, errs)
	}

	instance, err := s.stores.Instances.Replace(ctx, id, draft)
	if err != nil {
		return fail(classify(entities.KindBookInstance, id, "replace bookinstance", err))
	}
	s.logWrite(entities.KindBookInstance, "update", id)
	return Redirect{Path: instance.URL()}
}

func (s *Service) InstanceDeleteForm(ctx context.Context, id string) Result {
	return s.deleteForm(ctx, entities.KindBookInstance, id, "Delete Book Instance",
		lookup(entities.KindBookInstance, id, s.stores.Instances.Get))
}

// DeleteInstance always deletes; nothing references a copy.
func (s *Service) DeleteInstance(ctx context.Context, id string) Result {
	return s.remove(ctx, entities.KindBookInstance, id, "Delete Book Instance",
		lookup(entities.KindBookInstance, id, s.stores.Instances.Get), s.stores.Instances.Delete)
}
