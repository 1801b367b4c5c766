package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/catalog"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/metrics"
	"github.com/mrlokans/librarian/internal/validation"
)

// Workflow actions, used for routing and metric labels.
const (
	actionIndex      = "index"
	actionList       = "list"
	actionDetail     = "detail"
	actionCreateForm = "create_form"
	actionCreate     = "create"
	actionUpdateForm = "update_form"
	actionUpdate     = "update"
	actionDeleteForm = "delete_form"
	actionDelete     = "delete"
)

// entityWorkflows binds one entity kind to its catalog workflows.
type entityWorkflows struct {
	kind       entities.Kind
	list       func(context.Context) catalog.Result
	detail     func(context.Context, string) catalog.Result
	createForm func(context.Context) catalog.Result
	create     func(context.Context, validation.Input) catalog.Result
	updateForm func(context.Context, string) catalog.Result
	update     func(context.Context, string, validation.Input) catalog.Result
	deleteForm func(context.Context, string) catalog.Result
	delete     func(context.Context, string) catalog.Result
}

// CatalogController translates HTTP requests into catalog workflows and
// workflow results into responses.
type CatalogController struct {
	service *catalog.Service
	metrics *metrics.Recorder
}

func NewCatalogController(service *catalog.Service, recorder *metrics.Recorder) *CatalogController {
	return &CatalogController{service: service, metrics: recorder}
}

func (cc *CatalogController) workflows() []entityWorkflows {
	s := cc.service
	return []entityWorkflows{
		{
			kind: entities.KindAuthor, list: s.ListAuthors, detail: s.AuthorDetail,
			createForm: s.AuthorCreateForm, create: s.CreateAuthor,
			updateForm: s.AuthorUpdateForm, update: s.UpdateAuthor,
			deleteForm: s.AuthorDeleteForm, delete: s.DeleteAuthor,
		},
		{
			kind: entities.KindGenre, list: s.ListGenres, detail: s.GenreDetail,
			createForm: s.GenreCreateForm, create: s.CreateGenre,
			updateForm: s.GenreUpdateForm, update: s.UpdateGenre,
			deleteForm: s.GenreDeleteForm, delete: s.DeleteGenre,
		},
		{
			kind: entities.KindBook, list: s.ListBooks, detail: s.BookDetail,
			createForm: s.BookCreateForm, create: s.CreateBook,
			updateForm: s.BookUpdateForm, update: s.UpdateBook,
			deleteForm: s.BookDeleteForm, delete: s.DeleteBook,
		},
		{
			kind: entities.KindBookInstance, list: s.ListInstances, detail: s.InstanceDetail,
			createForm: s.InstanceCreateForm, create: s.CreateInstance,
			updateForm: s.InstanceUpdateForm, update: s.UpdateInstance,
			deleteForm: s.InstanceDeleteForm, delete: s.DeleteInstance,
		},
	}
}

// RegisterRoutes mounts the catalog under /catalog:
//
//	GET  /catalog
//	GET  /catalog/<kind>s
//	GET  /catalog/<kind>/create       POST /catalog/<kind>/create
//	GET  /catalog/<kind>/:id
//	GET  /catalog/<kind>/:id/update   POST /catalog/<kind>/:id/update
//	GET  /catalog/<kind>/:id/delete   POST /catalog/<kind>/:id/delete
func (cc *CatalogController) RegisterRoutes(router gin.IRouter) {
	group := router.Group("/catalog")
	group.GET("", cc.handle("catalog", actionIndex, func(c *gin.Context) catalog.Result {
		return cc.service.Index(c.Request.Context())
	}))

	for _, wf := range cc.workflows() {
		kind := string(wf.kind)

		group.GET("/"+kind+"s", cc.handle(kind, actionList, func(c *gin.Context) catalog.Result {
			return wf.list(c.Request.Context())
		}))
		group.GET("/"+kind+"/create", cc.handle(kind, actionCreateForm, func(c *gin.Context) catalog.Result {
			return wf.createForm(c.Request.Context())
		}))
		group.POST("/"+kind+"/create", cc.handleForm(kind, actionCreate, func(c *gin.Context, in validation.Input) catalog.Result {
			return wf.create(c.Request.Context(), in)
		}))
		group.GET("/"+kind+"/:id", cc.handle(kind, actionDetail, func(c *gin.Context) catalog.Result {
			return wf.detail(c.Request.Context(), c.Param("id"))
		}))
		group.GET("/"+kind+"/:id/update", cc.handle(kind, actionUpdateForm, func(c *gin.Context) catalog.Result {
			return wf.updateForm(c.Request.Context(), c.Param("id"))
		}))
		group.POST("/"+kind+"/:id/update", cc.handleForm(kind, actionUpdate, func(c *gin.Context, in validation.Input) catalog.Result {
			return wf.update(c.Request.Context(), c.Param("id"), in)
		}))
		group.GET("/"+kind+"/:id/delete", cc.handle(kind, actionDeleteForm, func(c *gin.Context) catalog.Result {
			return wf.deleteForm(c.Request.Context(), c.Param("id"))
		}))
		group.POST("/"+kind+"/:id/delete", cc.handle(kind, actionDelete, func(c *gin.Context) catalog.Result {
			return wf.delete(c.Request.Context(), c.Param("id"))
		}))
	}
}

func (cc *CatalogController) handle(entity, action string, run func(*gin.Context) catalog.Result) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		outcome := cc.respond(c, entity, action, run(c))
		cc.metrics.Observe(entity, action, outcome, time.Since(started))
	}
}

func (cc *CatalogController) handleForm(entity, action string, run func(*gin.Context, validation.Input) catalog.Result) gin.HandlerFunc {
	return cc.handle(entity, action, func(c *gin.Context) catalog.Result {
		in, ok := formInput(c)
		if !ok {
			return nil
		}
		return run(c, in)
	})
}

// respond delivers a workflow result and returns its metric outcome.
//
//	Render   -> 200 (422 for a rejected submission, 409 for a blocked delete)
//	Redirect -> 303 See Other
//	Failure  -> 404 when the target does not exist, 500 otherwise
func (cc *CatalogController) respond(c *gin.Context, entity, action string, result catalog.Result) string {
	switch r := result.(type) {
	case nil:
		// request rejected before reaching the workflow
		return metrics.OutcomeError
	case catalog.Render:
		status := http.StatusOK
		switch action {
		case actionCreate, actionUpdate:
			status = http.StatusUnprocessableEntity
		case actionDelete:
			status = http.StatusConflict
			cc.metrics.DeleteBlocked(entity)
		}
		renderView(c, status, r)
		return metrics.OutcomeRender
	case catalog.Redirect:
		c.Redirect(http.StatusSeeOther, r.Path)
		return metrics.OutcomeRedirect
	case catalog.Failure:
		// a malformed id cannot name an entity either
		if errors.Is(r, catalog.ErrNotFound) || catalog.IsInvalidID(r) {
			respondNotFound(c, entity)
			return metrics.OutcomeNotFound
		}
		respondInternalError(c, r.Cause, entity+" "+action)
		return metrics.OutcomeError
	default:
		respondInternalError(c, errors.New("unknown workflow result"), entity+" "+action)
		return metrics.OutcomeError
	}
}

// renderView executes the view template when templates are loaded and
// falls back to a JSON body naming the view.
func renderView(c *gin.Context, status int, r catalog.Render) {
	if !hasTemplates(c) {
		c.JSON(status, ViewResponse{View: r.View, Data: r.Data})
		return
	}
	data := gin.H{}
	for k, v := range r.Data {
		data[k] = v
	}
	data["csrf_token"] = csrfToken(c)
	data["csrf_field"] = CSRFFieldName
	c.HTML(status, r.View+".html", data)
}
