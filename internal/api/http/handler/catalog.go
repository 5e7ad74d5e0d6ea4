package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/recipe-server/internal/api/http/render"
	"github.com/dtroode/recipe-server/internal/logger"
	"github.com/dtroode/recipe-server/internal/model"
)

// CatalogService defines tag or ingredient operations scoped to an owner.
type CatalogService interface {
	List(ctx context.Context, ownerID int64, filter model.CatalogFilter) ([]model.CatalogItem, error)
	Get(ctx context.Context, ownerID, id int64) (model.CatalogItem, error)
	Create(ctx context.Context, ownerID int64, name string) (model.CatalogItem, error)
	Rename(ctx context.Context, ownerID, id int64, name string) (model.CatalogItem, error)
	Delete(ctx context.Context, ownerID, id int64) error
}

// Catalog handles /api/recipe/tags and /api/recipe/ingredients.
type Catalog struct {
	service        CatalogService
	contextManager model.ContextManager
	logger         *logger.Logger
}

func NewCatalog(service CatalogService, contextManager model.ContextManager, logger *logger.Logger) *Catalog {
	return &Catalog{
		service:        service,
		contextManager: contextManager,
		logger:         logger,
	}
}

func (h *Catalog) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrUnauthenticated)
		return
	}

	filter, err := catalogFilter(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	items, err := h.service.List(r.Context(), ownerID, filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	render.JSON(w, http.StatusOK, newCatalogItemsResponse(items))
}

// Create returns the existing item when the name is already taken by the owner.
func (h *Catalog) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrUnauthenticated)
		return
	}

	var req nameRequest
	if err := render.Decode(r, &req); err != nil {
		badJSON(w, err)
		return
	}
	if err := requireFields(map[string]bool{"name": req.Name != nil}); err != nil {
		writeError(w, h.logger, err)
		return
	}

	item, err := h.service.Create(r.Context(), ownerID, *req.Name)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	render.JSON(w, http.StatusCreated, newCatalogItemResponse(item))
}

func (h *Catalog) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrUnauthenticated)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	item, err := h.service.Get(r.Context(), ownerID, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	render.JSON(w, http.StatusOK, newCatalogItemResponse(item))
}

func (h *Catalog) Put(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *Catalog) Patch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *Catalog) update(w http.ResponseWriter, r *http.Request, partial bool) {
	ownerID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrUnauthenticated)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req nameRequest
	if err := render.Decode(r, &req); err != nil {
		badJSON(w, err)
		return
	}

	var item model.CatalogItem
	switch {
	case req.Name != nil:
		item, err = h.service.Rename(r.Context(), ownerID, id, *req.Name)
	case partial:
		item, err = h.service.Get(r.Context(), ownerID, id)
	default:
		err = requireFields(map[string]bool{"name": false})
	}
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	render.JSON(w, http.StatusOK, newCatalogItemResponse(item))
}

func (h *Catalog) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrUnauthenticated)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if err := h.service.Delete(r.Context(), ownerID, id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	render.JSON(w, http.StatusNoContent, nil)
}
