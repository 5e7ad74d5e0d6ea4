package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/dtroode/recipe-server/internal/api/http/render"
	"github.com/dtroode/recipe-server/internal/logger"
	"github.com/dtroode/recipe-server/internal/model"
)

const imageField = "image"

// RecipeService defines recipe operations scoped to an owner.
type RecipeService interface {
	List(ctx context.Context, ownerID int64, filter model.RecipeFilter) ([]model.Recipe, error)
	Get(ctx context.Context, ownerID, id int64) (model.Recipe, error)
	Create(ctx context.Context, ownerID int64, params model.CreateRecipeParams) (model.Recipe, error)
	Update(ctx context.Context, ownerID, id int64, params model.UpdateRecipeParams) (model.Recipe, error)
	Delete(ctx context.Context, ownerID, id int64) error
	UploadImage(ctx context.Context, ownerID, id int64, upload model.ImageUpload) (model.Recipe, error)
}

// Recipe handles /api/recipe/recipes.
type Recipe struct {
	service        RecipeService
	contextManager model.ContextManager
	mediaURL       string
	maxUploadBytes int64
	logger         *logger.Logger
}

// NewRecipe creates a Recipe handler. Image keys are rendered as URLs under
// mediaURL; uploads larger than maxUploadBytes are rejected.
func NewRecipe(service RecipeService, contextManager model.ContextManager, mediaURL string, maxUploadBytes int64, logger *logger.Logger) *Recipe {
	return &Recipe{
		service:        service,
		contextManager: contextManager,
		mediaURL:       mediaURL,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

// List omits description and image from each recipe.
func (h *Recipe) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrUnauthenticated)
		return
	}

	filter, err := recipeFilter(r)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	recipes, err := h.service.List(r.Context(), ownerID, filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	out := make([]recipeResponse, len(recipes))
	for i, recipe := range recipes {
		out[i] = newRecipeResponse(recipe)
	}
	render.JSON(w, http.StatusOK, out)
}

func (h *Recipe) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.contextManager.GetUserIDFromContext(r.Context())
	if !ok {
		writeError(w, h.logger, model.ErrUnauthenticated)
		return
	}

	var req recipeRequest
	if err := render.Decode(r, &req); err != nil {
		badJSON(w, err)
		return
	}
	if err := req.requiredForCreate(); err != nil {
		writeError(w, h.logger, err)
		return
	}

	recipe, err := h.service.Create(r.Context(), ownerID, req.createParams())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	render.JSON(w, http.StatusCreated, h.detail(recipe))
}

func (h *Recipe) Get(w http.ResponseWriter, r *http.Request) {
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

	recipe, err := h.service.Get(r.Context(), ownerID, id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	render.JSON(w, http.StatusOK, h.detail(recipe))
}

// Put replaces the recipe; title, minutes and price are required.
func (h *Recipe) Put(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, false)
}

func (h *Recipe) Patch(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, true)
}

func (h *Recipe) update(w http.ResponseWriter, r *http.Request, partial bool) {
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

	var req recipeRequest
	if err := render.Decode(r, &req); err != nil {
		badJSON(w, err)
		return
	}
	if !partial {
		if err := req.requiredForCreate(); err != nil {
			writeError(w, h.logger, err)
			return
		}
	}

	recipe, err := h.service.Update(r.Context(), ownerID, id, req.updateParams())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	render.JSON(w, http.StatusOK, h.detail(recipe))
}

func (h *Recipe) Delete(w http.ResponseWriter, r *http.Request) {
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

// UploadImage reads the multipart field "image" and stores it as the recipe image.
func (h *Recipe) UploadImage(w http.ResponseWriter, r *http.Request) {
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

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, h.logger, model.NewValidationError(imageField, "The submitted file is too large."))
			return
		}
		writeError(w, h.logger, model.NewValidationError(imageField, "The submitted data was not a file. Check the encoding type on the form."))
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(imageField)
	if err != nil {
		writeError(w, h.logger, model.NewValidationError(imageField, "No file was submitted."))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	recipe, err := h.service.UploadImage(r.Context(), ownerID, id, model.ImageUpload{
		Filename: header.Filename,
		Data:     data,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	render.JSON(w, http.StatusOK, recipeImageResponse{ID: recipe.ID, Image: imageURL(h.mediaURL, recipe.Image)})
}

func (h *Recipe) detail(recipe model.Recipe) recipeDetailResponse {
	return recipeDetailResponse{
		recipeResponse: newRecipeResponse(recipe),
		Description:    recipe.Description,
		Image:          imageURL(h.mediaURL, recipe.Image),
	}
}
