package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dtroode/recipe-server/internal/model"
)

// pathID reads the {id} URL parameter. Non-numeric ids are treated as unknown.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, model.ErrNotFound
	}
	return id, nil
}

// parseIDList parses a comma-separated list of ids such as "1,2,3".
func parseIDList(field, raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, model.NewValidationError(field, "Enter a comma-separated list of integer ids.")
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func recipeFilter(r *http.Request) (model.RecipeFilter, error) {
	query := r.URL.Query()

	tagIDs, err := parseIDList("tags", query.Get("tags"))
	if err != nil {
		return model.RecipeFilter{}, err
	}
	ingredientIDs, err := parseIDList("ingredients", query.Get("ingredients"))
	if err != nil {
		return model.RecipeFilter{}, err
	}

	return model.RecipeFilter{TagIDs: tagIDs, IngredientIDs: ingredientIDs}, nil
}

// catalogFilter reads ids_assigned; any non-zero integer enables it.
func catalogFilter(r *http.Request) (model.CatalogFilter, error) {
	raw := r.URL.Query().Get("ids_assigned")
	if raw == "" {
		return model.CatalogFilter{}, nil
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return model.CatalogFilter{}, model.NewValidationError("ids_assigned", "A valid integer is required.")
	}
	return model.CatalogFilter{AssignedOnly: n != 0}, nil
}
