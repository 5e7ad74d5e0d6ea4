package handler

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dtroode/recipe-server/internal/model"
)

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,max=255"`
}

type tokenRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	Name     *string `json:"name" validate:"omitempty,max=255"`
	Password *string `json:"password"`
}

type userResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

type nameRequest struct {
	Name *string `json:"name"`
}

type nameSpecRequest struct {
	Name string `json:"name"`
}

// recipeRequest serves create, PUT and PATCH. Absent keys decode to nil.
type recipeRequest struct {
	Title         *string            `json:"title"`
	Description   *string            `json:"description"`
	MinutesToMake *int               `json:"minute_to_make_recipe"`
	Price         *decimal.Decimal   `json:"price"`
	Link          *string            `json:"link"`
	Tags          *[]nameSpecRequest `json:"tags"`
	Ingredients   *[]nameSpecRequest `json:"ingredients"`
}

type catalogItemResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type recipeResponse struct {
	ID            int64                 `json:"id"`
	Title         string                `json:"title"`
	MinutesToMake int                   `json:"minute_to_make_recipe"`
	Price         string                `json:"price"`
	Link          string                `json:"link"`
	Tags          []catalogItemResponse `json:"tags"`
	Ingredients   []catalogItemResponse `json:"ingredients"`
}

type recipeDetailResponse struct {
	recipeResponse
	Description string  `json:"description"`
	Image       *string `json:"image"`
}

type recipeImageResponse struct {
	ID    int64   `json:"id"`
	Image *string `json:"image"`
}

func newUserResponse(u model.User) userResponse {
	return userResponse{Email: u.Email, Name: u.Name}
}

func newCatalogItemResponse(item model.CatalogItem) catalogItemResponse {
	return catalogItemResponse{ID: item.ID, Name: item.Name}
}

func newCatalogItemsResponse(items []model.CatalogItem) []catalogItemResponse {
	out := make([]catalogItemResponse, len(items))
	for i, item := range items {
		out[i] = newCatalogItemResponse(item)
	}
	return out
}

func newRecipeResponse(r model.Recipe) recipeResponse {
	return recipeResponse{
		ID:            r.ID,
		Title:         r.Title,
		MinutesToMake: r.MinutesToMake,
		Price:         r.Price.StringFixed(2),
		Link:          r.Link,
		Tags:          newCatalogItemsResponse(r.Tags),
		Ingredients:   newCatalogItemsResponse(r.Ingredients),
	}
}

// imageURL joins baseURL and key; an empty key yields nil.
func imageURL(baseURL, key string) *string {
	if key == "" {
		return nil
	}
	url := strings.TrimRight(baseURL, "/") + "/" + key
	return &url
}

func toNameSpecs(in []nameSpecRequest) []model.NameSpec {
	out := make([]model.NameSpec, len(in))
	for i, spec := range in {
		out[i] = model.NameSpec{Name: spec.Name}
	}
	return out
}

func (req recipeRequest) createParams() model.CreateRecipeParams {
	params := model.CreateRecipeParams{
		Title:         deref(req.Title),
		Description:   deref(req.Description),
		MinutesToMake: deref(req.MinutesToMake),
		Link:          deref(req.Link),
	}
	if req.Price != nil {
		params.Price = *req.Price
	}
	if req.Tags != nil {
		params.Tags = toNameSpecs(*req.Tags)
	}
	if req.Ingredients != nil {
		params.Ingredients = toNameSpecs(*req.Ingredients)
	}
	return params
}

func (req recipeRequest) updateParams() model.UpdateRecipeParams {
	params := model.UpdateRecipeParams{
		Title:         req.Title,
		Description:   req.Description,
		MinutesToMake: req.MinutesToMake,
		Price:         req.Price,
		Link:          req.Link,
	}
	if req.Tags != nil {
		tags := toNameSpecs(*req.Tags)
		params.Tags = &tags
	}
	if req.Ingredients != nil {
		ingredients := toNameSpecs(*req.Ingredients)
		params.Ingredients = &ingredients
	}
	return params
}

// requiredForCreate lists the fields a create or full update must carry.
func (req recipeRequest) requiredForCreate() error {
	return requireFields(map[string]bool{
		"title":                 req.Title != nil,
		"minute_to_make_recipe": req.MinutesToMake != nil,
		"price":                 req.Price != nil,
	})
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
