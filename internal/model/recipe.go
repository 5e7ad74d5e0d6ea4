package model

import (
	"context"

	"github.com/shopspring/decimal"
)

// Recipe is owned by exactly one user; all attached items share that owner.
type Recipe struct {
	ID            int64
	OwnerID       int64
	Title         string
	Description   string
	MinutesToMake int
	Price         decimal.Decimal
	Link          string
	Image         string
	Tags          []CatalogItem
	Ingredients   []CatalogItem
}

type RecipeFilter struct {
	TagIDs        []int64
	IngredientIDs []int64
}

type CreateRecipeParams struct {
	Title         string
	Description   string
	MinutesToMake int
	Price         decimal.Decimal
	Link          string
	Tags          []NameSpec
	Ingredients   []NameSpec
}

// UpdateRecipeParams holds a partial update. A nil Tags or Ingredients leaves
// the association as is; a non-nil empty slice clears it.
type UpdateRecipeParams struct {
	Title         *string
	Description   *string
	MinutesToMake *int
	Price         *decimal.Decimal
	Link          *string
	Tags          *[]NameSpec
	Ingredients   *[]NameSpec
}

type ImageUpload struct {
	Filename string
	Data     []byte
}

// RecipeStore persists recipes. Every call is scoped to ownerID.
type RecipeStore interface {
	List(ctx context.Context, ownerID int64, filter RecipeFilter) ([]Recipe, error)
	GetByID(ctx context.Context, ownerID, id int64) (Recipe, error)
	Create(ctx context.Context, recipe Recipe) (Recipe, error)
	Update(ctx context.Context, recipe Recipe) (Recipe, error)
	// SetImage stores image and returns the key it replaced.
	SetImage(ctx context.Context, ownerID, id int64, image string) (string, error)
	Delete(ctx context.Context, ownerID, id int64) error
	AttachItem(ctx context.Context, ownerID, recipeID int64, kind CatalogKind, itemID int64) error
	ClearItems(ctx context.Context, ownerID, recipeID int64, kind CatalogKind) error
}
