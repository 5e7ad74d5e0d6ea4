package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dtroode/recipe-server/internal/logger"
	"github.com/dtroode/recipe-server/internal/metrics"
	"github.com/dtroode/recipe-server/internal/model"
)

const (
	msgFieldBlank      = "This field may not be blank."
	msgTooLong         = "Ensure this field has no more than 255 characters."
	msgMinutesNegative = "Ensure this value is greater than or equal to 0."
	msgPricePlaces     = "Ensure that there are no more than 2 decimal places."
	msgPriceWhole      = "Ensure that there are no more than 3 digits before the decimal point."
)

var maxPrice = decimal.NewFromInt(1000)

type Recipe struct {
	recipes  model.RecipeStore
	catalogs map[model.CatalogKind]model.CatalogStore
	tx       model.Transactor
	storage  model.Storage
	logger   *logger.Logger
}

func NewRecipe(
	recipes model.RecipeStore,
	tags model.CatalogStore,
	ingredients model.CatalogStore,
	tx model.Transactor,
	storage model.Storage,
	logger *logger.Logger,
) *Recipe {
	return &Recipe{
		recipes: recipes,
		catalogs: map[model.CatalogKind]model.CatalogStore{
			model.KindTag:        tags,
			model.KindIngredient: ingredients,
		},
		tx:      tx,
		storage: storage,
		logger:  logger,
	}
}

func (s *Recipe) List(ctx context.Context, ownerID int64, filter model.RecipeFilter) ([]model.Recipe, error) {
	recipes, err := s.recipes.List(ctx, ownerID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

func (s *Recipe) Get(ctx context.Context, ownerID, id int64) (model.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, ownerID, id)
	if err != nil {
		return model.Recipe{}, fmt.Errorf("failed to get recipe: %w", err)
	}
	return recipe, nil
}

// Create stores the recipe and attaches its tags and ingredients in one
// transaction, creating missing ones for the owner.
func (s *Recipe) Create(ctx context.Context, ownerID int64, params model.CreateRecipeParams) (model.Recipe, error) {
	recipe := model.Recipe{
		OwnerID:       ownerID,
		Title:         strings.TrimSpace(params.Title),
		Description:   params.Description,
		MinutesToMake: params.MinutesToMake,
		Price:         params.Price,
		Link:          strings.TrimSpace(params.Link),
	}
	if err := validateRecipe(recipe); err != nil {
		return model.Recipe{}, err
	}

	tags, err := cleanSpecs("tags", params.Tags)
	if err != nil {
		return model.Recipe{}, err
	}
	ingredients, err := cleanSpecs("ingredients", params.Ingredients)
	if err != nil {
		return model.Recipe{}, err
	}

	var created model.Recipe
	newItems := createdItems{}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		saved, err := s.recipes.Create(ctx, recipe)
		if err != nil {
			return err
		}
		if err := s.reconcile(ctx, ownerID, saved.ID, model.KindTag, tags, newItems); err != nil {
			return err
		}
		if err := s.reconcile(ctx, ownerID, saved.ID, model.KindIngredient, ingredients, newItems); err != nil {
			return err
		}
		created, err = s.recipes.GetByID(ctx, ownerID, saved.ID)
		return err
	})
	if err != nil {
		s.logger.Error("Recipe service: failed to create recipe",
			"owner_id", ownerID,
			"error", err.Error())
		return model.Recipe{}, fmt.Errorf("failed to create recipe: %w", err)
	}
	newItems.report()

	s.logger.Debug("Recipe service: recipe created",
		"owner_id", ownerID,
		"recipe_id", created.ID)
	return created, nil
}

// Update applies the set fields of params. A non-nil Tags or Ingredients
// replaces that association entirely.
func (s *Recipe) Update(ctx context.Context, ownerID, id int64, params model.UpdateRecipeParams) (model.Recipe, error) {
	var tags, ingredients []model.NameSpec
	var err error
	if params.Tags != nil {
		if tags, err = cleanSpecs("tags", *params.Tags); err != nil {
			return model.Recipe{}, err
		}
	}
	if params.Ingredients != nil {
		if ingredients, err = cleanSpecs("ingredients", *params.Ingredients); err != nil {
			return model.Recipe{}, err
		}
	}

	var updated model.Recipe
	newItems := createdItems{}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		recipe, err := s.recipes.GetByID(ctx, ownerID, id)
		if err != nil {
			return err
		}

		applyRecipeUpdate(&recipe, params)
		if err := validateRecipe(recipe); err != nil {
			return err
		}

		if _, err := s.recipes.Update(ctx, recipe); err != nil {
			return err
		}

		if params.Tags != nil {
			if err := s.replaceItems(ctx, ownerID, id, model.KindTag, tags, newItems); err != nil {
				return err
			}
		}
		if params.Ingredients != nil {
			if err := s.replaceItems(ctx, ownerID, id, model.KindIngredient, ingredients, newItems); err != nil {
				return err
			}
		}

		updated, err = s.recipes.GetByID(ctx, ownerID, id)
		return err
	})
	if err != nil {
		return model.Recipe{}, fmt.Errorf("failed to update recipe: %w", err)
	}
	newItems.report()

	return updated, nil
}

// Delete removes the recipe; its tags and ingredients stay in the catalog.
func (s *Recipe) Delete(ctx context.Context, ownerID, id int64) error {
	recipe, err := s.recipes.GetByID(ctx, ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to get recipe: %w", err)
	}

	if err := s.recipes.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	s.removeImage(ctx, recipe.Image)
	return nil
}

// UploadImage replaces the recipe image. The object the update displaced is
// removed only after the new one is stored and referenced.
func (s *Recipe) UploadImage(ctx context.Context, ownerID, id int64, upload model.ImageUpload) (model.Recipe, error) {
	recipe, err := s.recipes.GetByID(ctx, ownerID, id)
	if err != nil {
		return model.Recipe{}, fmt.Errorf("failed to get recipe: %w", err)
	}

	mt, err := inspectImage(upload.Data)
	if err != nil {
		metrics.ImageUploads.WithLabelValues("rejected").Inc()
		return model.Recipe{}, err
	}

	key := imageObjectKey(upload.Filename, mt)
	if err := s.storage.Upload(ctx, key, bytes.NewReader(upload.Data), int64(len(upload.Data)), mt.String()); err != nil {
		metrics.ImageUploads.WithLabelValues("failed").Inc()
		s.logger.Error("Recipe service: failed to upload image",
			"recipe_id", id,
			"error", err.Error())
		return model.Recipe{}, fmt.Errorf("failed to upload image: %w", err)
	}

	previous, err := s.recipes.SetImage(ctx, ownerID, id, key)
	if err != nil {
		metrics.ImageUploads.WithLabelValues("failed").Inc()
		s.removeImage(ctx, key)
		return model.Recipe{}, fmt.Errorf("failed to set recipe image: %w", err)
	}

	s.removeImage(ctx, previous)
	metrics.ImageUploads.WithLabelValues("stored").Inc()

	recipe.Image = key
	return recipe, nil
}

// reconcile attaches each named item to the recipe, creating it for the owner
// when missing. Repeated names attach once. Newly created items are counted
// in created.
func (s *Recipe) reconcile(ctx context.Context, ownerID, recipeID int64, kind model.CatalogKind, specs []model.NameSpec, created createdItems) error {
	store := s.catalogs[kind]
	for _, spec := range specs {
		item, isNew, err := store.GetOrCreate(ctx, ownerID, spec.Name)
		if err != nil {
			return fmt.Errorf("failed to resolve %s %q: %w", kind, spec.Name, err)
		}
		if isNew {
			created[kind]++
		}
		if err := s.recipes.AttachItem(ctx, ownerID, recipeID, kind, item.ID); err != nil {
			return fmt.Errorf("failed to attach %s %q: %w", kind, spec.Name, err)
		}
	}
	return nil
}

func (s *Recipe) replaceItems(ctx context.Context, ownerID, recipeID int64, kind model.CatalogKind, specs []model.NameSpec, created createdItems) error {
	if err := s.recipes.ClearItems(ctx, ownerID, recipeID, kind); err != nil {
		return err
	}
	return s.reconcile(ctx, ownerID, recipeID, kind, specs, created)
}

// createdItems counts catalog items created inside a transaction. It is
// reported only once the transaction commits.
type createdItems map[model.CatalogKind]int

func (c createdItems) report() {
	for kind, n := range c {
		metrics.CatalogItemsCreated.WithLabelValues(string(kind)).Add(float64(n))
	}
}

func (s *Recipe) removeImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		s.logger.Warn("Recipe service: failed to remove image",
			"key", key,
			"error", err.Error())
	}
}

func applyRecipeUpdate(recipe *model.Recipe, params model.UpdateRecipeParams) {
	if params.Title != nil {
		recipe.Title = strings.TrimSpace(*params.Title)
	}
	if params.Description != nil {
		recipe.Description = *params.Description
	}
	if params.MinutesToMake != nil {
		recipe.MinutesToMake = *params.MinutesToMake
	}
	if params.Price != nil {
		recipe.Price = *params.Price
	}
	if params.Link != nil {
		recipe.Link = strings.TrimSpace(*params.Link)
	}
}

func validateRecipe(recipe model.Recipe) error {
	verr := &model.ValidationError{}

	switch {
	case recipe.Title == "":
		verr.Add("title", msgFieldBlank)
	case len([]rune(recipe.Title)) > maxNameLength:
		verr.Add("title", msgTooLong)
	}
	if recipe.MinutesToMake < 0 {
		verr.Add("minute_to_make_recipe", msgMinutesNegative)
	}
	if recipe.Price.Exponent() < -2 {
		verr.Add("price", msgPricePlaces)
	}
	if recipe.Price.Abs().GreaterThanOrEqual(maxPrice) {
		verr.Add("price", msgPriceWhole)
	}
	if len([]rune(recipe.Link)) > maxNameLength {
		verr.Add("link", msgTooLong)
	}

	if verr.Empty() {
		return nil
	}
	return verr
}

func cleanSpecs(field string, specs []model.NameSpec) ([]model.NameSpec, error) {
	cleaned := make([]model.NameSpec, 0, len(specs))
	for _, spec := range specs {
		name, err := cleanName(field, spec.Name)
		if err != nil {
			return nil, err
		}
		cleaned = append(cleaned, model.NameSpec{Name: name})
	}
	return cleaned, nil
}
