package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/recipe-server/internal/metrics"
	"github.com/dtroode/recipe-server/internal/mocks"
	"github.com/dtroode/recipe-server/internal/model"
	"github.com/dtroode/recipe-server/internal/testutil"
)

const (
	owner = int64(1)
	other = int64(2)
)

type recipeFixture struct {
	service     *Recipe
	recipes     *memRecipes
	tags        *memCatalog
	ingredients *memCatalog
	storage     *mocks.Storage
}

func newRecipeFixture(t *testing.T) *recipeFixture {
	var nextID int64
	tags := newMemCatalog(&nextID)
	ingredients := newMemCatalog(&nextID)
	recipes := newMemRecipes(&nextID, tags, ingredients)
	storage := mocks.NewStorage(t)

	return &recipeFixture{
		service:     NewRecipe(recipes, tags, ingredients, testutil.InlineTransactor{}, storage, testutil.MakeNoopLogger()),
		recipes:     recipes,
		tags:        tags,
		ingredients: ingredients,
		storage:     storage,
	}
}

func sampleParams() model.CreateRecipeParams {
	return model.CreateRecipeParams{
		Title:         "Sample recipe",
		MinutesToMake: 22,
		Price:         decimal.RequireFromString("5.25"),
	}
}

func names(items []model.CatalogItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.Name
	}
	return out
}

func specs(names ...string) []model.NameSpec {
	out := make([]model.NameSpec, len(names))
	for i, n := range names {
		out[i] = model.NameSpec{Name: n}
	}
	return out
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 10))))
	return buf.Bytes()
}

func TestRecipe_CreateWithNewTags(t *testing.T) {
	f := newRecipeFixture(t)
	params := sampleParams()
	params.Tags = specs("Thai", "Dinner")

	recipe, err := f.service.Create(context.Background(), owner, params)
	require.NoError(t, err)

	assert.Equal(t, []string{"Dinner", "Thai"}, names(recipe.Tags))
	assert.Equal(t, 2, f.tags.count(owner))
	for _, tag := range recipe.Tags {
		assert.Equal(t, owner, tag.OwnerID)
	}
}

func TestRecipe_CreateReusesExistingTag(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	existing, _, err := f.tags.GetOrCreate(ctx, owner, "Breakfast")
	require.NoError(t, err)

	params := sampleParams()
	params.Tags = specs("Breakfast", "Indian")
	recipe, err := f.service.Create(ctx, owner, params)
	require.NoError(t, err)

	assert.Equal(t, 2, f.tags.count(owner))
	require.Len(t, recipe.Tags, 2)
	assert.Equal(t, existing.ID, recipe.Tags[0].ID)
}

func TestRecipe_CreateDuplicateNamesAttachOnce(t *testing.T) {
	f := newRecipeFixture(t)
	params := sampleParams()
	params.Ingredients = specs("Salt", "Salt", " Salt ")

	recipe, err := f.service.Create(context.Background(), owner, params)
	require.NoError(t, err)

	assert.Equal(t, []string{"Salt"}, names(recipe.Ingredients))
	assert.Equal(t, 1, f.ingredients.count(owner))
}

func TestRecipe_SameNameDifferentOwners(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	params := sampleParams()
	params.Tags = specs("Vegan")

	mine, err := f.service.Create(ctx, owner, params)
	require.NoError(t, err)
	theirs, err := f.service.Create(ctx, other, params)
	require.NoError(t, err)

	require.Len(t, mine.Tags, 1)
	require.Len(t, theirs.Tags, 1)
	assert.NotEqual(t, mine.Tags[0].ID, theirs.Tags[0].ID)
	assert.Equal(t, other, theirs.Tags[0].OwnerID)
}

func TestRecipe_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*model.CreateRecipeParams)
		field  string
	}{
		{name: "blank title", modify: func(p *model.CreateRecipeParams) { p.Title = "   " }, field: "title"},
		{name: "long title", modify: func(p *model.CreateRecipeParams) { p.Title = strings.Repeat("a", 256) }, field: "title"},
		{name: "negative minutes", modify: func(p *model.CreateRecipeParams) { p.MinutesToMake = -1 }, field: "minute_to_make_recipe"},
		{name: "too many decimal places", modify: func(p *model.CreateRecipeParams) { p.Price = decimal.RequireFromString("1.234") }, field: "price"},
		{name: "too many whole digits", modify: func(p *model.CreateRecipeParams) { p.Price = decimal.RequireFromString("1000.00") }, field: "price"},
		{name: "blank tag name", modify: func(p *model.CreateRecipeParams) { p.Tags = specs("ok", " ") }, field: "tags"},
		{name: "blank ingredient name", modify: func(p *model.CreateRecipeParams) { p.Ingredients = specs("") }, field: "ingredients"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newRecipeFixture(t)
			params := sampleParams()
			tt.modify(&params)

			_, err := f.service.Create(context.Background(), owner, params)
			requireFieldError(t, err, tt.field)
			assert.Empty(t, f.recipes.recipes)
			assert.Zero(t, f.tags.count(owner))
		})
	}
}

func TestRecipe_UpdateTags(t *testing.T) {
	ctx := context.Background()

	t.Run("replace with new tag", func(t *testing.T) {
		f := newRecipeFixture(t)
		params := sampleParams()
		params.Tags = specs("Breakfast")
		recipe, err := f.service.Create(ctx, owner, params)
		require.NoError(t, err)

		newTags := specs("Lunch")
		updated, err := f.service.Update(ctx, owner, recipe.ID, model.UpdateRecipeParams{Tags: &newTags})
		require.NoError(t, err)

		assert.Equal(t, []string{"Lunch"}, names(updated.Tags))
		assert.Equal(t, 2, f.tags.count(owner))
	})

	t.Run("empty list clears but keeps tags", func(t *testing.T) {
		f := newRecipeFixture(t)
		params := sampleParams()
		params.Tags = specs("Dessert")
		recipe, err := f.service.Create(ctx, owner, params)
		require.NoError(t, err)

		empty := []model.NameSpec{}
		updated, err := f.service.Update(ctx, owner, recipe.ID, model.UpdateRecipeParams{Tags: &empty})
		require.NoError(t, err)

		assert.Empty(t, updated.Tags)
		assert.Equal(t, 1, f.tags.count(owner))
	})

	t.Run("absent tags leave association", func(t *testing.T) {
		f := newRecipeFixture(t)
		params := sampleParams()
		params.Tags = specs("Dessert")
		params.Ingredients = specs("Sugar")
		recipe, err := f.service.Create(ctx, owner, params)
		require.NoError(t, err)

		title := "New title"
		updated, err := f.service.Update(ctx, owner, recipe.ID, model.UpdateRecipeParams{Title: &title})
		require.NoError(t, err)

		assert.Equal(t, "New title", updated.Title)
		assert.Equal(t, []string{"Dessert"}, names(updated.Tags))
		assert.Equal(t, []string{"Sugar"}, names(updated.Ingredients))
	})
}

func TestRecipe_UpdateScalars(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	params := sampleParams()
	params.Link = "https://example.com/recipe.pdf"
	recipe, err := f.service.Create(ctx, owner, params)
	require.NoError(t, err)

	title := "New recipe title"
	minutes := 10
	price := decimal.RequireFromString("2.50")
	updated, err := f.service.Update(ctx, owner, recipe.ID, model.UpdateRecipeParams{Title: &title, MinutesToMake: &minutes, Price: &price})
	require.NoError(t, err)

	assert.Equal(t, title, updated.Title)
	assert.Equal(t, 10, updated.MinutesToMake)
	assert.True(t, price.Equal(updated.Price))
	assert.Equal(t, params.Link, updated.Link)
	assert.Equal(t, owner, updated.OwnerID)
}

func TestRecipe_OtherOwnerCannotReach(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	recipe, err := f.service.Create(ctx, owner, sampleParams())
	require.NoError(t, err)

	_, err = f.service.Get(ctx, other, recipe.ID)
	require.ErrorIs(t, err, model.ErrNotFound)

	title := "hijack"
	_, err = f.service.Update(ctx, other, recipe.ID, model.UpdateRecipeParams{Title: &title})
	require.ErrorIs(t, err, model.ErrNotFound)

	err = f.service.Delete(ctx, other, recipe.ID)
	require.ErrorIs(t, err, model.ErrNotFound)

	got, err := f.service.Get(ctx, owner, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sample recipe", got.Title)
}

func TestRecipe_DeleteKeepsCatalog(t *testing.T) {
	f := newRecipeFixture(t)
	ctx := context.Background()
	params := sampleParams()
	params.Tags = specs("Keep")
	recipe, err := f.service.Create(ctx, owner, params)
	require.NoError(t, err)

	require.NoError(t, f.service.Delete(ctx, owner, recipe.ID))

	_, err = f.service.Get(ctx, owner, recipe.ID)
	require.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, 1, f.tags.count(owner))
}

func TestRecipe_UploadImage(t *testing.T) {
	ctx := context.Background()

	t.Run("stores image and replaces previous", func(t *testing.T) {
		f := newRecipeFixture(t)
		recipe, err := f.service.Create(ctx, owner, sampleParams())
		require.NoError(t, err)
		_, err = f.recipes.SetImage(ctx, owner, recipe.ID, "uploads/recipe/old.png")
		require.NoError(t, err)

		data := pngBytes(t)
		f.storage.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "uploads/recipe/") && strings.HasSuffix(key, ".png")
		}), mock.Anything, int64(len(data)), "image/png").Return(nil)
		f.storage.On("Delete", mock.Anything, "uploads/recipe/old.png").Return(nil)

		updated, err := f.service.UploadImage(ctx, owner, recipe.ID, model.ImageUpload{Filename: "photo.png", Data: data})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(updated.Image, "uploads/recipe/"))

		stored, err := f.service.Get(ctx, owner, recipe.ID)
		require.NoError(t, err)
		assert.Equal(t, updated.Image, stored.Image)
	})

	t.Run("rejects non image", func(t *testing.T) {
		f := newRecipeFixture(t)
		recipe, err := f.service.Create(ctx, owner, sampleParams())
		require.NoError(t, err)
		_, err = f.recipes.SetImage(ctx, owner, recipe.ID, "uploads/recipe/old.png")
		require.NoError(t, err)

		_, err = f.service.UploadImage(ctx, owner, recipe.ID, model.ImageUpload{Filename: "x.png", Data: []byte("notanimage")})
		requireFieldError(t, err, "image")

		stored, err := f.service.Get(ctx, owner, recipe.ID)
		require.NoError(t, err)
		assert.Equal(t, "uploads/recipe/old.png", stored.Image)
	})

	t.Run("storage failure keeps previous", func(t *testing.T) {
		f := newRecipeFixture(t)
		recipe, err := f.service.Create(ctx, owner, sampleParams())
		require.NoError(t, err)

		f.storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("minio down"))

		_, err = f.service.UploadImage(ctx, owner, recipe.ID, model.ImageUpload{Filename: "x.png", Data: pngBytes(t)})
		require.Error(t, err)

		stored, err := f.service.Get(ctx, owner, recipe.ID)
		require.NoError(t, err)
		assert.Empty(t, stored.Image)
	})

	t.Run("foreign recipe", func(t *testing.T) {
		f := newRecipeFixture(t)
		recipe, err := f.service.Create(ctx, owner, sampleParams())
		require.NoError(t, err)

		_, err = f.service.UploadImage(ctx, other, recipe.ID, model.ImageUpload{Filename: "x.png", Data: pngBytes(t)})
		require.ErrorIs(t, err, model.ErrNotFound)
	})
}

// concurrentUploadRecipes commits another upload between the read and the
// image swap of the upload under test.
type concurrentUploadRecipes struct {
	*memRecipes
	racingKey string
}

func (c *concurrentUploadRecipes) SetImage(ctx context.Context, ownerID, id int64, image string) (string, error) {
	if _, err := c.memRecipes.SetImage(ctx, ownerID, id, c.racingKey); err != nil {
		return "", err
	}
	return c.memRecipes.SetImage(ctx, ownerID, id, image)
}

func TestRecipe_UploadImage_RemovesDisplacedKey(t *testing.T) {
	ctx := context.Background()
	f := newRecipeFixture(t)
	recipe, err := f.service.Create(ctx, owner, sampleParams())
	require.NoError(t, err)
	_, err = f.recipes.SetImage(ctx, owner, recipe.ID, "uploads/recipe/old.png")
	require.NoError(t, err)

	store := &concurrentUploadRecipes{memRecipes: f.recipes, racingKey: "uploads/recipe/racer.png"}
	service := NewRecipe(store, f.tags, f.ingredients, testutil.InlineTransactor{}, f.storage, testutil.MakeNoopLogger())

	f.storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "image/png").Return(nil)
	f.storage.On("Delete", mock.Anything, "uploads/recipe/racer.png").Return(nil).Once()

	updated, err := service.UploadImage(ctx, owner, recipe.ID, model.ImageUpload{Filename: "photo.png", Data: pngBytes(t)})
	require.NoError(t, err)

	stored, err := f.service.Get(ctx, owner, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.Image, stored.Image)
	f.storage.AssertNotCalled(t, "Delete", mock.Anything, "uploads/recipe/old.png")
}

// failingCommitTransactor runs fn and then reports a commit failure.
type failingCommitTransactor struct{}

func (failingCommitTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return errors.New("commit failed")
}

func TestRecipe_CatalogCreationCountedAfterCommit(t *testing.T) {
	ctx := context.Background()
	counter := metrics.CatalogItemsCreated.WithLabelValues(string(model.KindTag))

	t.Run("rolled back", func(t *testing.T) {
		f := newRecipeFixture(t)
		service := NewRecipe(f.recipes, f.tags, f.ingredients, failingCommitTransactor{}, f.storage, testutil.MakeNoopLogger())
		before := promtest.ToFloat64(counter)

		params := sampleParams()
		params.Tags = specs("Uncommitted")
		_, err := service.Create(ctx, owner, params)
		require.Error(t, err)

		assert.Equal(t, before, promtest.ToFloat64(counter))
	})

	t.Run("committed", func(t *testing.T) {
		f := newRecipeFixture(t)
		before := promtest.ToFloat64(counter)

		params := sampleParams()
		params.Tags = specs("First", "Second", "First")
		_, err := f.service.Create(ctx, owner, params)
		require.NoError(t, err)

		assert.Equal(t, before+2, promtest.ToFloat64(counter))
	})
}
