package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dtroode/recipe-server/internal/model"
)

func TestNewCatalogRepositories(t *testing.T) {
	db := &Connection{}

	tags := NewTagRepository(db)
	assert.Equal(t, db, tags.db)
	assert.Equal(t, "tags", tags.table.items)
	assert.Equal(t, "recipe_tags", tags.table.links)
	assert.Equal(t, "tag_id", tags.table.linkColumn)

	ingredients := NewIngredientRepository(db)
	assert.Equal(t, "ingredients", ingredients.table.items)
	assert.Equal(t, "recipe_ingredients", ingredients.table.links)
	assert.Equal(t, "ingredient_id", ingredients.table.linkColumn)
}

func TestCatalogTablesCoverEveryKind(t *testing.T) {
	for _, kind := range []model.CatalogKind{model.KindTag, model.KindIngredient} {
		_, ok := catalogTables[kind]
		assert.True(t, ok, kind)
	}
}

func TestNilIfEmpty(t *testing.T) {
	assert.Nil(t, nilIfEmpty(nil))
	assert.Nil(t, nilIfEmpty([]int64{}))
	assert.Equal(t, []int64{1, 2}, nilIfEmpty([]int64{1, 2}))
}
