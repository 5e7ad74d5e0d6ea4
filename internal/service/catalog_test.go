package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/recipe-server/internal/model"
	"github.com/dtroode/recipe-server/internal/testutil"
)

func newCatalogService(t *testing.T) (*Catalog, *memCatalog) {
	t.Helper()
	var nextID int64
	store := newMemCatalog(&nextID)
	return NewCatalog(model.KindTag, store, testutil.MakeNoopLogger()), store
}

func TestCatalog_CreateIsGetOrCreate(t *testing.T) {
	ctx := context.Background()
	s, store := newCatalogService(t)

	first, err := s.Create(ctx, owner, "  Vegan ")
	require.NoError(t, err)
	assert.Equal(t, "Vegan", first.Name)

	second, err := s.Create(ctx, owner, "Vegan")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, store.count(owner))

	_, err = s.Create(ctx, owner, " ")
	requireFieldError(t, err, "name")
}

func TestCatalog_ListIsOwnerScopedAndSorted(t *testing.T) {
	ctx := context.Background()
	s, _ := newCatalogService(t)

	for _, name := range []string{"Vegan", "Dessert"} {
		_, err := s.Create(ctx, owner, name)
		require.NoError(t, err)
	}
	_, err := s.Create(ctx, other, "Fruity")
	require.NoError(t, err)

	items, err := s.List(ctx, owner, model.CatalogFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dessert", "Vegan"}, names(items))
}

func TestCatalog_RenameAndDelete(t *testing.T) {
	ctx := context.Background()
	s, store := newCatalogService(t)

	a, err := s.Create(ctx, owner, "After Dinner")
	require.NoError(t, err)
	_, err = s.Create(ctx, owner, "Dessert")
	require.NoError(t, err)

	renamed, err := s.Rename(ctx, owner, a.ID, "Late Night")
	require.NoError(t, err)
	assert.Equal(t, "Late Night", renamed.Name)

	_, err = s.Rename(ctx, owner, a.ID, "Dessert")
	requireFieldError(t, err, "name")

	_, err = s.Rename(ctx, other, a.ID, "Mine now")
	require.ErrorIs(t, err, model.ErrNotFound)

	require.ErrorIs(t, s.Delete(ctx, other, a.ID), model.ErrNotFound)
	require.NoError(t, s.Delete(ctx, owner, a.ID))
	assert.Equal(t, 1, store.count(owner))

	_, err = s.Get(ctx, owner, a.ID)
	require.ErrorIs(t, err, model.ErrNotFound)
}
