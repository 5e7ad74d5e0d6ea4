package service

import (
	"context"
	"sort"

	"github.com/dtroode/recipe-server/internal/model"
)

// memCatalog is an in-memory model.CatalogStore with per-owner unique names.
type memCatalog struct {
	nextID *int64
	items  map[int64]model.CatalogItem
}

func newMemCatalog(nextID *int64) *memCatalog {
	return &memCatalog{nextID: nextID, items: map[int64]model.CatalogItem{}}
}

func (m *memCatalog) List(_ context.Context, ownerID int64, _ model.CatalogFilter) ([]model.CatalogItem, error) {
	out := make([]model.CatalogItem, 0)
	for _, item := range m.items {
		if item.OwnerID == ownerID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memCatalog) GetByID(_ context.Context, ownerID, id int64) (model.CatalogItem, error) {
	item, ok := m.items[id]
	if !ok || item.OwnerID != ownerID {
		return model.CatalogItem{}, model.ErrNotFound
	}
	return item, nil
}

func (m *memCatalog) GetOrCreate(_ context.Context, ownerID int64, name string) (model.CatalogItem, bool, error) {
	for _, item := range m.items {
		if item.OwnerID == ownerID && item.Name == name {
			return item, false, nil
		}
	}
	*m.nextID++
	item := model.CatalogItem{ID: *m.nextID, OwnerID: ownerID, Name: name}
	m.items[item.ID] = item
	return item, true, nil
}

func (m *memCatalog) Rename(ctx context.Context, ownerID, id int64, name string) (model.CatalogItem, error) {
	item, err := m.GetByID(ctx, ownerID, id)
	if err != nil {
		return model.CatalogItem{}, err
	}
	for _, other := range m.items {
		if other.OwnerID == ownerID && other.Name == name && other.ID != id {
			return model.CatalogItem{}, model.ErrConflict
		}
	}
	item.Name = name
	m.items[id] = item
	return item, nil
}

func (m *memCatalog) Delete(ctx context.Context, ownerID, id int64) error {
	if _, err := m.GetByID(ctx, ownerID, id); err != nil {
		return err
	}
	delete(m.items, id)
	return nil
}

func (m *memCatalog) count(ownerID int64) int {
	n := 0
	for _, item := range m.items {
		if item.OwnerID == ownerID {
			n++
		}
	}
	return n
}

// memRecipes is an in-memory model.RecipeStore with set-valued links.
type memRecipes struct {
	nextID   *int64
	recipes  map[int64]model.Recipe
	links    map[model.CatalogKind]map[int64][]int64
	catalogs map[model.CatalogKind]*memCatalog
}

func newMemRecipes(nextID *int64, tags, ingredients *memCatalog) *memRecipes {
	return &memRecipes{
		nextID:  nextID,
		recipes: map[int64]model.Recipe{},
		links: map[model.CatalogKind]map[int64][]int64{
			model.KindTag:        {},
			model.KindIngredient: {},
		},
		catalogs: map[model.CatalogKind]*memCatalog{
			model.KindTag:        tags,
			model.KindIngredient: ingredients,
		},
	}
}

func (m *memRecipes) hydrate(recipe model.Recipe) model.Recipe {
	recipe.Tags = m.items(model.KindTag, recipe.ID)
	recipe.Ingredients = m.items(model.KindIngredient, recipe.ID)
	return recipe
}

func (m *memRecipes) items(kind model.CatalogKind, recipeID int64) []model.CatalogItem {
	out := make([]model.CatalogItem, 0)
	for _, id := range m.links[kind][recipeID] {
		if item, ok := m.catalogs[kind].items[id]; ok {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (m *memRecipes) List(_ context.Context, ownerID int64, _ model.RecipeFilter) ([]model.Recipe, error) {
	out := make([]model.Recipe, 0)
	for _, recipe := range m.recipes {
		if recipe.OwnerID == ownerID {
			out = append(out, m.hydrate(recipe))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memRecipes) GetByID(_ context.Context, ownerID, id int64) (model.Recipe, error) {
	recipe, ok := m.recipes[id]
	if !ok || recipe.OwnerID != ownerID {
		return model.Recipe{}, model.ErrNotFound
	}
	return m.hydrate(recipe), nil
}

func (m *memRecipes) Create(_ context.Context, recipe model.Recipe) (model.Recipe, error) {
	*m.nextID++
	recipe.ID = *m.nextID
	recipe.Tags, recipe.Ingredients = nil, nil
	m.recipes[recipe.ID] = recipe
	return m.hydrate(recipe), nil
}

func (m *memRecipes) Update(ctx context.Context, recipe model.Recipe) (model.Recipe, error) {
	current, err := m.GetByID(ctx, recipe.OwnerID, recipe.ID)
	if err != nil {
		return model.Recipe{}, err
	}
	recipe.Image = current.Image
	recipe.Tags, recipe.Ingredients = nil, nil
	m.recipes[recipe.ID] = recipe
	return m.hydrate(recipe), nil
}

func (m *memRecipes) SetImage(ctx context.Context, ownerID, id int64, image string) (string, error) {
	recipe, err := m.GetByID(ctx, ownerID, id)
	if err != nil {
		return "", err
	}
	previous := recipe.Image
	recipe.Image = image
	m.recipes[id] = recipe
	return previous, nil
}

func (m *memRecipes) Delete(ctx context.Context, ownerID, id int64) error {
	if _, err := m.GetByID(ctx, ownerID, id); err != nil {
		return err
	}
	delete(m.recipes, id)
	for _, links := range m.links {
		delete(links, id)
	}
	return nil
}

func (m *memRecipes) AttachItem(ctx context.Context, ownerID, recipeID int64, kind model.CatalogKind, itemID int64) error {
	if _, err := m.GetByID(ctx, ownerID, recipeID); err != nil {
		return err
	}
	if _, err := m.catalogs[kind].GetByID(ctx, ownerID, itemID); err != nil {
		return err
	}
	for _, id := range m.links[kind][recipeID] {
		if id == itemID {
			return nil
		}
	}
	m.links[kind][recipeID] = append(m.links[kind][recipeID], itemID)
	return nil
}

func (m *memRecipes) ClearItems(ctx context.Context, ownerID, recipeID int64, kind model.CatalogKind) error {
	if _, err := m.GetByID(ctx, ownerID, recipeID); err != nil {
		return err
	}
	delete(m.links[kind], recipeID)
	return nil
}
