package model

import "context"

// CatalogKind selects between the two per-owner vocabularies attached to recipes.
type CatalogKind string

const (
	KindTag        CatalogKind = "tag"
	KindIngredient CatalogKind = "ingredient"
)

// CatalogItem is a tag or an ingredient. Names are unique per owner.
type CatalogItem struct {
	ID      int64
	OwnerID int64
	Name    string
}

// NameSpec identifies a catalog item by name in recipe payloads.
type NameSpec struct {
	Name string
}

type CatalogFilter struct {
	// AssignedOnly limits the list to items attached to at least one recipe.
	AssignedOnly bool
}

// CatalogStore is implemented once per kind.
type CatalogStore interface {
	List(ctx context.Context, ownerID int64, filter CatalogFilter) ([]CatalogItem, error)
	GetByID(ctx context.Context, ownerID, id int64) (CatalogItem, error)
	GetOrCreate(ctx context.Context, ownerID int64, name string) (item CatalogItem, created bool, err error)
	Rename(ctx context.Context, ownerID, id int64, name string) (CatalogItem, error)
	Delete(ctx context.Context, ownerID, id int64) error
}
