package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/recipe-server/internal/model"
)

var _ model.CatalogStore = (*CatalogRepository)(nil)

// catalogTable names the item table of a kind and its recipe link table.
type catalogTable struct {
	items      string
	links      string
	linkColumn string
}

var catalogTables = map[model.CatalogKind]catalogTable{
	model.KindTag:        {items: "tags", links: "recipe_tags", linkColumn: "tag_id"},
	model.KindIngredient: {items: "ingredients", links: "recipe_ingredients", linkColumn: "ingredient_id"},
}

// CatalogRepository stores tags or ingredients, depending on its kind.
type CatalogRepository struct {
	db    *Connection
	table catalogTable
}

func NewTagRepository(db *Connection) *CatalogRepository {
	return &CatalogRepository{db: db, table: catalogTables[model.KindTag]}
}

func NewIngredientRepository(db *Connection) *CatalogRepository {
	return &CatalogRepository{db: db, table: catalogTables[model.KindIngredient]}
}

func (r *CatalogRepository) List(ctx context.Context, ownerID int64, filter model.CatalogFilter) ([]model.CatalogItem, error) {
	query := fmt.Sprintf(`
		SELECT c.id, c.user_id, c.name
		FROM %s c
		WHERE c.user_id = $1
		  AND (NOT $2::boolean OR EXISTS (SELECT 1 FROM %s l WHERE l.%s = c.id))
		ORDER BY c.name, c.id`, r.table.items, r.table.links, r.table.linkColumn)

	rows, err := r.db.conn(ctx).Query(ctx, query, ownerID, filter.AssignedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", r.table.items, err)
	}
	defer rows.Close()

	items := make([]model.CatalogItem, 0)
	for rows.Next() {
		var item model.CatalogItem
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.Name); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", r.table.items, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s: %w", r.table.items, err)
	}

	return items, nil
}

func (r *CatalogRepository) GetByID(ctx context.Context, ownerID, id int64) (model.CatalogItem, error) {
	query := fmt.Sprintf(`SELECT id, user_id, name FROM %s WHERE user_id = $1 AND id = $2`, r.table.items)

	var item model.CatalogItem
	err := r.db.conn(ctx).QueryRow(ctx, query, ownerID, id).Scan(&item.ID, &item.OwnerID, &item.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.CatalogItem{}, model.ErrNotFound
		}
		return model.CatalogItem{}, fmt.Errorf("failed to get %s by id: %w", r.table.items, err)
	}

	return item, nil
}

// GetOrCreate returns the owner's item named name, inserting it first if needed.
func (r *CatalogRepository) GetOrCreate(ctx context.Context, ownerID int64, name string) (model.CatalogItem, bool, error) {
	query := fmt.Sprintf(`
		WITH ins AS (
			INSERT INTO %[1]s (user_id, name)
			VALUES ($1, $2)
			ON CONFLICT (user_id, name) DO NOTHING
			RETURNING id, user_id, name
		)
		SELECT id, user_id, name, true FROM ins
		UNION ALL
		SELECT c.id, c.user_id, c.name, false
		FROM %[1]s c
		WHERE NOT EXISTS (SELECT 1 FROM ins) AND c.user_id = $1 AND c.name = $2
		LIMIT 1`, r.table.items)

	var (
		item    model.CatalogItem
		created bool
	)
	for attempt := 0; attempt < 2; attempt++ {
		err := r.db.conn(ctx).QueryRow(ctx, query, ownerID, name).Scan(&item.ID, &item.OwnerID, &item.Name, &created)
		if err == nil {
			return item, created, nil
		}
		// A concurrent insert committed after this statement's snapshot; retry sees it.
		if !errors.Is(err, pgx.ErrNoRows) {
			return model.CatalogItem{}, false, fmt.Errorf("failed to get or create %s: %w", r.table.items, err)
		}
	}

	return model.CatalogItem{}, false, fmt.Errorf("failed to get or create %s: %w", r.table.items, pgx.ErrNoRows)
}

func (r *CatalogRepository) Rename(ctx context.Context, ownerID, id int64, name string) (model.CatalogItem, error) {
	query := fmt.Sprintf(`UPDATE %s SET name = $3 WHERE user_id = $1 AND id = $2 RETURNING id, user_id, name`, r.table.items)

	var item model.CatalogItem
	err := r.db.conn(ctx).QueryRow(ctx, query, ownerID, id, name).Scan(&item.ID, &item.OwnerID, &item.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.CatalogItem{}, model.ErrNotFound
		}
		if isUniqueViolation(err) {
			return model.CatalogItem{}, model.ErrConflict
		}
		return model.CatalogItem{}, fmt.Errorf("failed to rename %s: %w", r.table.items, err)
	}

	return item, nil
}

func (r *CatalogRepository) Delete(ctx context.Context, ownerID, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE user_id = $1 AND id = $2`, r.table.items)

	tag, err := r.db.conn(ctx).Exec(ctx, query, ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete %s: %w", r.table.items, err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}
