package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dtroode/recipe-server/internal/model"
)

var _ model.RecipeStore = (*RecipeRepository)(nil)

const recipeColumns = `r.id, r.user_id, r.title, r.description, r.minute_to_make_recipe, r.price::text, r.link, r.image`

type RecipeRepository struct {
	db *Connection
}

func NewRecipeRepository(db *Connection) *RecipeRepository {
	return &RecipeRepository{
		db: db,
	}
}

func scanRecipe(row pgx.Row) (model.Recipe, error) {
	var (
		recipe model.Recipe
		price  string
	)
	err := row.Scan(
		&recipe.ID, &recipe.OwnerID, &recipe.Title, &recipe.Description,
		&recipe.MinutesToMake, &price, &recipe.Link, &recipe.Image,
	)
	if err != nil {
		return model.Recipe{}, err
	}

	recipe.Price, err = decimal.NewFromString(price)
	if err != nil {
		return model.Recipe{}, fmt.Errorf("failed to parse price %q: %w", price, err)
	}
	recipe.Tags = []model.CatalogItem{}
	recipe.Ingredients = []model.CatalogItem{}
	return recipe, nil
}

// List returns the owner's recipes, ascending by id. Within a filter field ids
// are ORed; across fields they are ANDed.
func (r *RecipeRepository) List(ctx context.Context, ownerID int64, filter model.RecipeFilter) ([]model.Recipe, error) {
	query := `
		SELECT ` + recipeColumns + `
		FROM recipes r
		WHERE r.user_id = $1
		  AND ($2::bigint[] IS NULL OR EXISTS (
		      SELECT 1 FROM recipe_tags rt WHERE rt.recipe_id = r.id AND rt.tag_id = ANY($2)))
		  AND ($3::bigint[] IS NULL OR EXISTS (
		      SELECT 1 FROM recipe_ingredients ri WHERE ri.recipe_id = r.id AND ri.ingredient_id = ANY($3)))
		ORDER BY r.id`

	rows, err := r.db.conn(ctx).Query(ctx, query, ownerID, nilIfEmpty(filter.TagIDs), nilIfEmpty(filter.IngredientIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]model.Recipe, 0)
	for rows.Next() {
		recipe, err := scanRecipe(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recipe: %w", err)
		}
		recipes = append(recipes, recipe)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recipes: %w", err)
	}

	if err := r.loadItems(ctx, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *RecipeRepository) GetByID(ctx context.Context, ownerID, id int64) (model.Recipe, error) {
	query := `SELECT ` + recipeColumns + ` FROM recipes r WHERE r.user_id = $1 AND r.id = $2`

	recipe, err := scanRecipe(r.db.conn(ctx).QueryRow(ctx, query, ownerID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Recipe{}, model.ErrNotFound
		}
		return model.Recipe{}, fmt.Errorf("failed to get recipe by id: %w", err)
	}

	recipes := []model.Recipe{recipe}
	if err := r.loadItems(ctx, recipes); err != nil {
		return model.Recipe{}, err
	}
	return recipes[0], nil
}

// Create inserts the recipe row only; associations are attached separately.
func (r *RecipeRepository) Create(ctx context.Context, recipe model.Recipe) (model.Recipe, error) {
	query := `
		INSERT INTO recipes AS r (user_id, title, description, minute_to_make_recipe, price, link, image)
		VALUES ($1, $2, $3, $4, $5::numeric, $6, $7)
		RETURNING ` + recipeColumns

	saved, err := scanRecipe(r.db.conn(ctx).QueryRow(ctx, query,
		recipe.OwnerID, recipe.Title, recipe.Description, recipe.MinutesToMake,
		recipe.Price.String(), recipe.Link, recipe.Image,
	))
	if err != nil {
		return model.Recipe{}, fmt.Errorf("failed to create recipe: %w", err)
	}

	return saved, nil
}

// Update writes the scalar fields. The image is changed only through SetImage.
func (r *RecipeRepository) Update(ctx context.Context, recipe model.Recipe) (model.Recipe, error) {
	query := `
		UPDATE recipes AS r
		SET title = $3, description = $4, minute_to_make_recipe = $5, price = $6::numeric, link = $7
		WHERE r.user_id = $1 AND r.id = $2
		RETURNING ` + recipeColumns

	saved, err := scanRecipe(r.db.conn(ctx).QueryRow(ctx, query,
		recipe.OwnerID, recipe.ID, recipe.Title, recipe.Description, recipe.MinutesToMake,
		recipe.Price.String(), recipe.Link,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Recipe{}, model.ErrNotFound
		}
		return model.Recipe{}, fmt.Errorf("failed to update recipe: %w", err)
	}

	return saved, nil
}

// SetImage swaps the image under a row lock so concurrent uploads each see
// the key they displaced.
func (r *RecipeRepository) SetImage(ctx context.Context, ownerID, id int64, image string) (string, error) {
	query := `
		UPDATE recipes r
		SET image = $3
		FROM (
			SELECT id, image FROM recipes
			WHERE user_id = $1 AND id = $2
			FOR UPDATE
		) old
		WHERE r.id = old.id
		RETURNING old.image`

	var previous string
	err := r.db.conn(ctx).QueryRow(ctx, query, ownerID, id, image).Scan(&previous)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", model.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to set recipe image: %w", err)
	}
	return previous, nil
}

// Delete removes the recipe and its association rows. Tags and ingredients stay.
func (r *RecipeRepository) Delete(ctx context.Context, ownerID, id int64) error {
	query := `DELETE FROM recipes WHERE user_id = $1 AND id = $2`

	tag, err := r.db.conn(ctx).Exec(ctx, query, ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

// AttachItem links an item to a recipe. Both must belong to ownerID; linking an
// already linked item is a no-op.
func (r *RecipeRepository) AttachItem(ctx context.Context, ownerID, recipeID int64, kind model.CatalogKind, itemID int64) error {
	table, ok := catalogTables[kind]
	if !ok {
		return fmt.Errorf("unknown catalog kind %q", kind)
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (recipe_id, %s)
		SELECT r.id, c.id
		FROM recipes r
		JOIN %s c ON c.user_id = r.user_id
		WHERE r.user_id = $1 AND r.id = $2 AND c.id = $3
		ON CONFLICT DO NOTHING`, table.links, table.linkColumn, table.items)

	tag, err := r.db.conn(ctx).Exec(ctx, query, ownerID, recipeID, itemID)
	if err != nil {
		return fmt.Errorf("failed to attach %s: %w", kind, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	existsQuery := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE recipe_id = $1 AND %s = $2)`, table.links, table.linkColumn)
	var linked bool
	if err := r.db.conn(ctx).QueryRow(ctx, existsQuery, recipeID, itemID).Scan(&linked); err != nil {
		return fmt.Errorf("failed to check %s link: %w", kind, err)
	}
	if !linked {
		return model.ErrNotFound
	}
	return nil
}

func (r *RecipeRepository) ClearItems(ctx context.Context, ownerID, recipeID int64, kind model.CatalogKind) error {
	table, ok := catalogTables[kind]
	if !ok {
		return fmt.Errorf("unknown catalog kind %q", kind)
	}

	query := fmt.Sprintf(`
		DELETE FROM %s l
		USING recipes r
		WHERE l.recipe_id = r.id AND r.user_id = $1 AND r.id = $2`, table.links)

	if _, err := r.db.conn(ctx).Exec(ctx, query, ownerID, recipeID); err != nil {
		return fmt.Errorf("failed to clear %s links: %w", kind, err)
	}
	return nil
}

// loadItems fills Tags and Ingredients of recipes with one query per kind.
func (r *RecipeRepository) loadItems(ctx context.Context, recipes []model.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]int64, len(recipes))
	index := make(map[int64]int, len(recipes))
	for i, recipe := range recipes {
		ids[i] = recipe.ID
		index[recipe.ID] = i
	}

	for _, kind := range []model.CatalogKind{model.KindTag, model.KindIngredient} {
		table := catalogTables[kind]
		query := fmt.Sprintf(`
			SELECT l.recipe_id, c.id, c.user_id, c.name
			FROM %s l
			JOIN %s c ON c.id = l.%s
			WHERE l.recipe_id = ANY($1)
			ORDER BY c.name, c.id`, table.links, table.items, table.linkColumn)

		rows, err := r.db.conn(ctx).Query(ctx, query, ids)
		if err != nil {
			return fmt.Errorf("failed to load %s links: %w", kind, err)
		}

		for rows.Next() {
			var (
				recipeID int64
				item     model.CatalogItem
			)
			if err := rows.Scan(&recipeID, &item.ID, &item.OwnerID, &item.Name); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan %s link: %w", kind, err)
			}
			recipe := &recipes[index[recipeID]]
			if kind == model.KindTag {
				recipe.Tags = append(recipe.Tags, item)
			} else {
				recipe.Ingredients = append(recipe.Ingredients, item)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate %s links: %w", kind, err)
		}
	}
	return nil
}

func nilIfEmpty(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	return ids
}
