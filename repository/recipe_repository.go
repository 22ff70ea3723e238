package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"foodgram/logger"
	"foodgram/models"
)

// RecipeRepository handles database operations for recipes
type RecipeRepository struct {
	db *sql.DB
}

// NewRecipeRepository creates a new RecipeRepository
func NewRecipeRepository(db *sql.DB) *RecipeRepository {
	return &RecipeRepository{db: db}
}

// Ensure RecipeRepository implements RecipeRepositoryInterface
var _ RecipeRepositoryInterface = (*RecipeRepository)(nil)

const recipeColumns = `
	r.id, r.name, r.image, r.text, r.cooking_time, r.created_at,
	u.id, u.email, u.username, u.first_name, u.last_name,
	EXISTS(SELECT 1 FROM shopping_carts sc WHERE sc.recipe_id = r.id AND sc.user_id = $1) AS in_cart
`

// List returns one page of recipes matching the filter, newest first, plus the total match count
func (r *RecipeRepository) List(ctx context.Context, filter models.RecipeFilter, page models.Page) ([]models.Recipe, int, error) {
	// $1 is always the viewer id
	args := []interface{}{filter.ViewerID}
	argIndex := 2
	var conditions []string

	if len(filter.Tags) > 0 {
		conditions = append(conditions, fmt.Sprintf(`r.id IN (
			SELECT rt.recipe_id FROM recipe_tags rt
			INNER JOIN tags t ON t.id = rt.tag_id
			WHERE t.slug = ANY($%d))`, argIndex))
		args = append(args, filter.Tags)
		argIndex++
	}

	if filter.AuthorID != nil {
		conditions = append(conditions, fmt.Sprintf("r.author_id = $%d", argIndex))
		args = append(args, *filter.AuthorID)
		argIndex++
	}

	if filter.IsInShoppingCart {
		conditions = append(conditions, "r.id IN (SELECT sc.recipe_id FROM shopping_carts sc WHERE sc.user_id = $1)")
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	// The count query must reference $1 too, so it carries a typed no-op predicate
	countConditions := append([]string{"$1::bigint IS NOT NULL"}, conditions...)
	countQuery := `SELECT COUNT(*) FROM recipes r WHERE ` + strings.Join(countConditions, " AND ")

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("❌ ListRecipes: Error counting recipes")
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	query := `SELECT ` + recipeColumns + `
		FROM recipes r
		INNER JOIN users u ON u.id = r.author_id` + where +
		fmt.Sprintf(" ORDER BY r.id DESC LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("❌ ListRecipes: Error querying recipes")
		return nil, 0, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer rows.Close()

	recipes := make([]models.Recipe, 0)
	for rows.Next() {
		rec, err := scanRecipe(rows)
		if err != nil {
			return nil, 0, err
		}
		recipes = append(recipes, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate recipes: %w", err)
	}

	if err := r.attachRelations(ctx, recipes); err != nil {
		return nil, 0, err
	}

	logger.Debug().Int("count", len(recipes)).Int("total", total).Msg("✓ ListRecipes: fetched")
	return recipes, total, nil
}

// Get returns a recipe by id; viewerID decides is_in_shopping_cart (0 for anonymous)
func (r *RecipeRepository) Get(ctx context.Context, id int64, viewerID int64) (*models.Recipe, error) {
	query := `SELECT ` + recipeColumns + `
		FROM recipes r
		INNER JOIN users u ON u.id = r.author_id
		WHERE r.id = $2`

	rec, err := scanRecipe(r.db.QueryRowContext(ctx, query, viewerID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	recipes := []models.Recipe{*rec}
	if err := r.attachRelations(ctx, recipes); err != nil {
		return nil, err
	}
	return &recipes[0], nil
}

// Create inserts a recipe with its tags and ingredient quantities in one transaction
func (r *RecipeRepository) Create(ctx context.Context, authorID int64, input *models.RecipeInput) (int64, error) {
	logger.Info().Int64("author_id", authorID).Str("name", input.Name).Msg("📦 CreateRecipe: creating recipe")

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := checkReferences(ctx, tx, input); err != nil {
		return 0, err
	}

	var id int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO recipes (author_id, name, image, text, cooking_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		authorID, input.Name, input.Image, input.Text, input.CookingTime,
	).Scan(&id)
	if err != nil {
		logger.Error().Err(err).Msg("❌ CreateRecipe: Error inserting recipe")
		return 0, fmt.Errorf("failed to insert recipe: %w", err)
	}

	if err := insertRelations(ctx, tx, id, input); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info().Int64("recipe_id", id).Msg("✅ CreateRecipe: recipe created")
	return id, nil
}

// Update replaces the recipe fields, tags and ingredient quantities
func (r *RecipeRepository) Update(ctx context.Context, id int64, input *models.RecipeInput) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE recipes SET name = $2, image = $3, text = $4, cooking_time = $5
		WHERE id = $1`,
		id, input.Name, input.Image, input.Text, input.CookingTime,
	)
	if err != nil {
		return fmt.Errorf("failed to update recipe: %w", err)
	}
	if err := expectAffected(res, ErrNotFound); err != nil {
		return err
	}

	if err := checkReferences(ctx, tx, input); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_tags WHERE recipe_id = $1`, id); err != nil {
		return fmt.Errorf("failed to clear recipe tags: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM ingredient_quantities WHERE recipe_id = $1`, id); err != nil {
		return fmt.Errorf("failed to clear recipe ingredients: %w", err)
	}

	if err := insertRelations(ctx, tx, id, input); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logger.Info().Int64("recipe_id", id).Msg("✅ UpdateRecipe: recipe updated")
	return nil
}

// Delete removes a recipe; cart entries and quantities cascade
func (r *RecipeRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}
	if err := expectAffected(res, ErrNotFound); err != nil {
		return err
	}

	logger.Info().Int64("recipe_id", id).Msg("✅ DeleteRecipe: recipe deleted")
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecipe(row rowScanner) (*models.Recipe, error) {
	var rec models.Recipe
	err := row.Scan(
		&rec.ID,
		&rec.Name,
		&rec.Image,
		&rec.Text,
		&rec.CookingTime,
		&rec.CreatedAt,
		&rec.Author.ID,
		&rec.Author.Email,
		&rec.Author.Username,
		&rec.Author.FirstName,
		&rec.Author.LastName,
		&rec.IsInShoppingCart,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan recipe: %w", err)
	}
	rec.Tags = []models.Tag{}
	rec.Ingredients = []models.IngredientAmount{}
	return &rec, nil
}

// attachRelations loads tags and ingredient amounts for the given recipes in two queries
func (r *RecipeRepository) attachRelations(ctx context.Context, recipes []models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(recipes))
	byID := make(map[int64]*models.Recipe, len(recipes))
	for i := range recipes {
		ids = append(ids, recipes[i].ID)
		byID[recipes[i].ID] = &recipes[i]
	}

	tagRows, err := r.db.QueryContext(ctx, `
		SELECT rt.recipe_id, t.id, t.name, t.color, t.slug
		FROM recipe_tags rt
		INNER JOIN tags t ON t.id = rt.tag_id
		WHERE rt.recipe_id = ANY($1)
		ORDER BY t.id`, ids)
	if err != nil {
		return fmt.Errorf("failed to query recipe tags: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var recipeID int64
		var tag models.Tag
		if err := tagRows.Scan(&recipeID, &tag.ID, &tag.Name, &tag.Color, &tag.Slug); err != nil {
			return fmt.Errorf("failed to scan recipe tag: %w", err)
		}
		if rec, ok := byID[recipeID]; ok {
			rec.Tags = append(rec.Tags, tag)
		}
	}
	if err := tagRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate recipe tags: %w", err)
	}

	ingRows, err := r.db.QueryContext(ctx, `
		SELECT iq.recipe_id, i.id, i.name, i.measurement_unit, iq.amount
		FROM ingredient_quantities iq
		INNER JOIN ingredients i ON i.id = iq.ingredient_id
		WHERE iq.recipe_id = ANY($1)
		ORDER BY iq.id`, ids)
	if err != nil {
		return fmt.Errorf("failed to query recipe ingredients: %w", err)
	}
	defer ingRows.Close()

	for ingRows.Next() {
		var recipeID int64
		var ing models.IngredientAmount
		if err := ingRows.Scan(&recipeID, &ing.ID, &ing.Name, &ing.MeasurementUnit, &ing.Amount); err != nil {
			return fmt.Errorf("failed to scan recipe ingredient: %w", err)
		}
		if rec, ok := byID[recipeID]; ok {
			rec.Ingredients = append(rec.Ingredients, ing)
		}
	}
	if err := ingRows.Err(); err != nil {
		return fmt.Errorf("failed to iterate recipe ingredients: %w", err)
	}
	return nil
}

// checkReferences verifies every tag and ingredient id of the input exists
func checkReferences(ctx context.Context, tx *sql.Tx, input *models.RecipeInput) error {
	ingredientIDs := make([]int64, 0, len(input.Ingredients))
	for _, ing := range input.Ingredients {
		ingredientIDs = append(ingredientIDs, ing.ID)
	}

	var tagCount, ingredientCount int
	err := tx.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM tags WHERE id = ANY($1)),
			(SELECT COUNT(*) FROM ingredients WHERE id = ANY($2))`,
		input.Tags, ingredientIDs,
	).Scan(&tagCount, &ingredientCount)
	if err != nil {
		return fmt.Errorf("failed to check recipe references: %w", err)
	}

	if tagCount != len(input.Tags) || ingredientCount != len(ingredientIDs) {
		logger.Warn().Int("tags_found", tagCount).Int("tags_sent", len(input.Tags)).
			Int("ingredients_found", ingredientCount).Int("ingredients_sent", len(ingredientIDs)).
			Msg("⚠️  Recipe refers to unknown tags or ingredients")
		return ErrUnknownReference
	}
	return nil
}

func insertRelations(ctx context.Context, tx *sql.Tx, recipeID int64, input *models.RecipeInput) error {
	for _, tagID := range input.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_tags (recipe_id, tag_id) VALUES ($1, $2)`, recipeID, tagID); err != nil {
			return fmt.Errorf("failed to insert recipe tag: %w", err)
		}
	}
	for _, ing := range input.Ingredients {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO ingredient_quantities (recipe_id, ingredient_id, amount) VALUES ($1, $2, $3)`,
			recipeID, ing.ID, ing.Amount); err != nil {
			return fmt.Errorf("failed to insert ingredient quantity: %w", err)
		}
	}
	return nil
}
