package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"foodgram/logger"
	"foodgram/models"
)

// ShoppingCartRepository handles database operations for shopping carts
type ShoppingCartRepository struct {
	db *sql.DB
}

// NewShoppingCartRepository creates a new ShoppingCartRepository
func NewShoppingCartRepository(db *sql.DB) *ShoppingCartRepository {
	return &ShoppingCartRepository{db: db}
}

// Ensure ShoppingCartRepository implements ShoppingCartRepositoryInterface
var _ ShoppingCartRepositoryInterface = (*ShoppingCartRepository)(nil)

// ListLineItems joins the user's cart entries to their recipes' ingredient quantities
func (r *ShoppingCartRepository) ListLineItems(ctx context.Context, userID int64) ([]models.LineItem, error) {
	query := `
		SELECT i.name, i.measurement_unit, iq.amount
		FROM shopping_carts sc
		INNER JOIN ingredient_quantities iq ON iq.recipe_id = sc.recipe_id
		INNER JOIN ingredients i ON i.id = iq.ingredient_id
		WHERE sc.user_id = $1
		ORDER BY sc.id ASC, iq.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("❌ ListLineItems: Error querying line items")
		return nil, fmt.Errorf("failed to query shopping cart line items: %w", err)
	}
	defer rows.Close()

	items := make([]models.LineItem, 0)
	for rows.Next() {
		var item models.LineItem
		if err := rows.Scan(&item.Name, &item.MeasurementUnit, &item.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan shopping cart line item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shopping cart line items: %w", err)
	}

	logger.Debug().Int64("user_id", userID).Int("line_items", len(items)).Msg("✓ ListLineItems: loaded")
	return items, nil
}

// Add places a recipe in the user's cart
func (r *ShoppingCartRepository) Add(ctx context.Context, userID, recipeID int64) (*models.ShoppingCartEntry, error) {
	query := `
		INSERT INTO shopping_carts (user_id, recipe_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, recipe_id) DO NOTHING
		RETURNING id, user_id, recipe_id
	`

	var entry models.ShoppingCartEntry
	err := r.db.QueryRowContext(ctx, query, userID, recipeID).Scan(&entry.ID, &entry.UserID, &entry.RecipeID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlreadyInCart
		}
		logger.Error().Err(err).Int64("user_id", userID).Int64("recipe_id", recipeID).Msg("❌ AddToCart: Error inserting cart entry")
		return nil, fmt.Errorf("failed to add recipe to shopping cart: %w", err)
	}

	logger.Info().Int64("user_id", userID).Int64("recipe_id", recipeID).Msg("✅ AddToCart: recipe added")
	return &entry, nil
}

// Remove deletes a recipe from the user's cart
func (r *ShoppingCartRepository) Remove(ctx context.Context, userID, recipeID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shopping_carts WHERE user_id = $1 AND recipe_id = $2`, userID, recipeID)
	if err != nil {
		return fmt.Errorf("failed to remove recipe from shopping cart: %w", err)
	}
	if err := expectAffected(res, ErrNotInCart); err != nil {
		return err
	}

	logger.Info().Int64("user_id", userID).Int64("recipe_id", recipeID).Msg("✅ RemoveFromCart: recipe removed")
	return nil
}

