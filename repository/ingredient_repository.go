package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"foodgram/models"
)

// IngredientRepository handles database operations for ingredients
type IngredientRepository struct {
	db *sql.DB
}

// NewIngredientRepository creates a new IngredientRepository
func NewIngredientRepository(db *sql.DB) *IngredientRepository {
	return &IngredientRepository{db: db}
}

var _ IngredientRepositoryInterface = (*IngredientRepository)(nil)

// List returns ingredients whose name contains nameFilter, case-insensitively
func (r *IngredientRepository) List(ctx context.Context, nameFilter string) ([]models.Ingredient, error) {
	query := `SELECT id, name, measurement_unit FROM ingredients`
	var args []interface{}

	if nameFilter = strings.TrimSpace(nameFilter); nameFilter != "" {
		query += ` WHERE name ILIKE $1`
		args = append(args, "%"+escapeLike(nameFilter)+"%")
	}
	query += ` ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredients: %w", err)
	}
	defer rows.Close()

	ingredients := make([]models.Ingredient, 0)
	for rows.Next() {
		var ing models.Ingredient
		if err := rows.Scan(&ing.ID, &ing.Name, &ing.MeasurementUnit); err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ingredients: %w", err)
	}
	return ingredients, nil
}

// Get returns an ingredient by id
func (r *IngredientRepository) Get(ctx context.Context, id int64) (*models.Ingredient, error) {
	var ing models.Ingredient
	err := r.db.QueryRowContext(ctx, `SELECT id, name, measurement_unit FROM ingredients WHERE id = $1`, id).
		Scan(&ing.ID, &ing.Name, &ing.MeasurementUnit)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get ingredient: %w", err)
	}
	return &ing, nil
}

// escapeLike escapes LIKE wildcards so user input matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
