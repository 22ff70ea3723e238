package controller

import (
	"errors"
	"net/http"

	"foodgram/logger"
	"foodgram/repository"
)

// IngredientController handles HTTP requests for ingredients
type IngredientController struct {
	repository repository.IngredientRepositoryInterface
}

// NewIngredientController creates a new IngredientController
func NewIngredientController(repo repository.IngredientRepositoryInterface) *IngredientController {
	return &IngredientController{
		repository: repo,
	}
}

// List handles GET /api/ingredients/?name=кар
// The name filter is a case-insensitive "contains" match.
func (c *IngredientController) List(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")

	ingredients, err := c.repository.List(r.Context(), name)
	if err != nil {
		logger.Error().Err(err).Str("name", name).Msg("❌ ListIngredients: Error fetching ingredients")
		writeError(w, http.StatusInternalServerError, "Failed to fetch ingredients")
		return
	}
	writeJSON(w, http.StatusOK, ingredients)
}

// Get handles GET /api/ingredients/{id}/
func (c *IngredientController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ingredient, err := c.repository.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Ingredient not found")
			return
		}
		logger.Error().Err(err).Int64("ingredient_id", id).Msg("❌ GetIngredient: Error fetching ingredient")
		writeError(w, http.StatusInternalServerError, "Failed to fetch ingredient")
		return
	}
	writeJSON(w, http.StatusOK, ingredient)
}
