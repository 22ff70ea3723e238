package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"foodgram/app/middleware"
	"foodgram/logger"
	"foodgram/repository"
	"foodgram/service"
)

// ShoppingCartController handles the shopping cart and its downloadable list
type ShoppingCartController struct {
	cartRepository   repository.ShoppingCartRepositoryInterface
	recipeRepository repository.RecipeRepositoryInterface
	shoppingList     service.ShoppingListServiceInterface
}

// NewShoppingCartController creates a new ShoppingCartController
func NewShoppingCartController(
	cartRepo repository.ShoppingCartRepositoryInterface,
	recipeRepo repository.RecipeRepositoryInterface,
	shoppingList service.ShoppingListServiceInterface,
) *ShoppingCartController {
	return &ShoppingCartController{
		cartRepository:   cartRepo,
		recipeRepository: recipeRepo,
		shoppingList:     shoppingList,
	}
}

// Add handles POST /api/recipes/{id}/shopping_cart/
// Example response (201):
// {"id": 1, "name": "Борщ", "image": "https://...", "cooking_time": 90}
func (c *ShoppingCartController) Add(w http.ResponseWriter, r *http.Request) {
	recipeID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())

	recipe, err := c.recipeRepository.Get(r.Context(), recipeID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		logger.Error().Err(err).Int64("recipe_id", recipeID).Msg("❌ AddToCart: Error fetching recipe")
		writeError(w, http.StatusInternalServerError, "Failed to add recipe to shopping cart")
		return
	}

	if _, err := c.cartRepository.Add(r.Context(), userID, recipeID); err != nil {
		if errors.Is(err, repository.ErrAlreadyInCart) {
			writeError(w, http.StatusBadRequest, "Этот рецепт уже есть в списке покупок")
			return
		}
		logger.Error().Err(err).Int64("recipe_id", recipeID).Int64("user_id", userID).Msg("❌ AddToCart: Error adding recipe")
		writeError(w, http.StatusInternalServerError, "Failed to add recipe to shopping cart")
		return
	}

	writeJSON(w, http.StatusCreated, recipe.Short())
}

// Remove handles DELETE /api/recipes/{id}/shopping_cart/
func (c *ShoppingCartController) Remove(w http.ResponseWriter, r *http.Request) {
	recipeID, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())

	if _, err := c.recipeRepository.Get(r.Context(), recipeID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Recipe not found")
			return
		}
		logger.Error().Err(err).Int64("recipe_id", recipeID).Msg("❌ RemoveFromCart: Error fetching recipe")
		writeError(w, http.StatusInternalServerError, "Failed to remove recipe from shopping cart")
		return
	}

	if err := c.cartRepository.Remove(r.Context(), userID, recipeID); err != nil {
		if errors.Is(err, repository.ErrNotInCart) {
			writeError(w, http.StatusBadRequest, "Этого рецепта нет в списке покупок")
			return
		}
		logger.Error().Err(err).Int64("recipe_id", recipeID).Int64("user_id", userID).Msg("❌ RemoveFromCart: Error removing recipe")
		writeError(w, http.StatusInternalServerError, "Failed to remove recipe from shopping cart")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Download handles GET /api/recipes/download_shopping_cart/?format=pdf|html|txt
// Returns the aggregated shopping list of the caller's cart as an attachment (PDF by default).
func (c *ShoppingCartController) Download(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Authentication credentials were not provided")
		return
	}

	format, err := service.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	logger.Info().Int64("user_id", userID).Str("format", string(format)).Msg("📥 DownloadShoppingCart: request received")

	doc, err := c.shoppingList.Export(r.Context(), userID, format)
	if err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Str("format", string(format)).Msg("❌ DownloadShoppingCart: export failed")
		writeError(w, http.StatusInternalServerError, "Failed to generate shopping list")
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Data); err != nil {
		logger.Error().Err(err).Int64("user_id", userID).Msg("❌ DownloadShoppingCart: Error writing response")
	}
}
