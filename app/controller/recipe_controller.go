package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"foodgram/app/middleware"
	"foodgram/logger"
	"foodgram/models"
	"foodgram/repository"
)

const maxPageLimit = 100

// RecipeController handles HTTP requests for recipes
type RecipeController struct {
	repository repository.RecipeRepositoryInterface
	pageSize   int
}

// NewRecipeController creates a new RecipeController
func NewRecipeController(repo repository.RecipeRepositoryInterface, pageSize int) *RecipeController {
	return &RecipeController{
		repository: repo,
		pageSize:   pageSize,
	}
}

// List handles GET /api/recipes/?page=1&limit=6&tags=breakfast&tags=lunch&author=3&is_in_shopping_cart=1
// Example response:
// {
//   "count": 123,
//   "next": "http://foodgram.example.org/api/recipes/?page=2",
//   "previous": null,
//   "results": [{"id": 1, "name": "Борщ", ...}]
// }
func (c *RecipeController) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	viewerID, authenticated := middleware.UserIDFromContext(r.Context())

	page, err := positiveIntParam(query.Get("page"), 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid page parameter")
		return
	}
	limit, err := positiveIntParam(query.Get("limit"), c.pageSize)
	if err != nil || limit > maxPageLimit {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxPageLimit))
		return
	}

	filter := models.RecipeFilter{
		Tags:     query["tags"],
		ViewerID: viewerID,
	}
	if authorStr := query.Get("author"); authorStr != "" {
		authorID, err := strconv.ParseInt(authorStr, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid author parameter")
			return
		}
		filter.AuthorID = &authorID
	}
	// The cart filter only means something for an authenticated caller
	if isTruthy(query.Get("is_in_shopping_cart")) && authenticated {
		filter.IsInShoppingCart = true
	}

	pageReq := models.Page{Number: page, Limit: limit}
	recipes, total, err := c.repository.List(r.Context(), filter, pageReq)
	if err != nil {
		logger.Error().Err(err).Msg("❌ ListRecipes: Error fetching recipes")
		writeError(w, http.StatusInternalServerError, "Failed to fetch recipes")
		return
	}

	response := models.PaginatedRecipes{
		Count:   total,
		Results: recipes,
	}
	if pageReq.Offset()+len(recipes) < total {
		response.Next = pageURL(r, page+1)
	}
	if page > 1 {
		response.Previous = pageURL(r, page-1)
	}
	if response.Results == nil {
		response.Results = []models.Recipe{}
	}

	writeJSON(w, http.StatusOK, response)
}

// Get handles GET /api/recipes/{id}/
func (c *RecipeController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	viewerID, _ := middleware.UserIDFromContext(r.Context())

	recipe, err := c.repository.Get(r.Context(), id, viewerID)
	if err != nil {
		c.writeRepositoryError(w, err, "GetRecipe", id)
		return
	}
	writeJSON(w, http.StatusOK, recipe)
}

// Create handles POST /api/recipes/
// Example request:
// {
//   "ingredients": [{"id": 1123, "amount": 10}],
//   "tags": [1, 2],
//   "image": "https://cdn.example.com/recipes/borsch.png",
//   "name": "Борщ",
//   "text": "Сварить свёклу...",
//   "cooking_time": 90
// }
func (c *RecipeController) Create(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserIDFromContext(r.Context())

	var input models.RecipeInput
	if err := decodeAndValidate(r, &input); err != nil {
		logger.Warn().Err(err).Int64("user_id", userID).Msg("❌ CreateRecipe: invalid request")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := c.repository.Create(r.Context(), userID, &input)
	if err != nil {
		c.writeRepositoryError(w, err, "CreateRecipe", 0)
		return
	}

	recipe, err := c.repository.Get(r.Context(), id, userID)
	if err != nil {
		c.writeRepositoryError(w, err, "CreateRecipe", id)
		return
	}

	logger.Info().Int64("recipe_id", id).Int64("user_id", userID).Msg("✅ CreateRecipe: recipe created")
	writeJSON(w, http.StatusCreated, recipe)
}

// Update handles PATCH /api/recipes/{id}/ (author only)
// The body has the same shape as Create; tags and ingredients are replaced.
func (c *RecipeController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := c.authorizeAuthor(w, r, "UpdateRecipe")
	if !ok {
		return
	}
	userID, _ := middleware.UserIDFromContext(r.Context())

	var input models.RecipeInput
	if err := decodeAndValidate(r, &input); err != nil {
		logger.Warn().Err(err).Int64("recipe_id", id).Msg("❌ UpdateRecipe: invalid request")
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := c.repository.Update(r.Context(), id, &input); err != nil {
		c.writeRepositoryError(w, err, "UpdateRecipe", id)
		return
	}

	recipe, err := c.repository.Get(r.Context(), id, userID)
	if err != nil {
		c.writeRepositoryError(w, err, "UpdateRecipe", id)
		return
	}

	logger.Info().Int64("recipe_id", id).Msg("✅ UpdateRecipe: recipe updated")
	writeJSON(w, http.StatusOK, recipe)
}

// Delete handles DELETE /api/recipes/{id}/ (author only)
func (c *RecipeController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := c.authorizeAuthor(w, r, "DeleteRecipe")
	if !ok {
		return
	}

	if err := c.repository.Delete(r.Context(), id); err != nil {
		c.writeRepositoryError(w, err, "DeleteRecipe", id)
		return
	}

	logger.Info().Int64("recipe_id", id).Msg("✅ DeleteRecipe: recipe deleted")
	w.WriteHeader(http.StatusNoContent)
}

// authorizeAuthor loads the recipe of the {id} parameter and checks the caller wrote it
func (c *RecipeController) authorizeAuthor(w http.ResponseWriter, r *http.Request, op string) (int64, bool) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return 0, false
	}
	userID, _ := middleware.UserIDFromContext(r.Context())

	recipe, err := c.repository.Get(r.Context(), id, userID)
	if err != nil {
		c.writeRepositoryError(w, err, op, id)
		return 0, false
	}
	if recipe.Author.ID != userID {
		logger.Warn().Int64("recipe_id", id).Int64("user_id", userID).Msgf("❌ %s: caller is not the author", op)
		writeError(w, http.StatusForbidden, "You do not have permission to perform this action")
		return 0, false
	}
	return id, true
}

func (c *RecipeController) writeRepositoryError(w http.ResponseWriter, err error, op string, id int64) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "Recipe not found")
	case errors.Is(err, repository.ErrUnknownReference):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logger.Error().Err(err).Int64("recipe_id", id).Msgf("❌ %s: repository error", op)
		writeError(w, http.StatusInternalServerError, "Failed to process recipe")
	}
}

// positiveIntParam parses an optional positive integer query value
func positiveIntParam(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid value %q", raw)
	}
	return n, nil
}

func isTruthy(s string) bool {
	switch s {
	case "1", "true", "True":
		return true
	}
	return false
}

// pageURL returns the absolute URL of the current request with the page parameter replaced
func pageURL(r *http.Request, page int) *string {
	query := r.URL.Query()
	query.Set("page", strconv.Itoa(page))

	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	u := fmt.Sprintf("%s://%s%s?%s", scheme, r.Host, r.URL.Path, query.Encode())
	return &u
}
