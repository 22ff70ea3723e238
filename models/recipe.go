package models

import "time"

// Recipe represents a recipe with its tags, author and ingredients
type Recipe struct {
	ID               int64              `json:"id"`
	Tags             []Tag              `json:"tags"`
	Author           Author             `json:"author"`
	Ingredients      []IngredientAmount `json:"ingredients"`
	IsInShoppingCart bool               `json:"is_in_shopping_cart"`
	Name             string             `json:"name"`
	Image            string             `json:"image"`
	Text             string             `json:"text"`
	CookingTime      int                `json:"cooking_time"`
	CreatedAt        time.Time          `json:"-"`
}

// ShortRecipe is the compact representation returned by cart operations
type ShortRecipe struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// Short returns the compact representation of the recipe
func (r *Recipe) Short() ShortRecipe {
	return ShortRecipe{
		ID:          r.ID,
		Name:        r.Name,
		Image:       r.Image,
		CookingTime: r.CookingTime,
	}
}

// RecipeIngredientInput is one ingredient line of a create/update request
// Example: {"id": 1123, "amount": 10}
type RecipeIngredientInput struct {
	ID     int64 `json:"id" validate:"required,gt=0"`
	Amount int   `json:"amount" validate:"required,min=1,max=32767"`
}

// RecipeInput represents the request body for creating or updating a recipe
// Example: {
//   "ingredients": [{"id": 1123, "amount": 10}],
//   "tags": [1, 2],
//   "image": "https://cdn.example.com/recipes/borsch.png",
//   "name": "Борщ",
//   "text": "Сварить свёклу...",
//   "cooking_time": 90
// }
type RecipeInput struct {
	Ingredients []RecipeIngredientInput `json:"ingredients" validate:"required,min=1,unique=ID,dive"`
	Tags        []int64                 `json:"tags" validate:"required,min=1,unique,dive,gt=0"`
	Image       string                  `json:"image" validate:"omitempty,max=2048"`
	Name        string                  `json:"name" validate:"required,max=200"`
	Text        string                  `json:"text" validate:"required"`
	CookingTime int                     `json:"cooking_time" validate:"required,min=1,max=32767"`
}

// RecipeFilter holds the optional filters of the recipe list
type RecipeFilter struct {
	Tags             []string
	AuthorID         *int64
	IsInShoppingCart bool
	// ViewerID is the caller (0 for anonymous); used for is_in_shopping_cart
	ViewerID int64
}

// Page is a 1-based page request
type Page struct {
	Number int
	Limit  int
}

// Offset returns the row offset of the page
func (p Page) Offset() int {
	if p.Number < 1 {
		return 0
	}
	return (p.Number - 1) * p.Limit
}

// PaginatedRecipes is the paginated list response
type PaginatedRecipes struct {
	Count    int      `json:"count"`
	Next     *string  `json:"next"`
	Previous *string  `json:"previous"`
	Results  []Recipe `json:"results"`
}
