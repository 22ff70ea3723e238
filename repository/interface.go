package repository

import (
	"context"
	"errors"

	"foodgram/models"
)

var (
	// ErrNotFound is returned when the requested row does not exist
	ErrNotFound = errors.New("not found")
	// ErrAlreadyInCart is returned when the recipe is already in the user's cart
	ErrAlreadyInCart = errors.New("recipe already in shopping cart")
	// ErrNotInCart is returned when removing a recipe that is not in the cart
	ErrNotInCart = errors.New("recipe not in shopping cart")
	// ErrUnknownReference is returned when a recipe refers to a missing tag or ingredient
	ErrUnknownReference = errors.New("unknown tag or ingredient")
)

// ShoppingCartRepositoryInterface defines the contract for shopping cart operations
type ShoppingCartRepositoryInterface interface {
	// ListLineItems returns every ingredient line of every recipe in the user's cart,
	// ordered by cart entry id then quantity row id
	ListLineItems(ctx context.Context, userID int64) ([]models.LineItem, error)
	Add(ctx context.Context, userID, recipeID int64) (*models.ShoppingCartEntry, error)
	Remove(ctx context.Context, userID, recipeID int64) error
}

// RecipeRepositoryInterface defines the contract for recipe operations
type RecipeRepositoryInterface interface {
	List(ctx context.Context, filter models.RecipeFilter, page models.Page) ([]models.Recipe, int, error)
	Get(ctx context.Context, id int64, viewerID int64) (*models.Recipe, error)
	Create(ctx context.Context, authorID int64, input *models.RecipeInput) (int64, error)
	Update(ctx context.Context, id int64, input *models.RecipeInput) error
	Delete(ctx context.Context, id int64) error
}

// TagRepositoryInterface defines the contract for tag operations
type TagRepositoryInterface interface {
	List(ctx context.Context) ([]models.Tag, error)
	Get(ctx context.Context, id int64) (*models.Tag, error)
}

// IngredientRepositoryInterface defines the contract for ingredient operations
type IngredientRepositoryInterface interface {
	// List returns ingredients whose name contains nameFilter (case-insensitive); empty matches all
	List(ctx context.Context, nameFilter string) ([]models.Ingredient, error)
	Get(ctx context.Context, id int64) (*models.Ingredient, error)
}
