package app

import (
	"database/sql"
	"net/http"

	"foodgram/app/controller"
	"foodgram/app/middleware"
	"foodgram/app/router"
	"foodgram/config"
	"foodgram/metrics"
	"foodgram/repository"
	"foodgram/service"
)

// Initialize wires repositories, services and controllers and returns the HTTP handler
func Initialize(cfg *config.Config, conn *sql.DB) http.Handler {
	// Initialize repositories
	tagRepo := repository.NewTagRepository(conn)
	ingredientRepo := repository.NewIngredientRepository(conn)
	recipeRepo := repository.NewRecipeRepository(conn)
	cartRepo := repository.NewShoppingCartRepository(conn)

	m := metrics.New()

	// Initialize shopping list service with every export format
	htmlRenderer := service.NewHTMLRenderer(cfg.FontPath)
	shoppingList := service.NewShoppingListService(cartRepo, m,
		service.NewPDFRenderer(htmlRenderer, cfg.ChromePath, cfg.PDFTimeout),
		htmlRenderer,
		service.NewTextRenderer(),
	)

	// Create controllers
	controllers := &router.Controllers{
		Tag:          controller.NewTagController(tagRepo),
		Ingredient:   controller.NewIngredientController(ingredientRepo),
		Recipe:       controller.NewRecipeController(recipeRepo, cfg.PageSize),
		ShoppingCart: controller.NewShoppingCartController(cartRepo, recipeRepo, shoppingList),
	}

	return router.SetupRoutes(controllers, router.Options{
		Auth:               middleware.NewAuthenticator(cfg.JWTSecret),
		Metrics:            m,
		DownloadRateLimit:  cfg.DownloadRateLimit,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})
}
