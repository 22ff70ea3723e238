package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"foodgram/app/controller"
	"foodgram/app/middleware"
	"foodgram/metrics"
)

type Controllers struct {
	Tag          *controller.TagController
	Ingredient   *controller.IngredientController
	Recipe       *controller.RecipeController
	ShoppingCart *controller.ShoppingCartController
}

// Options configures the cross-cutting parts of the router
type Options struct {
	Auth    *middleware.Authenticator
	Metrics *metrics.Metrics
	// DownloadRateLimit is the number of shopping list downloads allowed per IP per minute
	DownloadRateLimit int
	// CORSAllowedOrigins enables CORS for the frontend origins when not empty
	CORSAllowedOrigins []string
}

// pingHandler handles GET /ping
func pingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func tooManyRequests(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	w.Write([]byte(`{"errors":"Too many requests"}`))
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
}

// SetupRoutes builds the HTTP handler of the API
func SetupRoutes(controllers *Controllers, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	if len(opts.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSAllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Disposition"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
	r.MethodNotAllowed(methodNotAllowed)

	// Ping endpoint
	r.Get("/ping", pingHandler)

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(opts.Auth.OptionalAuth)

		// Tags and ingredients are read-only reference data
		r.Get("/tags/", controllers.Tag.List)
		r.Get("/tags/{id}/", controllers.Tag.Get)
		r.Get("/ingredients/", controllers.Ingredient.List)
		r.Get("/ingredients/{id}/", controllers.Ingredient.Get)

		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", controllers.Recipe.List)
			r.Get("/{id}/", controllers.Recipe.Get)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAuth)

				r.Post("/", controllers.Recipe.Create)
				r.Patch("/{id}/", controllers.Recipe.Update)
				r.Delete("/{id}/", controllers.Recipe.Delete)

				r.Post("/{id}/shopping_cart/", controllers.ShoppingCart.Add)
				r.Delete("/{id}/shopping_cart/", controllers.ShoppingCart.Remove)

				r.With(downloadLimiter(opts.DownloadRateLimit)).
					Get("/download_shopping_cart/", controllers.ShoppingCart.Download)
			})
		})
	})

	return r
}

// downloadLimiter throttles shopping list rendering per client IP; 0 disables it
func downloadLimiter(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(tooManyRequests),
	)
}
