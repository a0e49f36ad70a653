package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/recipebox/recipebox-api/internal/crypto"
	"github.com/recipebox/recipebox-api/internal/metrics"
	"github.com/recipebox/recipebox-api/internal/middleware"
	"github.com/recipebox/recipebox-api/internal/service"
)

// RouterConfig carries the dependencies of the HTTP surface.
type RouterConfig struct {
	Auth        *service.AuthService
	Tags        *service.AttributeService
	Ingredients *service.AttributeService
	Recipes     *service.RecipeService
	Tokens      *crypto.TokenIssuer
	Metrics     *metrics.Metrics
	Logger      *slog.Logger

	// Media serves stored uploads under /media when non-nil.
	Media http.Handler

	CORSAllowedOrigins []string
	AuthRateLimitRPS   float64
	AuthRateLimitBurst int
	UploadMaxBytes     int64
}

// NewRouter builds the API router. ctx bounds background work such as the
// rate limiter's eviction loop.
func NewRouter(ctx context.Context, cfg RouterConfig) http.Handler {
	users := NewUserHandler(cfg.Auth)
	tags := NewAttributeHandler(cfg.Tags)
	ingredients := NewAttributeHandler(cfg.Ingredients)
	recipes := NewRecipeHandler(cfg.Recipes, cfg.UploadMaxBytes)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)
	r.Use(chimw.StripSlashes)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse("not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse("method not allowed"))
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}
	if cfg.Media != nil {
		r.Handle("/media/*", http.StripPrefix("/media", cfg.Media))
	}

	r.Route("/api/user", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(ctx, cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst))
			r.Post("/create", users.HandleCreate)
			r.Post("/token", users.HandleToken)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(cfg.Tokens))
			r.Get("/me", users.HandleMe)
			r.Put("/me", users.HandleUpdateMe)
			r.Patch("/me", users.HandleUpdateMe)
		})
	})

	r.Route("/api/recipe", func(r chi.Router) {
		r.Use(middleware.JWTAuth(cfg.Tokens))

		r.Get("/tags", tags.HandleList)
		r.Post("/tags", tags.HandleCreate)
		r.Get("/ingredients", ingredients.HandleList)
		r.Post("/ingredients", ingredients.HandleCreate)

		r.Get("/recipes", recipes.HandleList)
		r.Post("/recipes", recipes.HandleCreate)
		r.Get("/recipes/{id}", recipes.HandleGet)
		r.Put("/recipes/{id}", recipes.HandleUpdate)
		r.Patch("/recipes/{id}", recipes.HandleUpdate)
		r.Delete("/recipes/{id}", recipes.HandleDelete)
		r.Post("/recipes/{id}/upload-image", recipes.HandleUploadImage)
	})

	return r
}
