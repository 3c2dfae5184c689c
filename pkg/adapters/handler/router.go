package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/wadjakorntonsri/go-binder-catalog/pkg/config"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/ports"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/validation"
)

// Services groups the application services the router dispatches to
type Services struct {
	Cards   ports.CardService
	Binders ports.BinderService
	Catalog ports.CatalogService
}

// NewRouter creates and configures the main application router
func NewRouter(cfg *config.Config, logger *slog.Logger, svc Services) http.Handler {
	base := responder{
		logger:     logger,
		validator:  validation.New(),
		production: cfg.IsProduction(),
	}
	cards := NewCardHandler(base, svc.Cards)
	binders := NewBinderHandler(base, svc.Binders)
	catalog := NewCatalogHandler(base, svc.Catalog)

	mw := NewMiddleware(cfg, logger)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(mw.Authenticate)

	r.Get("/healthz", catalog.Health)

	r.Route("/cards", func(r chi.Router) {
		r.Get("/", cards.List)
		r.Get("/top", cards.Top)
		r.Get("/random", cards.Random)
		r.Get("/{id}", cards.Get)
		r.With(mw.RequireAuth).Post("/move", cards.Move)
	})

	r.Route("/binders", func(r chi.Router) {
		r.Get("/", binders.List)
		r.Post("/", binders.Create)
		r.Get("/top", binders.Top)
		r.Get("/random", binders.Random)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", binders.Get)
			r.Get("/cards", binders.Cards)

			// Owner-only
			r.Group(func(r chi.Router) {
				r.Use(mw.RequireAuth)
				r.Put("/", binders.Update)
				r.Delete("/", binders.Delete)
				r.Post("/tags/{tagId}", binders.AttachTag)
				r.Delete("/tags/{tagId}", binders.DetachTag)
			})
		})
	})

	r.Get("/thumbnails", catalog.Thumbnails)

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)
		r.Get("/tags", catalog.Tags)
		r.Post("/users/register", catalog.RegisterUser)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})

	return r
}
