// Package app wires configuration, storage, cache and services into an HTTP handler.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/wadjakorntonsri/go-binder-catalog/pkg/adapters/handler"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/adapters/repository/sqlstore"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/cache"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/config"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/core/services"
)

type App struct {
	Handler http.Handler
	Store   *sqlstore.Store
}

// New opens and migrates the store, then builds the router. Close releases the store.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	store, err := sqlstore.Open(cfg.DatabaseURL, cfg.DBPoolSize)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	a, err := Wire(cfg, logger, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return a, nil
}

// Wire builds the router over an already opened store.
func Wire(cfg *config.Config, logger *slog.Logger, store *sqlstore.Store) (*App, error) {
	c, err := cache.New(cfg.Cache())
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}

	urls := services.URLs{
		Site:         cfg.SiteURL,
		CardImages:   cfg.CardImageBaseURL,
		BinderImages: cfg.BinderImageBaseURL,
	}
	views := services.NewViewCounter(logger)
	enrich := services.NewEnricher(store, urls)

	router := handler.NewRouter(cfg, logger, handler.Services{
		Cards:   services.NewCardService(store, c, views, enrich, urls),
		Binders: services.NewBinderService(store, c, views, enrich),
		Catalog: services.NewCatalogService(store, enrich),
	})

	return &App{Handler: router, Store: store}, nil
}

func (a *App) Close() error {
	return a.Store.Close()
}
