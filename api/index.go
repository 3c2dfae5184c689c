package handler

import (
	"context"
	"net/http"
	"sync"

	"github.com/wadjakorntonsri/go-binder-catalog/pkg/app"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/config"
	"github.com/wadjakorntonsri/go-binder-catalog/pkg/logger"
)

var (
	once    sync.Once
	mux     http.Handler
	initErr error
)

func setup() {
	cfg, err := config.Load()
	if err != nil {
		initErr = err
		return
	}
	log := logger.New(logger.Config{Production: cfg.IsProduction(), Level: cfg.LogLevel})

	// Note: On Vercel, a local SQLite file is ephemeral; point DATABASE_URL at Postgres or Turso
	application, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("failed to start", "error", err)
		initErr = err
		return
	}
	mux = application.Handler
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(setup)
	if initErr != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":"service unavailable"}`))
		return
	}
	mux.ServeHTTP(w, r)
}
