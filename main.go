package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"campaign-flow/api/pkg/config"
	"campaign-flow/api/pkg/db"
	"campaign-flow/api/pkg/metrics"
	"campaign-flow/api/services/dashboard"
	"campaign-flow/api/services/flow"
	"campaign-flow/api/services/onboarding"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	slog.SetDefault(slog.New(logHandler))

	var repo flow.FlowRepo
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL is not set, flows are kept in memory")
		repo = flow.NewMemoryRepository()
	} else {
		pool, err := db.Connect(ctx, db.Config{URI: cfg.DatabaseURL, MaxConns: cfg.DBMaxConns})
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			return
		}
		defer pool.Close()

		// Initialize database schema and seed data
		if err := flow.InitDB(ctx, pool); err != nil {
			slog.Error("Failed to initialize database", "error", err)
			return
		}
		repo = flow.NewRepository(pool)
	}

	var seen onboarding.SeenStore
	if cfg.RedisURL == "" {
		seen = onboarding.NewMemoryStore()
	} else {
		store, err := onboarding.NewRedisStore(cfg.RedisURL)
		if err != nil {
			slog.Error("Failed to configure redis", "error", err)
			return
		}
		defer store.Close()
		if err := store.Ping(ctx); err != nil {
			slog.Error("Failed to connect to redis", "error", err)
			return
		}
		seen = store
	}

	m := metrics.New()
	provider := dashboard.NewProvider(cfg.InsightsDelay, nil)

	// setup router
	mainRouter := mux.NewRouter()
	mainRouter.Use(m.Middleware)
	mainRouter.Handle("/metrics", m.Handler()).Methods("GET")

	apiRouter := mainRouter.PathPrefix("/api/v1").Subrouter()

	flow.NewService(repo, provider, m).LoadRoutes(apiRouter)
	dashboard.NewService(provider).LoadRoutes(apiRouter)
	onboarding.NewService(seen).LoadRoutes(apiRouter)

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{cfg.AllowedOrigin}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.ExposedHeaders([]string{"Content-Disposition"}),
		handlers.AllowCredentials(),
	)(mainRouter)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("Starting server", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		slog.Error("Server error", "error", err)

	case sig := <-shutdown:
		slog.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("Could not stop server gracefully", "error", err)
			srv.Close()
		}
	}
}
