package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JoLazarte/marketplace-client/internal/admin"
	"github.com/JoLazarte/marketplace-client/internal/api"
	"github.com/JoLazarte/marketplace-client/internal/auth"
	"github.com/JoLazarte/marketplace-client/internal/cart"
	"github.com/JoLazarte/marketplace-client/internal/catalog"
	"github.com/JoLazarte/marketplace-client/internal/httpapi"
	"github.com/JoLazarte/marketplace-client/internal/purchase"
	"github.com/JoLazarte/marketplace-client/internal/session"
	"github.com/JoLazarte/marketplace-client/pkg/logger"
)

type Config struct {
	HTTPPort        string
	BackendURL      string
	StateDBPath     string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8090"),
		BackendURL:      getEnv("BACKEND_URL", "http://localhost:8080"),
		StateDBPath:     getEnv("STATE_DB_PATH", "storefront.db"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()
	slogger := logger.New("storefront")

	repo, err := session.NewRepository(cfg.StateDBPath)
	if err != nil {
		log.Fatalf("failed to open state db: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	client := api.NewClient(cfg.BackendURL, cfg.RequestTimeout)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancelStartup()

	authSvc := auth.NewService(client, repo)
	if err := authSvc.Restore(startupCtx); err != nil {
		slogger.Warn("could not restore auth session", "error", err)
	}

	lines, err := repo.LoadCart(startupCtx)
	if err != nil {
		slogger.Warn("could not restore cart", "error", err)
	}
	store := cart.NewStore(repo, lines)

	lifecycle := purchase.NewLifecycle(client, store, repo)
	draftID, method, err := repo.LoadPurchaseState(startupCtx)
	if err != nil {
		slogger.Warn("could not restore purchase state", "error", err)
	} else {
		lifecycle.Restore(draftID, method)
	}

	books := catalog.NewCache("books", catalog.NewBookSource(client))
	albums := catalog.NewCache("albums", catalog.NewAlbumSource(client))
	adminSvc := admin.NewService(client, books, albums)

	router := httpapi.NewRouter(httpapi.Handlers{
		Catalog:  httpapi.NewCatalogHandler(books, albums, authSvc),
		Cart:     httpapi.NewCartHandler(store, books, albums, authSvc),
		Checkout: httpapi.NewCheckoutHandler(lifecycle, authSvc),
		Auth:     httpapi.NewAuthHandler(authSvc),
		Admin:    httpapi.NewAdminHandler(adminSvc, authSvc),
	}, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slogger.Info("storefront starting", "port", cfg.HTTPPort, "backend", cfg.BackendURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slogger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	slogger.Info("server exited")
}
