package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/recipebox/recipebox-api/internal/config"
	"github.com/recipebox/recipebox-api/internal/crypto"
	"github.com/recipebox/recipebox-api/internal/handler"
	"github.com/recipebox/recipebox-api/internal/metrics"
	"github.com/recipebox/recipebox-api/internal/repository"
	"github.com/recipebox/recipebox-api/internal/service"
	"github.com/recipebox/recipebox-api/internal/storage"
	"github.com/recipebox/recipebox-api/internal/validation"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := repository.NewDB(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		slog.Error("database connection failed", "driver", cfg.DatabaseDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := repository.Migrate(ctx, db, cfg.DatabaseDriver); err != nil {
		slog.Error("database migration failed", "error", err)
		os.Exit(1)
	}

	disk, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		slog.Error("storage setup failed", "disk", cfg.Storage.Disk, "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	validate := validation.New()
	hasher := crypto.NewHasher(crypto.DefaultHashParams())
	tokens := crypto.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)

	tagRepo := repository.NewTagRepository(db)
	ingredientRepo := repository.NewIngredientRepository(db)

	routerCfg := handler.RouterConfig{
		Auth:               service.NewAuthService(repository.NewUserRepository(db), hasher, tokens, validate, m),
		Tags:               service.NewAttributeService(tagRepo, validate),
		Ingredients:        service.NewAttributeService(ingredientRepo, validate),
		Recipes:            service.NewRecipeService(repository.NewRecipeRepository(db), tagRepo, ingredientRepo, disk, validate, m),
		Tokens:             tokens,
		Metrics:            m,
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		AuthRateLimitRPS:   cfg.AuthRateLimitRPS,
		AuthRateLimitBurst: cfg.AuthRateLimitBurst,
		UploadMaxBytes:     cfg.UploadMaxBytes,
	}
	if local, ok := disk.(*storage.LocalDisk); ok {
		routerCfg.Media = local.Handler()
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.NewRouter(ctx, routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "db", cfg.DatabaseDriver, "disk", cfg.Storage.Disk)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// newLogger writes JSON in production and text elsewhere.
func newLogger(cfg config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.IsProduction() {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
