package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"picxury_api/internal/config"
	"picxury_api/internal/handlers"
	"picxury_api/internal/logger"
	authMiddleware "picxury_api/internal/middleware"
	"picxury_api/internal/services"
	"picxury_api/internal/tasks"
)

// uploadsPath is where locally stored photos are served from
const uploadsPath = "/storage"

func main() {
	cfg, dotenvLoaded, err := config.Load()
	logger.Init(cfg.LogMode)
	defer logger.Sync()
	if err != nil {
		logger.Log.Fatalw("invalid configuration", "error", err)
	}
	if !dotenvLoaded {
		logger.Log.Info("No .env file found, using system environment")
	}

	ctx := context.Background()

	// Database
	if cfg.DatabaseURL == "" {
		logger.Log.Fatal("DATABASE_URL not set")
	}
	db, err := services.InitDB(cfg.DatabaseURL, cfg.LogMode)
	if err != nil {
		logger.Log.Fatalw("Failed to connect to database", "error", err)
	}
	if err := services.AutoMigrate(db); err != nil {
		logger.Log.Fatalw("Failed to run database migrations", "error", err)
	}

	// Redis is optional: without it the catalog is not cached and album
	// logins are not throttled.
	var cache *services.RedisCache
	if cfg.RedisURL != "" {
		cache, err = services.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logger.Log.Warnw("Redis unavailable, caching disabled", "error", err)
			cache = nil
		} else {
			defer cache.Close()
		}
	}

	// Firebase
	var verifier authMiddleware.TokenVerifier
	var store services.FileStore = services.NewLocalStore(cfg.UploadDir, cfg.AppURL+uploadsPath)
	app, err := services.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseStorageBucket)
	if err != nil {
		logger.Log.Warnw("Firebase initialization failed, photographer routes will answer 503", "error", err)
	} else {
		authClient, err := services.FirebaseAuth(ctx, app)
		if err != nil {
			logger.Log.Warnw("Firebase auth unavailable", "error", err)
		} else {
			verifier = authClient
		}
		if cfg.FirebaseStorageBucket != "" {
			bucketStore, err := services.FirebaseBucketStore(ctx, app, cfg.FirebaseStorageBucket)
			if err != nil {
				logger.Log.Warnw("Firebase storage unavailable, using local disk", "error", err)
			} else {
				store = bucketStore
			}
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = handlers.NewRequestValidator()
	e.HTTPErrorHandler = authMiddleware.CustomErrorHandler

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("4M"))

	if _, ok := store.(*services.LocalStore); ok {
		e.Static(uploadsPath, cfg.UploadDir)
	}

	handlers.RegisterRoutes(e, handlers.Dependencies{
		DB:               db,
		Cache:            cache,
		Store:            store,
		Verifier:         verifier,
		Queue:            tasks.NewQueue(db),
		Payments:         services.NewMidtransService(cfg.Midtrans),
		AppURL:           cfg.AppURL,
		CatalogCacheTTL:  cfg.CatalogCacheTTL,
		PhotoServiceID:   cfg.PhotoServiceID,
		MaxLoginAttempts: cfg.AlbumLoginMaxAttempts,
		LoginWindow:      cfg.AlbumLoginWindow,
	})

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
	})

	go func() {
		logger.Log.Infow("Server starting", "port", cfg.Port, "env", cfg.Env)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalw("Server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("Server shutdown failed", "error", err)
	}
}
