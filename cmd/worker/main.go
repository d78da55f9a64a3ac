package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"picxury_api/internal/config"
	"picxury_api/internal/logger"
	"picxury_api/internal/services"
	"picxury_api/internal/tasks"
)

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

	if cfg.DatabaseURL == "" {
		logger.Log.Fatal("DATABASE_URL not set")
	}
	db, err := services.InitDB(cfg.DatabaseURL, cfg.LogMode)
	if err != nil {
		logger.Log.Fatalw("Failed to connect to database", "error", err)
	}

	// The tick lock keeps replicas from running the same tasks twice
	var locker tasks.Locker
	if cfg.RedisURL != "" {
		cache, err := services.NewRedisCache(cfg.RedisURL)
		if err != nil {
			logger.Log.Warnw("Redis unavailable, running without tick lock", "error", err)
		} else {
			defer cache.Close()
			locker = cache
		}
	}

	tasks.DefineTasks(tasks.Dependencies{
		Mailer:       services.NewEmailService(cfg.SMTP),
		Messenger:    services.NewWahaService(cfg.Waha),
		ContactEmail: cfg.ContactEmail,
	})
	runner := tasks.NewRunner(db, tasks.GlobalRegistry, locker, cfg.WorkerInterval)

	logger.Log.Infow("Worker started", "interval", cfg.WorkerInterval.String(), "tasks", tasks.GlobalRegistry.Names())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Log.Info("Shutting down worker...")
		cancel()
	}()

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	// Run once at startup so queued work does not wait a full interval
	processScheduledTasks(ctx, runner)

	for {
		select {
		case <-ticker.C:
			processScheduledTasks(ctx, runner)
		case <-ctx.Done():
			return
		}
	}
}

func processScheduledTasks(ctx context.Context, runner *tasks.Runner) {
	processed, err := runner.Tick(ctx)
	if err != nil {
		logger.Log.Errorw("Error processing scheduled tasks", "error", err)
		return
	}
	if processed > 0 {
		logger.Log.Infow("Processed scheduled tasks", "count", processed)
	}
}
