package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndiawar/JokkoHealthBack-sub000/internal/notification"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/config"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/database"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/logger"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/scheduler"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/types"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logger.New(cfg.LogLevel)

	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	engine := notification.New(cfg, logger, notification.NewRepository(db, logger), nil)

	var runner *scheduler.Runner
	if cfg.Notifications.SweepIntervalMinutes > 0 {
		runner = scheduler.NewRunner(logger)
		interval := time.Duration(cfg.Notifications.SweepIntervalMinutes) * time.Minute
		runner.Every(interval, "reminder-sweep", func(ctx context.Context) error {
			_, err := engine.RunReminderSweep(ctx)
			return err
		})
		runner.Every(24*time.Hour, "daily-grouping-sweep", func(ctx context.Context) error {
			_, err := engine.RunGroupingSweep(ctx, types.GroupTypeDaily)
			return err
		})
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8083"
	}

	go func() {
		logger.Infof("Starting Notification Service on port %s", port)
		if err := engine.Start(":" + port); err != nil {
			logger.Fatalf("Failed to start Notification Service: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down Notification Service...")
	if runner != nil {
		runner.Stop()
	}
	if err := engine.Stop(); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
	logger.Info("Notification Service stopped")
}
