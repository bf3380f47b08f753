package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ndiawar/JokkoHealthBack-sub000/internal/notification"
	"github.com/ndiawar/JokkoHealthBack-sub000/internal/sensor"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/cache"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/config"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/database"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/logger"
	"github.com/ndiawar/JokkoHealthBack-sub000/pkg/repository"
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

	redisClient := cache.NewRedisClient(&cfg.Redis)
	defer redisClient.Close()

	users := repository.NewUserRepository(db, logger)
	records := repository.NewMedicalRecordRepo(db, logger)

	engine := notification.New(cfg, logger, notification.NewRepository(db, logger), nil)
	escalator := sensor.NewEscalator(engine, records, users, logger)
	tracker := sensor.NewTrackerStoreWith(
		time.Duration(cfg.Alerting.WindowMinutes)*time.Minute,
		cfg.Alerting.ConfirmThreshold,
	)
	publisher := sensor.NewLivePublisher(redisClient, logger)

	service := sensor.New(cfg, logger, sensor.NewRepository(db, logger), records, tracker, publisher, escalator)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8082"
	}

	go func() {
		logger.Infof("Starting Sensor Service on port %s", port)
		if err := service.Start(":" + port); err != nil {
			logger.Fatalf("Failed to start Sensor Service: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down Sensor Service...")
	if err := service.Stop(); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
	logger.Info("Sensor Service stopped")
}
