package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ndiawar/JokkoHealthBack-sub000/internal/appointment"
	"github.com/ndiawar/JokkoHealthBack-sub000/internal/notification"
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

	users := repository.NewUserRepository(db, logger)
	records := repository.NewMedicalRecordRepo(db, logger)

	engine := notification.New(cfg, logger, notification.NewRepository(db, logger), nil)
	notifier := appointment.NewNotifier(engine, records, users, logger)
	service := appointment.New(cfg, logger, appointment.NewRepository(db, logger), users, notifier)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	go func() {
		logger.Infof("Starting Appointment Service on port %s", port)
		if err := service.Start(":" + port); err != nil {
			logger.Fatalf("Failed to start Appointment Service: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down Appointment Service...")
	if err := service.Stop(); err != nil {
		logger.Errorf("Error during shutdown: %v", err)
	}
	logger.Info("Appointment Service stopped")
}
