package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-pkgz/auth/v2/provider"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/yoshifumik/snapdetect/auth"
	"github.com/yoshifumik/snapdetect/config"
	"github.com/yoshifumik/snapdetect/database"
	"github.com/yoshifumik/snapdetect/detector"
	handler "github.com/yoshifumik/snapdetect/handlers"
	"github.com/yoshifumik/snapdetect/models"
	"github.com/yoshifumik/snapdetect/router"
	"github.com/yoshifumik/snapdetect/services"
	"github.com/yoshifumik/snapdetect/storage"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.Load()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}

	db, err := database.Connect(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Errorf("Failed to close database: %v", err)
		}
	}()

	if err := database.Migrate(db, &models.User{}, &models.Image{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	store, err := storage.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to set up upload dir: %v", err)
	}

	// The detector is built once here and reused for every request.
	det := detector.NewClient(cfg.InferenceURL, log)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := det.CheckHealth(ctx); err != nil {
		log.Warnf("Inference service not available: %v", err)
	}
	cancel()

	userService := services.NewUserService(db, log)
	imageService := services.NewImageService(db, store, det, log)

	auth.Setup(cfg.JWTSecret, cfg.AppURL, provider.CredCheckerFunc(userService.ValidateCredentials))

	app := fiber.New(fiber.Config{
		BodyLimit:    cfg.MaxUploadMB * 1024 * 1024,
		ErrorHandler: handler.ErrorHandler,
	})
	app.Use(logger.New())
	app.Use(recover.New())

	router.SetupRoutes(app, cfg.UploadDir, userService, imageService)

	go func() {
		log.Infof("Server is listening at the port %s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Gracefully shutting down...")
	if err := app.Shutdown(); err != nil {
		log.Errorf("Shutdown error: %v", err)
	}
	log.Info("Server shutdown complete")
}
