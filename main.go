package main

import (
	"context"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/sobran5883/tasks-management-dashboard/internal/api"
	"github.com/sobran5883/tasks-management-dashboard/internal/client/storage"
	"github.com/sobran5883/tasks-management-dashboard/internal/config"
	"github.com/sobran5883/tasks-management-dashboard/internal/logger"
	"github.com/sobran5883/tasks-management-dashboard/internal/repository"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init("tasks-api", cfg.LogLevel)

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := repository.Connect(ctx, cfg.MongoURI)
	if err != nil {
		log.WithError(err).Fatal("failed to connect to database")
	}
	defer client.Disconnect(context.Background())
	log.Info("database connection established")

	db := client.Database(cfg.MongoDB)
	taskRepo := repository.NewMongoTaskRepository(db)
	userRepo := repository.NewMongoUserRepository(db)

	var store storage.Uploader
	if cfg.StorageURL != "" {
		store = storage.NewHTTPStore(cfg.StorageURL, cfg.StorageToken)
		log.WithField("url", cfg.StorageURL).Info("asset storage configured")
	} else {
		log.Warn("STORAGE_URL not set, asset uploads are disabled")
	}

	router := api.SetupRouter(taskRepo, userRepo, store, cfg.JWTSecret, log)

	addr := ":" + cfg.Port
	log.WithField("port", cfg.Port).Info("server listening")
	if err := http.ListenAndServe(addr, router); err != nil {
		log.WithError(err).Fatal("server failed")
	}
}
