package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/ESTDOM/profile_service/internal/app"
	"github.com/ESTDOM/profile_service/internal/config"
	"github.com/ESTDOM/profile_service/internal/db"
	"github.com/ESTDOM/profile_service/internal/services"
	"github.com/ESTDOM/profile_service/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	// подключаем БД, Redis и хранилище документов
	dbConn := db.ConnectPostgres(cfg.Database)
	rdb := db.ConnectRedis(cfg.Redis)
	s3 := db.ConnectS3(cfg.Storage)

	db.Migrate(dbConn)

	storage := services.NewDocumentStorage(s3, cfg.Storage.Bucket, zapLogger)
	if err := storage.EnsureBucket(context.Background()); err != nil {
		log.Fatalf("Failed to ensure bucket: %v", err)
	}

	// health-эндпоинты для мониторинга; формы обслуживает слой представления
	healthChecker := app.NewHealthChecker(dbConn, rdb, s3, cfg.Storage.Bucket)

	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := healthChecker.CheckHealth()
		w.Header().Set("Content-Type", "application/json")
		if status.Status != "healthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(status)
	})

	http.HandleFunc("/health/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(healthChecker.GetDetailedStats())
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	zapLogger.Info("Profile service is running", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
