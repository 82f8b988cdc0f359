package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"geekseek/config"
	"geekseek/models"
	"geekseek/providers/geekseek"
	"geekseek/services"
	"geekseek/storage"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func apiKeyAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.APISecretKey == "" {
			c.Next()
			return
		}
		apiKey := c.GetHeader("X-API-KEY")
		if apiKey != cfg.APISecretKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Invalid API Key"})
			return
		}
		c.Next()
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.LogDevelopment {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newRouter(cfg *config.Config, searchService *services.SearchService, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(apiKeyAuthMiddleware(cfg))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	setupHealthRoutes(router)
	setupSearchRoutes(router, searchService, log)
	setupSessionRoutes(router, searchService, log)
	return router
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logging, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	// Such-Protokoll ist optional
	var searchLogs *storage.SearchLogRepository
	if cfg.SearchLogEnabled() {
		db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		if err != nil {
			logging.Fatal("Failed to connect to search log database", zap.Error(err))
		}
		logging.Info("Running database auto-migration...")
		searchLogs, err = storage.NewSearchLogRepository(db)
		if err != nil {
			logging.Fatal("Search log migration failed", zap.Error(err))
		}
		logging.Info("Successfully connected to search log database.")
	} else {
		logging.Info("DB_HOST not set, search log disabled.")
	}

	fetcher := geekseek.NewFetcher(cfg, logging)

	var store services.SearchLogStore
	if searchLogs != nil {
		store = searchLogs
	}
	searchService := services.NewSearchService(cfg, fetcher, store, logging)

	router := newRouter(cfg, searchService, logging)

	cronScheduler := cron.New()
	if searchLogs != nil {
		exporter := &services.SearchLogExporter{
			Archive:       searchLogs,
			Logger:        logging.With(zap.String("job", "search-log-export")),
			RetentionDays: cfg.SearchLogRetentionDays,
		}
		if cfg.ExportEnabled() {
			uploader, err := storage.NewS3Uploader(cfg)
			if err != nil {
				logging.Fatal("S3 client creation failed", zap.Error(err))
			}
			exporter.Uploader = uploader
		}
		_, err := cronScheduler.AddFunc(cfg.CronSchedule, func() {
			logging.Info("Running scheduled search log export...")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			if err := exporter.RunNightly(ctx); err != nil {
				logging.Error("Cron job failed", zap.Error(err))
			}
		})
		if err != nil {
			logging.Fatal("Invalid CRON_SCHEDULE", zap.String("schedule", cfg.CronSchedule), zap.Error(err))
		}
	}
	cronScheduler.Start()
	defer cronScheduler.Stop()

	logging.Info("Starting server",
		zap.String("port", cfg.HTTPPort),
		zap.String("upstream", cfg.GeekSeekBaseURL),
		zap.String("default_mode", string(models.ModePlaces)))
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		// Upstream darf bis GEEKSEEK_TIMEOUT brauchen
		WriteTimeout: cfg.GeekSeekTimeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil {
		logging.Fatal("Failed to run server", zap.Error(err))
	}
}
