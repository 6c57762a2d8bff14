// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storeops/replenish-backend/internal/api"
	"github.com/storeops/replenish-backend/internal/cache"
	"github.com/storeops/replenish-backend/internal/config"
	"github.com/storeops/replenish-backend/internal/repository/mysql"
	"github.com/storeops/replenish-backend/internal/service"
	"github.com/storeops/replenish-backend/internal/storage"
	"github.com/storeops/replenish-backend/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := mysql.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	searchCache, err := cache.NewSearchCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Search cache unavailable, continuing without it")
		searchCache = cache.NewNoopSearchCache()
	}

	var archive storage.UploadArchive = storage.NoopArchive{}
	if cfg.Archive.Enabled {
		minioArchive, err := storage.NewMinioArchive(cfg.Archive)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Upload archive unavailable, continuing without it")
		} else {
			archive = minioArchive
		}
	}

	itemRepo := mysql.NewItemRepository(db)
	tagRepo := mysql.NewTagRepository(db)
	userRepo := mysql.NewUserRepository(db)
	auditRepo := mysql.NewAuditRepository(db)

	services := &api.Services{
		SearchService:    service.NewSearchService(itemRepo, searchCache),
		InventoryService: service.NewInventoryService(itemRepo, searchCache),
		ReconcileService: service.NewReconcileService(tagRepo, tagRepo, service.NewTagMissDiagnostics(tagRepo)),
		AuthService:      service.NewAuthService(userRepo, cfg.Auth.Secret),
		Audit:            auditRepo,
		Archive:          archive,
		CookieDomain:     cfg.Auth.CookieDomain,
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
