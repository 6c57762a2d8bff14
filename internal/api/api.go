// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/storeops/replenish-backend/internal/api/handlers"
	"github.com/storeops/replenish-backend/internal/api/middleware"
	"github.com/storeops/replenish-backend/internal/repository"
	"github.com/storeops/replenish-backend/internal/service"
	"github.com/storeops/replenish-backend/internal/storage"
)

type Services struct {
	SearchService    *service.SearchService
	InventoryService *service.InventoryService
	ReconcileService *service.ReconcileService
	AuthService      *service.AuthService
	Audit            repository.AuditRepository
	Archive          storage.UploadArchive
	CookieDomain     string
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	dataHandler := handlers.NewDataHandler(
		services.SearchService,
		services.InventoryService,
		services.ReconcileService,
		services.AuthService,
		services.Audit,
		services.Archive,
	)
	userHandler := handlers.NewUserHandler(services.AuthService, services.CookieDomain)

	userGroup := router.Group("/user")
	{
		userGroup.POST("/signin", userHandler.SignIn)
		userGroup.POST("/signout", userHandler.SignOut)
		userGroup.POST("/auth", userHandler.Auth)
		userGroup.POST("/signup", userHandler.SignUp)
	}

	dataGroup := router.Group("/data")
	dataGroup.Use(middleware.RequireAuth(services.AuthService))
	{
		dataGroup.POST("/getReplenishData", dataHandler.GetReplenishData)
		dataGroup.POST("/upsertSnapshot", dataHandler.UpsertSnapshot)
		dataGroup.POST("/reconcileSaleTags", dataHandler.ReconcileSaleTags)
		dataGroup.POST("/log", dataHandler.Log)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		for _, part := range strings.Split(origin, ",") {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
