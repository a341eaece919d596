package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"eld-trip-service/internal/config"
	"eld-trip-service/internal/db"
	"eld-trip-service/internal/http/middleware"
)

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, cfg *config.Config, database *gorm.DB) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Type"},
		MaxAge:          12 * time.Hour,
	}))
	router.Use(middleware.RateLimit(rate.Limit(cfg.HTTP.RateLimitPerSec), cfg.HTTP.RateLimitBurst))

	router.GET("/healthz", func(c *gin.Context) {
		if database != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := db.HealthCheck(ctx, database); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	protected := router.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		protected.POST("/trips", handler.planTrip)
		protected.GET("/trips", handler.listTrips)
		protected.GET("/trips/:id", handler.getTrip)

		// Reference data never changes at runtime, so responses are cached.
		referenceStore := cache.New(cfg.HTTP.ReferenceTTL, 2*cfg.HTTP.ReferenceTTL)
		reference := protected.Group("/reference")
		reference.Use(middleware.CacheGET(referenceStore, cfg.HTTP.ReferenceTTL))
		{
			reference.GET("/exceptions", handler.listExceptions)
			reference.GET("/rules", handler.listRules)
		}
	}

	return router
}
