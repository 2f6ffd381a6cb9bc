package http

import (
	"github.com/gin-gonic/gin"

	"github.com/celiapp/catalog/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	if cfg.RateLimit.PerIP > 0 {
		v1.Use(RateLimitMiddleware(NewIPRateLimiter(cfg.RateLimit.PerIP)))
	}
	{
		catalog := v1.Group("/catalog")
		{
			catalog.POST("/schema", handler.MapSchema)
			catalog.POST("/clean", handler.CleanCatalog)
		}

		runs := v1.Group("/runs")
		{
			runs.GET("", handler.ListRuns)
			runs.GET("/:id", handler.GetRun)
		}
	}

	return router
}
