package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up the API routes
func SetupRoutes(handler *Handler) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(Recovery())
	router.Use(CORS())
	router.Use(gin.Logger())

	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1
	v1 := router.Group("/api/v1")
	{
		repos := v1.Group("/repos/:owner/:repo")
		{
			repos.GET("/delta", handler.GetRepoDelta)
		}

		accounts := v1.Group("/accounts/:login")
		{
			accounts.GET("/deltas", handler.ScanAccount)
			accounts.GET("/scans", handler.GetScans)
			accounts.GET("/scans/latest", handler.GetLatestScan)
		}
	}

	return router
}
