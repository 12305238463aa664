package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up the API routes
func SetupRoutes(handler *Handler, logger *slog.Logger) *gin.Engine {
	router := gin.New()

	// Middleware
	router.Use(Recovery())
	router.Use(CORS())
	router.Use(Logger(logger))

	// Health check
	router.GET("/health", handler.HealthCheck)

	// API v1
	v1 := router.Group("/api/v1")
	{
		repos := v1.Group("/orgs/:org/repos/:repo")
		{
			repos.GET("/snapshot", handler.GetLatestSnapshot)
			repos.GET("/snapshots", handler.ListSnapshots)
		}

		v1.GET("/snapshots/:id", handler.GetSnapshot)
	}

	return router
}
