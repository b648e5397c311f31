package api

import (
	"github.com/gin-gonic/gin"

	"github.com/yourusername/mediafire-dl-go/api/handlers"
	"github.com/yourusername/mediafire-dl-go/api/middleware"
	"github.com/yourusername/mediafire-dl-go/internal/domain"
	"github.com/yourusername/mediafire-dl-go/pkg/logger"
)

// SetupRouter sets up the read-only history API
func SetupRouter(
	repo domain.RunRepository,
	logAdapter *logger.LoggerAdapter,
	logsDir string,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logAdapter.General()))
	router.Use(middleware.Recovery(logAdapter))

	healthHandler := handlers.NewHealthHandler(repo)
	router.GET("/health", healthHandler.Health)

	v1 := router.Group("/api/v1")
	{
		runHandler := handlers.NewRunHandler(repo, logAdapter.General())
		runs := v1.Group("/runs")
		{
			runs.GET("", runHandler.ListRuns)
			runs.GET("/:id", runHandler.GetRun)
			runs.GET("/:id/jobs", runHandler.ListJobs)
		}
		v1.GET("/stats", runHandler.GetStats)

		logHandler := handlers.NewLogHandler(logsDir)
		logs := v1.Group("/logs")
		{
			logs.GET("/categories", logHandler.GetCategories)
			logs.GET("/:category", logHandler.GetLogs)
			logs.GET("/:category/search", logHandler.SearchLogs)

			streamHandler := handlers.NewLogStreamHandler(logsDir, logAdapter.General())
			logs.GET("/:category/stream", streamHandler.Stream)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "not found"})
	})

	return router
}
