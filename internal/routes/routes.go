package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tasksource/internal/handlers"
	"tasksource/internal/middleware"
)

// SetupRoutes registers the read-only task API. When jwtSecret is empty the
// API is served without authentication.
func SetupRoutes(r *gin.Engine, taskHandler *handlers.TaskHandler, jwtSecret []byte) *gin.Engine {
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS())

	// ---- public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ---- protected
	if len(jwtSecret) > 0 {
		r.Use(middleware.AuthMiddleware(jwtSecret))
	}

	r.GET("/users/seed", taskHandler.SeedUsers)

	tasks := r.Group("/tasks")
	{
		tasks.GET("", taskHandler.FetchAll)
		tasks.GET("/generate", taskHandler.Generate)
		tasks.GET("/report.pdf", taskHandler.Report)
	}
	return r
}
