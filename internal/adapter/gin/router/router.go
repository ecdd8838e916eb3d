package router

import (
	"net/http"

	"users-ui/internal/adapter/gin/handler"
	"users-ui/internal/adapter/gin/middleware"
	"users-ui/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options holds router settings that come from configuration
type Options struct {
	ServiceName string
	StaticDir   string
	Session     gin.HandlerFunc
}

// SetupRouter configures and returns a Gin router with all routes and middleware
func SetupRouter(
	userHandler *handler.UserHandler,
	rateLimiter *middleware.RateLimiter,
	opts Options,
	log *zap.Logger,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.SetHTMLTemplate(handler.Templates())

	// Global middleware
	router.Use(middleware.Recovery(log))
	router.Use(logger.RequestIDMiddleware())
	router.Use(middleware.Logger(log))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": opts.ServiceName,
		})
	})

	if opts.StaticDir != "" {
		router.Static("/static", opts.StaticDir)
	}

	ui := router.Group("/", opts.Session)
	{
		ui.GET("", userHandler.Index)
		ui.GET("/backends/:backend", userHandler.Show)

		forms := ui.Group("/backends/:backend", rateLimiter.Handler())
		{
			forms.POST("/users", userHandler.CreateUser)
			forms.POST("/users/update", userHandler.UpdateUser)
			forms.POST("/users/:id/delete", userHandler.DeleteUser)
			forms.POST("/refresh", userHandler.Refresh)
		}
	}

	return router
}
