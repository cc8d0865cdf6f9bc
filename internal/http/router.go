package http

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go.ngs.io/ocean-forcing/internal/domain"
	"go.ngs.io/ocean-forcing/internal/usecase"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(scoordUC *usecase.ScoordUseCase, registry *domain.Registry) *gin.Engine {

	router := gin.Default()

	// Setup CORS middleware.
	corsConfig := cors.DefaultConfig()

	// Get allowed origins from environment variable.
	// Default to allow all origins if not specified.
	allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if allowedOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(allowedOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}

	router.Use(cors.New(corsConfig))

	handler := NewHandler(scoordUC, registry)

	// API v1 routes.
	v1 := router.Group("/v1")
	v1.GET("/scoord", handler.GetScoord)
	v1.GET("/variables", handler.GetVariables)

	// Health check.
	router.GET("/health", handler.HealthCheck)

	return router
}
