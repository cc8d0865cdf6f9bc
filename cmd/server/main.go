// Package main provides the ocean forcing HTTP server.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"go.ngs.io/ocean-forcing/internal/config"
	"go.ngs.io/ocean-forcing/internal/domain"
	httpHandler "go.ngs.io/ocean-forcing/internal/http"
	"go.ngs.io/ocean-forcing/internal/usecase"
)

const version = "0.1.0"

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("ocean-forcing server version %s\n", version)
		return
	}

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration from environment.
	port := getEnv("PORT", "8080")
	configPath := getEnv("BRY_CONFIG", "")

	log.WithField("port", port).Info("Starting ocean forcing server")

	// The variable table reflects the run configuration when one is given.
	registry := domain.NewRegistry()
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			log.WithError(err).Fatal("Failed to load configuration")
		}
		if registry, err = cfg.Registry(); err != nil {
			log.WithError(err).Fatal("Invalid variable overrides")
		}
		log.WithField("config", configPath).Info("Variable table loaded from configuration")
	}

	// Initialize use case.
	scoordUC := usecase.NewScoordUseCase()

	// Setup router.
	router := httpHandler.SetupRouter(scoordUC, registry)

	// Start server.
	addr := fmt.Sprintf(":%s", port)
	log.WithFields(logrus.Fields{
		"addr":      addr,
		"endpoints": []string{"GET /health", "GET /v1/scoord", "GET /v1/variables"},
	}).Info("Server listening")

	if err := router.Run(addr); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("Ocean Forcing Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  server [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  PORT                    Server port (default: 8080)")
	fmt.Println("  BRY_CONFIG              YAML run configuration for variable overrides (optional)")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET /health                    Health check")
	fmt.Println("  GET /v1/scoord                 S-coordinate level depths")
	fmt.Println("  GET /v1/variables              Boundary variable table")
	fmt.Println()
}
