package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"teachgen/internal/api"
	"teachgen/internal/api/handlers"
	"teachgen/internal/service"
	"teachgen/pkg/config"
	"teachgen/pkg/logger"

	"go.uber.org/zap"
)

// @title Teaching Content Pipeline API
// @version 1.0
// @description Message-driven adapter that turns free-text requests into structured teaching designs

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appLogger := logger.Get()
	appLogger.Info("Starting teaching content pipeline service")

	// Initialize services
	extractor := service.NewExtractor()
	generator := service.NewGeneratorClient(&cfg.Generator, appLogger)
	renderer := service.NewRenderer()
	pipeline := service.NewPipeline(extractor, generator, renderer, cfg.Stream, appLogger)

	// Initialize handlers
	pipeHandler := handlers.NewPipeHandler(pipeline, renderer, appLogger)

	// Setup router
	app := api.SetupRouter(pipeHandler, appLogger)

	pipeline.OnStartup()

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting",
			zap.String("address", addr),
			zap.String("generator_url", cfg.Generator.URL),
		)
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	pipeline.OnShutdown()
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
