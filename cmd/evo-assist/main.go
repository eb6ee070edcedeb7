package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"evo-assist/internal/api"
	"evo-assist/internal/api/handlers"
	"evo-assist/internal/repository"
	"evo-assist/internal/service"
	"evo-assist/pkg/config"
	"evo-assist/pkg/logger"
	"evo-assist/pkg/postgres"

	"go.uber.org/zap"
)

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
	appLogger.Info("Starting Evo assist service")

	// Initialize database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	knowledgeRepo := repository.NewKnowledgeRepository(db, appLogger)

	// Initialize services
	llmService, err := service.NewLLMService(&cfg.OpenAI, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
	}

	profile := service.NewProfile(&cfg.Assistant)
	routerService := service.NewRouterService(llmService, profile, appLogger)
	retrieverService := service.NewRetrieverService(llmService, knowledgeRepo, &cfg.Retrieval, appLogger)
	synthesizerService := service.NewSynthesizerService(llmService, profile, appLogger)
	chatService := service.NewChatService(
		routerService,
		retrieverService,
		synthesizerService,
		service.NewSessionStore(),
		profile,
		appLogger,
	)

	// Initialize handlers
	chatHandler := handlers.NewChatHandler(chatService, appLogger)

	// Setup router
	app := api.SetupRouter(chatHandler, appLogger)

	// Start server
	go func() {
		addr := ":" + cfg.Server.Port
		appLogger.Info("Server starting", zap.String("address", addr))
		if err := app.Listen(addr); err != nil {
			appLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server")
	if err := app.Shutdown(); err != nil {
		appLogger.Error("Server shutdown error", zap.Error(err))
	}
}
