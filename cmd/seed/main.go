package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"evo-assist/internal/models"
	"evo-assist/internal/repository"
	"evo-assist/internal/service"
	"evo-assist/pkg/config"
	"evo-assist/pkg/logger"
	"evo-assist/pkg/postgres"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// seedFragment is one entry of the fragments JSON file.
type seedFragment struct {
	Collection   string `json:"collection"`
	SourceID     string `json:"source_id"`
	OriginalText string `json:"original_text"`
	VideoURL     string `json:"video_url,omitempty"`
}

func main() {
	fragmentsPath := flag.String("fragments", "cmd/seed/fragments.json", "path to the fragments JSON file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logger.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	appLogger := logger.Get()

	// Connect to database
	ctx := context.Background()
	db, err := postgres.NewPool(ctx, &cfg.Database, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	knowledgeRepo := repository.NewKnowledgeRepository(db, appLogger)

	llmService, err := service.NewLLMService(&cfg.OpenAI, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize LLM service", zap.Error(err))
	}

	appLogger.Info("Starting knowledge base seeding", zap.String("file", *fragmentsPath))

	if err := knowledgeRepo.EnsureSchema(ctx); err != nil {
		appLogger.Fatal("Failed to ensure schema", zap.Error(err))
	}

	fragments, err := loadFragments(*fragmentsPath)
	if err != nil {
		appLogger.Fatal("Failed to load fragments file", zap.Error(err))
	}

	seeded := 0
	for i, sf := range fragments {
		if sf.OriginalText == "" || sf.Collection == "" || sf.SourceID == "" {
			appLogger.Warn("Skipping incomplete fragment", zap.Int("index", i))
			continue
		}

		embedding, err := llmService.Embed(ctx, sf.OriginalText)
		if err != nil {
			appLogger.Fatal("Failed to embed fragment",
				zap.Int("index", i),
				zap.String("source_id", sf.SourceID),
				zap.Error(err),
			)
		}

		fragment := &models.KnowledgeFragment{
			ID:           uuid.New(),
			Collection:   sf.Collection,
			SourceID:     sf.SourceID,
			OriginalText: sf.OriginalText,
			VideoURL:     sf.VideoURL,
			Embedding:    embedding,
			CreatedAt:    time.Now(),
		}
		if err := knowledgeRepo.Insert(ctx, fragment); err != nil {
			appLogger.Fatal("Failed to insert fragment",
				zap.String("source_id", sf.SourceID),
				zap.Error(err),
			)
		}
		seeded++
	}

	appLogger.Info("Knowledge base seeding completed", zap.Int("fragments", seeded))
}

func loadFragments(path string) ([]seedFragment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fragments file: %w", err)
	}

	var fragments []seedFragment
	if err := json.Unmarshal(data, &fragments); err != nil {
		return nil, fmt.Errorf("failed to parse fragments file: %w", err)
	}
	return fragments, nil
}
