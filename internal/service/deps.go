package service

import (
	"context"

	"evo-assist/internal/models"
)

// Completer issues one chat completion call. Implemented by LLMService;
// tests substitute deterministic stubs.
type Completer interface {
	Complete(ctx context.Context, system, user string, temperature float64, maxTokens int64) (string, error)
}

// Embedder turns one text into a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// KnowledgeSearcher is the read surface of the knowledge store.
// Implemented by repository.KnowledgeRepository.
type KnowledgeSearcher interface {
	SearchNearest(ctx context.Context, collection string, embedding []float32, limit int) ([]models.KnowledgeFragment, error)
	SearchBySource(ctx context.Context, collection, sourceID string, embedding []float32, limit int) ([]models.KnowledgeFragment, error)
	SearchBySources(ctx context.Context, collection string, sourceIDs []string, embedding []float32, limit int) ([]models.KnowledgeFragment, error)
}
