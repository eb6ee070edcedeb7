package service

import (
	"context"
	"fmt"
	"strings"

	"evo-assist/internal/models"
	"evo-assist/pkg/config"

	"go.uber.org/zap"
)

// RetrieverService assembles a text context for a question from the
// knowledge store. It never raises past its boundary with a partial
// result: failures return an empty context plus the error, and callers
// treat an empty context as "no information found".
type RetrieverService struct {
	embedder Embedder
	store    KnowledgeSearcher
	config   *config.RetrievalConfig
	logger   *zap.Logger
}

func NewRetrieverService(embedder Embedder, store KnowledgeSearcher, cfg *config.RetrievalConfig, logger *zap.Logger) *RetrieverService {
	return &RetrieverService{
		embedder: embedder,
		store:    store,
		config:   cfg,
		logger:   logger,
	}
}

// Retrieve embeds the question and runs the binding's strategy against
// its collection.
func (s *RetrieverService) Retrieve(ctx context.Context, binding CategoryBinding, question string) (models.RetrievedContext, error) {
	embedding, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return models.RetrievedContext{}, fmt.Errorf("failed to embed question: %w", err)
	}

	switch binding.Strategy {
	case StrategyBroad:
		return s.retrieveBroad(ctx, binding.Collection, embedding)
	default:
		return s.retrieveTopic(ctx, binding.Collection, embedding)
	}
}

// retrieveTopic anchors the whole turn on the single nearest fragment:
// its source becomes the topic and its video the turn's video, then the
// collection is re-queried for that source only. The returned video
// therefore always belongs to the same topic as the returned text,
// which naive top-K retrieval does not guarantee.
func (s *RetrieverService) retrieveTopic(ctx context.Context, collection string, embedding []float32) (models.RetrievedContext, error) {
	anchors, err := s.store.SearchNearest(ctx, collection, embedding, 1)
	if err != nil {
		return models.RetrievedContext{}, fmt.Errorf("failed to query anchor fragment: %w", err)
	}
	if len(anchors) == 0 {
		return models.RetrievedContext{}, nil
	}
	anchor := anchors[0]

	fragments, err := s.store.SearchBySource(ctx, collection, anchor.SourceID, embedding, s.config.AnchorLimit)
	if err != nil {
		return models.RetrievedContext{}, fmt.Errorf("failed to query topic fragments: %w", err)
	}

	text := joinFragmentTexts(fragments)
	if text == "" {
		return models.RetrievedContext{}, nil
	}

	s.logger.Debug("Topic context retrieved",
		zap.String("collection", collection),
		zap.String("topic", anchor.SourceID),
		zap.Int("fragments", len(fragments)),
	)

	return models.RetrievedContext{
		Text:     text,
		VideoURL: anchor.VideoURL,
		Topic:    anchor.SourceID,
	}, nil
}

// retrieveBroad probes for the set of topics a question touches, then
// re-queries for all of them at once. The representative video is the
// most frequent one among the probe fragments, so an overlapping
// minority topic cannot hijack the tutorial link.
func (s *RetrieverService) retrieveBroad(ctx context.Context, collection string, embedding []float32) (models.RetrievedContext, error) {
	probe, err := s.store.SearchNearest(ctx, collection, embedding, s.config.ProbeLimit)
	if err != nil {
		return models.RetrievedContext{}, fmt.Errorf("failed to probe collection: %w", err)
	}
	if len(probe) == 0 {
		return models.RetrievedContext{}, nil
	}

	sources := distinctSources(probe)
	video := majorityVideo(probe)

	fragments, err := s.store.SearchBySources(ctx, collection, sources, embedding, s.config.BroadLimit)
	if err != nil {
		return models.RetrievedContext{}, fmt.Errorf("failed to query topic set: %w", err)
	}

	text := joinFragmentTexts(fragments)
	if text == "" {
		return models.RetrievedContext{}, nil
	}

	s.logger.Debug("Broad context retrieved",
		zap.String("collection", collection),
		zap.Strings("sources", sources),
		zap.Int("fragments", len(fragments)),
	)

	return models.RetrievedContext{
		Text:     text,
		VideoURL: video,
	}, nil
}

func joinFragmentTexts(fragments []models.KnowledgeFragment) string {
	var b strings.Builder
	for _, f := range fragments {
		if f.OriginalText == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(f.OriginalText)
	}
	return b.String()
}

func distinctSources(fragments []models.KnowledgeFragment) []string {
	seen := make(map[string]struct{}, len(fragments))
	var sources []string
	for _, f := range fragments {
		if _, ok := seen[f.SourceID]; ok {
			continue
		}
		seen[f.SourceID] = struct{}{}
		sources = append(sources, f.SourceID)
	}
	return sources
}

// majorityVideo picks the most frequent non-empty video url; ties go to
// the one seen first, which preserves similarity order.
func majorityVideo(fragments []models.KnowledgeFragment) string {
	counts := make(map[string]int)
	var order []string
	for _, f := range fragments {
		if f.VideoURL == "" {
			continue
		}
		if _, seen := counts[f.VideoURL]; !seen {
			order = append(order, f.VideoURL)
		}
		counts[f.VideoURL]++
	}

	var best string
	bestCount := 0
	for _, url := range order {
		if counts[url] > bestCount {
			best = url
			bestCount = counts[url]
		}
	}
	return best
}
