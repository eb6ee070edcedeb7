package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"evo-assist/pkg/config"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.uber.org/zap"
)

// LLMService wraps the OpenAI chat-completion and embedding endpoints
// behind the two calls the pipeline needs. Every request carries a
// bounded timeout; a timeout is treated like any other call failure by
// the callers.
type LLMService struct {
	client         openai.Client
	chatModel      string
	embeddingModel string
	timeout        time.Duration
	logger         *zap.Logger
}

func NewLLMService(cfg *config.OpenAIConfig, logger *zap.Logger) (*LLMService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	client := openai.NewClient(option.WithAPIKey(cfg.APIKey))

	return &LLMService{
		client:         client,
		chatModel:      cfg.ChatModel,
		embeddingModel: cfg.EmbeddingModel,
		timeout:        cfg.RequestTimeout,
		logger:         logger,
	}, nil
}

// Complete sends a system+user prompt pair and returns the generated
// text. An empty system instruction is omitted from the message list.
func (s *LLMService) Complete(ctx context.Context, system, user string, temperature float64, maxTokens int64) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var messages []openai.ChatCompletionMessageParamUnion
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	messages = append(messages, openai.UserMessage(user))

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(s.chatModel),
		Messages:    messages,
		Temperature: openai.Float(temperature),
	}
	if maxTokens > 0 {
		params.MaxTokens = openai.Int(maxTokens)
	}

	resp, err := s.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to generate completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Embed returns the embedding vector for one text.
func (s *LLMService) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(s.embeddingModel),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfArrayOfStrings: []string{text},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no data in embedding response")
	}

	vector := make([]float32, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vector[i] = float32(v)
	}

	s.logger.Debug("Embedding generated",
		zap.String("model", s.embeddingModel),
		zap.Int("dimension", len(vector)),
	)

	return vector, nil
}
