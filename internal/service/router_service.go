package service

import (
	"context"
	"fmt"
	"strings"

	"evo-assist/internal/models"

	"go.uber.org/zap"
)

// The classifier only needs to emit one label word.
const classificationMaxTokens = 15

// RouterService classifies a raw user question into one of the
// deployment's categories with a single completion call.
type RouterService struct {
	completer Completer
	profile   *Profile
	logger    *zap.Logger
}

func NewRouterService(completer Completer, profile *Profile, logger *zap.Logger) *RouterService {
	return &RouterService{
		completer: completer,
		profile:   profile,
		logger:    logger,
	}
}

// Classify returns the category for a question. On any failure the
// default category is returned together with the error: a misrouted
// technical question is worse than a misrouted greeting, so routing
// fails open to the cheapest safe behavior and the caller only logs.
func (s *RouterService) Classify(ctx context.Context, question string) (models.Category, error) {
	raw, err := s.completer.Complete(ctx, "", s.buildPrompt(question), 0, classificationMaxTokens)
	if err != nil {
		return s.profile.DefaultCategory, fmt.Errorf("failed to classify question: %w", err)
	}

	category := models.ParseCategory(raw, s.profile.ParseOrder(), s.profile.DefaultCategory)
	s.logger.Debug("Question classified",
		zap.String("raw", raw),
		zap.String("category", string(category)),
	)
	return category, nil
}

func (s *RouterService) buildPrompt(question string) string {
	order := s.profile.ParseOrder()
	labels := make([]string, 0, len(order))
	for _, c := range order {
		labels = append(labels, string(c))
	}
	return fmt.Sprintf(
		"Classifique a mensagem do usuário em uma destas categorias: %s. Responda apenas com uma palavra, a categoria. Mensagem: '%s'",
		strings.Join(labels, ", "), question,
	)
}
