package service

import (
	"context"

	"evo-assist/internal/models"
	"evo-assist/pkg/config"

	"go.uber.org/zap"
)

type completeCall struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int64
}

// stubCompleter records every completion call and delegates to fn.
type stubCompleter struct {
	calls []completeCall
	fn    func(call completeCall) (string, error)
}

func (s *stubCompleter) Complete(ctx context.Context, system, user string, temperature float64, maxTokens int64) (string, error) {
	call := completeCall{System: system, User: user, Temperature: temperature, MaxTokens: maxTokens}
	s.calls = append(s.calls, call)
	return s.fn(call)
}

type stubEmbedder struct {
	calls int
	err   error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

// stubSearcher returns canned fragments and records the filter arguments.
type stubSearcher struct {
	nearest   func(collection string, limit int) ([]models.KnowledgeFragment, error)
	bySource  func(collection, sourceID string, limit int) ([]models.KnowledgeFragment, error)
	bySources func(collection string, sourceIDs []string, limit int) ([]models.KnowledgeFragment, error)

	nearestCalls   int
	bySourceCalls  int
	bySourcesCalls int
	bySourcesArgs  [][]string
}

func (s *stubSearcher) SearchNearest(ctx context.Context, collection string, embedding []float32, limit int) ([]models.KnowledgeFragment, error) {
	s.nearestCalls++
	if s.nearest == nil {
		return nil, nil
	}
	return s.nearest(collection, limit)
}

func (s *stubSearcher) SearchBySource(ctx context.Context, collection, sourceID string, embedding []float32, limit int) ([]models.KnowledgeFragment, error) {
	s.bySourceCalls++
	if s.bySource == nil {
		return nil, nil
	}
	return s.bySource(collection, sourceID, limit)
}

func (s *stubSearcher) SearchBySources(ctx context.Context, collection string, sourceIDs []string, embedding []float32, limit int) ([]models.KnowledgeFragment, error) {
	s.bySourcesCalls++
	s.bySourcesArgs = append(s.bySourcesArgs, sourceIDs)
	if s.bySources == nil {
		return nil, nil
	}
	return s.bySources(collection, sourceIDs, limit)
}

func testProfile(parameterHelp bool) *Profile {
	return NewProfile(&config.AssistantConfig{
		Name:                "Evo",
		GreetingReply:       "Olá! Eu sou o Evo, suporte inteligente da GoEvo. Como posso ajudar?",
		ThanksReply:         "De nada! Se precisar de algo mais, é só chamar! 😊",
		NotFoundReply:       "Ainda não tenho esse passo a passo. Pode reformular a pergunta?",
		ApologyReply:        "Desculpe, não consegui processar sua pergunta agora. Tente novamente em instantes.",
		FeatureCollection:   "colecao_funcionalidades",
		ParameterCollection: "colecao_parametros",
		ParameterHelp:       parameterHelp,
	})
}

func testRetrievalConfig() *config.RetrievalConfig {
	return &config.RetrievalConfig{
		AnchorLimit: 15,
		ProbeLimit:  10,
		BroadLimit:  50,
	}
}

var testLogger = zap.NewNop()
