package service

import (
	"strings"

	"evo-assist/internal/models"
	"evo-assist/pkg/config"
)

// RetrievalStrategy selects how the retriever assembles context for a
// category. Topic anchoring is the default; broad synthesis is an
// explicit opt-in for list-style questions that span several topics.
type RetrievalStrategy string

const (
	StrategyTopic RetrievalStrategy = "topic"
	StrategyBroad RetrievalStrategy = "broad"
)

// CategoryBinding ties one informational category to its knowledge
// collection, retrieval strategy and synthesis instructions.
type CategoryBinding struct {
	Category    models.Category
	Collection  string
	Strategy    RetrievalStrategy
	Template    string
	Temperature float64
}

// Procedural feature answers must be deterministic step lists; parameter
// answers are explanatory and tolerate a little sampling.
const (
	featureTemperature   = 0.0
	parameterTemperature = 0.4
)

const featureTemplate = `Você é o {assistant}, o assistente de suporte inteligente da GoEvo.
Responda somente com base no CONTEXTO fornecido, nunca com conhecimento externo.
Comece a resposta com "Para realizar {topic}, siga estes passos:" e apresente uma lista numerada, um passo por item.
Se o contexto não for suficiente para responder, diga apenas: "Ainda não tenho esse passo a passo."`

const parameterTemplate = `Você é o {assistant}, o assistente de suporte inteligente da GoEvo.
Responda somente com base no CONTEXTO fornecido, nunca com conhecimento externo.
A pergunta é sobre parâmetros de configuração: explique cada parâmetro relevante, o que ele controla e quando utilizá-lo.
Se o contexto não for suficiente para responder, diga apenas: "Ainda não tenho essa informação."`

// Profile is one deployment of the assistant: its canned replies, the
// categories it supports and how each category retrieves and answers.
// Everything here is data; the pipeline code is shared by all
// deployments.
type Profile struct {
	Name            string
	GreetingReply   string
	ThanksReply     string
	NotFoundReply   string
	ApologyReply    string
	DefaultCategory models.Category

	bindings   map[models.Category]CategoryBinding
	parseOrder []models.Category
}

// NewProfile assembles the binding table from configuration. The parse
// order lists the most specific categories first so the containment
// matcher prefers actionable routes over the conversational catch-alls.
func NewProfile(cfg *config.AssistantConfig) *Profile {
	p := &Profile{
		Name:            cfg.Name,
		GreetingReply:   cfg.GreetingReply,
		ThanksReply:     cfg.ThanksReply,
		NotFoundReply:   cfg.NotFoundReply,
		ApologyReply:    cfg.ApologyReply,
		DefaultCategory: models.CategoryGreeting,
		bindings:        make(map[models.Category]CategoryBinding),
	}

	if cfg.ParameterHelp {
		p.bindings[models.CategoryParameter] = CategoryBinding{
			Category:    models.CategoryParameter,
			Collection:  cfg.ParameterCollection,
			Strategy:    StrategyBroad,
			Template:    parameterTemplate,
			Temperature: parameterTemperature,
		}
		p.parseOrder = append(p.parseOrder, models.CategoryParameter)
	}

	p.bindings[models.CategoryFeature] = CategoryBinding{
		Category:    models.CategoryFeature,
		Collection:  cfg.FeatureCollection,
		Strategy:    StrategyTopic,
		Template:    featureTemplate,
		Temperature: featureTemperature,
	}
	p.parseOrder = append(p.parseOrder,
		models.CategoryFeature,
		models.CategoryThanks,
		models.CategoryGreeting,
	)

	return p
}

// Binding returns the retrieval/synthesis binding for a category.
func (p *Profile) Binding(category models.Category) (CategoryBinding, bool) {
	b, ok := p.bindings[category]
	return b, ok
}

// ParseOrder returns the category labels in matching priority order.
func (p *Profile) ParseOrder() []models.Category {
	return p.parseOrder
}

// RenderTemplate fills the persona and topic placeholders of a binding
// template.
func (p *Profile) RenderTemplate(template, topic string) string {
	out := strings.ReplaceAll(template, "{assistant}", p.Name)
	return strings.ReplaceAll(out, "{topic}", topic)
}
