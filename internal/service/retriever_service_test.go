package service

import (
	"context"
	"errors"
	"testing"

	"evo-assist/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func featureBinding(p *Profile) CategoryBinding {
	b, _ := p.Binding(models.CategoryFeature)
	return b
}

func parameterBinding(p *Profile) CategoryBinding {
	b, _ := p.Binding(models.CategoryParameter)
	return b
}

func TestRetrieveTopicAnchorsVideoToTopic(t *testing.T) {
	anchor := models.KnowledgeFragment{
		SourceID:     "Cotacao",
		OriginalText: "Passo 1: acesse o menu de cotações.",
		VideoURL:     "http://v/1",
	}
	store := &stubSearcher{
		nearest: func(collection string, limit int) ([]models.KnowledgeFragment, error) {
			return []models.KnowledgeFragment{anchor}, nil
		},
		bySource: func(collection, sourceID string, limit int) ([]models.KnowledgeFragment, error) {
			assert.Equal(t, "Cotacao", sourceID)
			return []models.KnowledgeFragment{
				anchor,
				{SourceID: "Cotacao", OriginalText: "Passo 2: preencha os campos.", VideoURL: "http://v/1"},
			}, nil
		},
	}
	retriever := NewRetrieverService(&stubEmbedder{}, store, testRetrievalConfig(), testLogger)

	rctx, err := retriever.Retrieve(context.Background(), featureBinding(testProfile(false)), "Como eu crio uma cotação?")

	require.NoError(t, err)
	assert.Equal(t, "Cotacao", rctx.Topic)
	// The video is the anchor's, never one from another topic.
	assert.Equal(t, "http://v/1", rctx.VideoURL)
	assert.Equal(t, "Passo 1: acesse o menu de cotações.\n\nPasso 2: preencha os campos.", rctx.Text)
}

func TestRetrieveTopicSkipsEmptyTexts(t *testing.T) {
	store := &stubSearcher{
		nearest: func(collection string, limit int) ([]models.KnowledgeFragment, error) {
			return []models.KnowledgeFragment{{SourceID: "Cotacao", OriginalText: "Passo 1."}}, nil
		},
		bySource: func(collection, sourceID string, limit int) ([]models.KnowledgeFragment, error) {
			return []models.KnowledgeFragment{
				{SourceID: "Cotacao", OriginalText: "Passo 1."},
				{SourceID: "Cotacao", OriginalText: ""},
				{SourceID: "Cotacao", OriginalText: "Passo 2."},
			}, nil
		},
	}
	retriever := NewRetrieverService(&stubEmbedder{}, store, testRetrievalConfig(), testLogger)

	rctx, err := retriever.Retrieve(context.Background(), featureBinding(testProfile(false)), "como?")

	require.NoError(t, err)
	assert.Equal(t, "Passo 1.\n\nPasso 2.", rctx.Text)
}

func TestRetrieveTopicEmptyStore(t *testing.T) {
	store := &stubSearcher{}
	retriever := NewRetrieverService(&stubEmbedder{}, store, testRetrievalConfig(), testLogger)

	rctx, err := retriever.Retrieve(context.Background(), featureBinding(testProfile(false)), "pergunta")

	require.NoError(t, err)
	assert.True(t, rctx.Empty())
	assert.Empty(t, rctx.VideoURL)
	assert.Empty(t, rctx.Topic)
	// No re-query without an anchor.
	assert.Zero(t, store.bySourceCalls)
}

func TestRetrieveEmbeddingFailure(t *testing.T) {
	store := &stubSearcher{}
	retriever := NewRetrieverService(&stubEmbedder{err: errors.New("network down")}, store, testRetrievalConfig(), testLogger)

	rctx, err := retriever.Retrieve(context.Background(), featureBinding(testProfile(false)), "pergunta")

	require.Error(t, err)
	assert.True(t, rctx.Empty())
	assert.Zero(t, store.nearestCalls)
}

func TestRetrieveStoreFailure(t *testing.T) {
	store := &stubSearcher{
		nearest: func(collection string, limit int) ([]models.KnowledgeFragment, error) {
			return nil, errors.New("store unavailable")
		},
	}
	retriever := NewRetrieverService(&stubEmbedder{}, store, testRetrievalConfig(), testLogger)

	rctx, err := retriever.Retrieve(context.Background(), featureBinding(testProfile(false)), "pergunta")

	require.Error(t, err)
	assert.True(t, rctx.Empty())
}

func TestRetrieveIsIdempotent(t *testing.T) {
	store := &stubSearcher{
		nearest: func(collection string, limit int) ([]models.KnowledgeFragment, error) {
			return []models.KnowledgeFragment{{SourceID: "Cotacao", OriginalText: "Passo 1.", VideoURL: "http://v/1"}}, nil
		},
		bySource: func(collection, sourceID string, limit int) ([]models.KnowledgeFragment, error) {
			return []models.KnowledgeFragment{
				{SourceID: "Cotacao", OriginalText: "Passo 1.", VideoURL: "http://v/1"},
				{SourceID: "Cotacao", OriginalText: "Passo 2.", VideoURL: "http://v/1"},
			}, nil
		},
	}
	retriever := NewRetrieverService(&stubEmbedder{}, store, testRetrievalConfig(), testLogger)
	binding := featureBinding(testProfile(false))

	first, err := retriever.Retrieve(context.Background(), binding, "Como eu crio uma cotação?")
	require.NoError(t, err)
	second, err := retriever.Retrieve(context.Background(), binding, "Como eu crio uma cotação?")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRetrieveBroadMajorityVideo(t *testing.T) {
	probe := make([]models.KnowledgeFragment, 0, 10)
	for i := 0; i < 6; i++ {
		probe = append(probe, models.KnowledgeFragment{SourceID: "A", OriginalText: "a", VideoURL: "X"})
	}
	for i := 0; i < 4; i++ {
		probe = append(probe, models.KnowledgeFragment{SourceID: "B", OriginalText: "b", VideoURL: "Y"})
	}

	store := &stubSearcher{
		nearest: func(collection string, limit int) ([]models.KnowledgeFragment, error) {
			return probe, nil
		},
		bySources: func(collection string, sourceIDs []string, limit int) ([]models.KnowledgeFragment, error) {
			return probe, nil
		},
	}
	retriever := NewRetrieverService(&stubEmbedder{}, store, testRetrievalConfig(), testLogger)

	rctx, err := retriever.Retrieve(context.Background(), parameterBinding(testProfile(true)), "liste os parâmetros de X")

	require.NoError(t, err)
	assert.Equal(t, "X", rctx.VideoURL)
	// The re-query covers every discovered topic.
	require.Len(t, store.bySourcesArgs, 1)
	assert.Equal(t, []string{"A", "B"}, store.bySourcesArgs[0])
}

func TestRetrieveBroadVideoTieFirstSeenWins(t *testing.T) {
	probe := []models.KnowledgeFragment{
		{SourceID: "A", OriginalText: "a", VideoURL: "X"},
		{SourceID: "B", OriginalText: "b", VideoURL: "Y"},
		{SourceID: "A", OriginalText: "a2", VideoURL: "X"},
		{SourceID: "B", OriginalText: "b2", VideoURL: "Y"},
	}
	store := &stubSearcher{
		nearest: func(collection string, limit int) ([]models.KnowledgeFragment, error) {
			return probe, nil
		},
		bySources: func(collection string, sourceIDs []string, limit int) ([]models.KnowledgeFragment, error) {
			return probe, nil
		},
	}
	retriever := NewRetrieverService(&stubEmbedder{}, store, testRetrievalConfig(), testLogger)

	rctx, err := retriever.Retrieve(context.Background(), parameterBinding(testProfile(true)), "parâmetros?")

	require.NoError(t, err)
	assert.Equal(t, "X", rctx.VideoURL)
}

func TestRetrieveBroadIgnoresFragmentsWithoutVideo(t *testing.T) {
	probe := []models.KnowledgeFragment{
		{SourceID: "A", OriginalText: "a", VideoURL: ""},
		{SourceID: "A", OriginalText: "a2", VideoURL: ""},
		{SourceID: "B", OriginalText: "b", VideoURL: "Y"},
	}
	store := &stubSearcher{
		nearest: func(collection string, limit int) ([]models.KnowledgeFragment, error) {
			return probe, nil
		},
		bySources: func(collection string, sourceIDs []string, limit int) ([]models.KnowledgeFragment, error) {
			return probe, nil
		},
	}
	retriever := NewRetrieverService(&stubEmbedder{}, store, testRetrievalConfig(), testLogger)

	rctx, err := retriever.Retrieve(context.Background(), parameterBinding(testProfile(true)), "parâmetros?")

	require.NoError(t, err)
	assert.Equal(t, "Y", rctx.VideoURL)
}

func TestRetrieveBroadEmptyProbe(t *testing.T) {
	store := &stubSearcher{}
	retriever := NewRetrieverService(&stubEmbedder{}, store, testRetrievalConfig(), testLogger)

	rctx, err := retriever.Retrieve(context.Background(), parameterBinding(testProfile(true)), "parâmetros?")

	require.NoError(t, err)
	assert.True(t, rctx.Empty())
	assert.Zero(t, store.bySourcesCalls)
}
