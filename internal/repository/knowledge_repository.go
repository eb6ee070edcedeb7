package repository

import (
	"context"
	"fmt"

	"evo-assist/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	"go.uber.org/zap"
)

const fragmentsTable = "knowledge_fragments"

var fragmentColumns = []string{"id", "collection", "source_id", "original_text", "video_url", "created_at"}

// KnowledgeRepository reads and seeds knowledge fragments. Similarity
// queries use pgvector cosine distance; zero rows is a normal outcome,
// never an error.
type KnowledgeRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewKnowledgeRepository(db *pgxpool.Pool, logger *zap.Logger) *KnowledgeRepository {
	return &KnowledgeRepository{
		db:     db,
		logger: logger,
	}
}

// EnsureSchema creates the fragments table and its similarity index.
// The embedding dimension matches text-embedding-3-small.
func (r *KnowledgeRepository) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS knowledge_fragments (
			id UUID PRIMARY KEY,
			collection TEXT NOT NULL,
			source_id TEXT NOT NULL,
			original_text TEXT NOT NULL DEFAULT '',
			video_url TEXT NOT NULL DEFAULT '',
			embedding vector(1536) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_knowledge_fragments_collection_source
			ON knowledge_fragments (collection, source_id)`,
	}

	for _, stmt := range statements {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure knowledge schema: %w", err)
		}
	}
	return nil
}

func (r *KnowledgeRepository) Insert(ctx context.Context, fragment *models.KnowledgeFragment) error {
	query := squirrel.Insert(fragmentsTable).
		Columns("id", "collection", "source_id", "original_text", "video_url", "embedding", "created_at").
		Values(
			fragment.ID,
			fragment.Collection,
			fragment.SourceID,
			fragment.OriginalText,
			fragment.VideoURL,
			pgvector.NewVector(fragment.Embedding),
			fragment.CreatedAt,
		).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("failed to insert fragment: %w", err)
	}
	return nil
}

// SearchNearest returns up to limit fragments of a collection ordered by
// cosine distance to the query embedding.
func (r *KnowledgeRepository) SearchNearest(ctx context.Context, collection string, embedding []float32, limit int) ([]models.KnowledgeFragment, error) {
	query := r.similarityQuery(collection, embedding, limit)
	return r.queryFragments(ctx, query)
}

// SearchBySource returns fragments of one topic, ordered by cosine
// distance to the query embedding.
func (r *KnowledgeRepository) SearchBySource(ctx context.Context, collection, sourceID string, embedding []float32, limit int) ([]models.KnowledgeFragment, error) {
	query := r.similarityQuery(collection, embedding, limit).
		Where(squirrel.Eq{"source_id": sourceID})
	return r.queryFragments(ctx, query)
}

// SearchBySources returns fragments belonging to any of the given topics,
// ordered by cosine distance to the query embedding.
func (r *KnowledgeRepository) SearchBySources(ctx context.Context, collection string, sourceIDs []string, embedding []float32, limit int) ([]models.KnowledgeFragment, error) {
	if len(sourceIDs) == 0 {
		return nil, nil
	}
	query := r.similarityQuery(collection, embedding, limit).
		Where(squirrel.Eq{"source_id": sourceIDs})
	return r.queryFragments(ctx, query)
}

func (r *KnowledgeRepository) similarityQuery(collection string, embedding []float32, limit int) squirrel.SelectBuilder {
	return squirrel.Select(fragmentColumns...).
		From(fragmentsTable).
		Where(squirrel.Eq{"collection": collection}).
		OrderByClause("embedding <=> ?", pgvector.NewVector(embedding)).
		Limit(uint64(limit)).
		PlaceholderFormat(squirrel.Dollar)
}

func (r *KnowledgeRepository) queryFragments(ctx context.Context, query squirrel.SelectBuilder) ([]models.KnowledgeFragment, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build search query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fragments: %w", err)
	}
	defer rows.Close()

	var results []models.KnowledgeFragment
	for rows.Next() {
		var f models.KnowledgeFragment
		if err := rows.Scan(&f.ID, &f.Collection, &f.SourceID, &f.OriginalText, &f.VideoURL, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan fragment: %w", err)
		}
		results = append(results, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read fragment rows: %w", err)
	}

	return results, nil
}
