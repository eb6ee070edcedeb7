package models

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeFragment is one retrievable unit of instructional content.
// Fragments sharing a SourceID describe the same how-to topic; the
// optional VideoURL points to that topic's tutorial video.
type KnowledgeFragment struct {
	ID           uuid.UUID `db:"id"`
	Collection   string    `db:"collection"`
	SourceID     string    `db:"source_id"`
	OriginalText string    `db:"original_text"`
	VideoURL     string    `db:"video_url"`
	Embedding    []float32 `db:"embedding"`
	CreatedAt    time.Time `db:"created_at"`
}

// RetrievedContext is the transient result of one retrieval pass:
// concatenated fragment texts plus at most one representative tutorial
// video. Topic is set when the retrieval was anchored to a single source.
type RetrievedContext struct {
	Text     string
	VideoURL string
	Topic    string
}

// Empty reports whether the retrieval found no usable content. Callers
// treat an empty context as "no information found", not as an error.
func (r RetrievedContext) Empty() bool {
	return r.Text == ""
}
