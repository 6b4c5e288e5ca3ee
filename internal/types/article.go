package types

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// EmbeddingDim is the fixed dimensionality of the article embedding column.
// It must match the output size of the configured embedding provider
// (all-MiniLM-L6-v2 and friends produce 384-float vectors).
const EmbeddingDim = 384

// Article is one ingested headline. Rows are created by the ingestion
// pipeline, keyed on URL uniqueness, and never mutated afterwards.
type Article struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string          `gorm:"not null;column:title" json:"title"`
	Description string          `gorm:"not null;column:description" json:"description"`
	URL         string          `gorm:"uniqueIndex;not null;column:url" json:"url"`
	ImageURL    string          `gorm:"column:image_url" json:"image_url"`
	Source      string          `gorm:"column:source;index" json:"source"`
	PublishedAt time.Time       `gorm:"column:published_at" json:"published_at"`
	Embedding   pgvector.Vector `gorm:"type:vector(384);column:embedding" json:"-"`
	CreatedAt   time.Time       `gorm:"not null;default:now()" json:"created_at"`
}

func (Article) TableName() string {
	return "article"
}
