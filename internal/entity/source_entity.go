package entity

import (
	"time"

	"github.com/google/uuid"
)

// Source is a scraped or user-supplied document attached to a notebook.
type Source struct {
	Id         uuid.UUID
	NotebookId uuid.UUID
	URL        string
	PageTitle  string
	Content    string
	Summary    string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
	DeletedAt  *time.Time
	IsDeleted  bool
}

// SourceEmbedding stores one embedded chunk of a source document.
type SourceEmbedding struct {
	Id             uuid.UUID
	SourceId       uuid.UUID
	ChunkIndex     int
	TotalChunks    int
	Document       string
	EmbeddingValue []float32
	CreatedAt      time.Time
}
