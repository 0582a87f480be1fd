package contract

import (
	"context"

	"decipher-research-be/internal/entity"
	"decipher-research-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SourceRepository interface {
	Create(ctx context.Context, source *entity.Source) error
	CreateBulk(ctx context.Context, sources []*entity.Source) error
	Update(ctx context.Context, source *entity.Source) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByNotebookId(ctx context.Context, notebookId uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Source, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Source, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

// ScoredSourceChunk pairs an embedded chunk with its cosine similarity.
type ScoredSourceChunk struct {
	Embedding  *entity.SourceEmbedding
	Similarity float64
}

type SourceEmbeddingRepository interface {
	CreateBulk(ctx context.Context, embeddings []*entity.SourceEmbedding) error
	DeleteBySourceId(ctx context.Context, sourceId uuid.UUID) error
	DeleteByNotebookId(ctx context.Context, notebookId uuid.UUID) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchSimilar runs a cosine-distance search restricted to one notebook.
	SearchSimilar(ctx context.Context, embedding []float32, notebookId uuid.UUID, limit int) ([]*ScoredSourceChunk, error)
}
