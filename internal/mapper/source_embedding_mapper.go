package mapper

import (
	"decipher-research-be/internal/entity"
	"decipher-research-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type SourceEmbeddingMapper struct{}

func NewSourceEmbeddingMapper() *SourceEmbeddingMapper {
	return &SourceEmbeddingMapper{}
}

func (m *SourceEmbeddingMapper) ToEntity(e *model.SourceEmbedding) *entity.SourceEmbedding {
	if e == nil {
		return nil
	}

	return &entity.SourceEmbedding{
		Id:             e.Id,
		SourceId:       e.SourceId,
		ChunkIndex:     e.ChunkIndex,
		TotalChunks:    e.TotalChunks,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		CreatedAt:      e.CreatedAt,
	}
}

func (m *SourceEmbeddingMapper) ToModel(e *entity.SourceEmbedding) *model.SourceEmbedding {
	if e == nil {
		return nil
	}

	return &model.SourceEmbedding{
		Id:             e.Id,
		SourceId:       e.SourceId,
		ChunkIndex:     e.ChunkIndex,
		TotalChunks:    e.TotalChunks,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:      e.CreatedAt,
	}
}

func (m *SourceEmbeddingMapper) ToEntities(embeddings []*model.SourceEmbedding) []*entity.SourceEmbedding {
	entities := make([]*entity.SourceEmbedding, len(embeddings))
	for i, e := range embeddings {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

func (m *SourceEmbeddingMapper) ToModels(embeddings []*entity.SourceEmbedding) []*model.SourceEmbedding {
	models := make([]*model.SourceEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = m.ToModel(e)
	}
	return models
}
