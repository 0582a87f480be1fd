package implementation

import (
	"context"

	"decipher-research-be/internal/mapper"
	"decipher-research-be/internal/model"
	"decipher-research-be/internal/repository/contract"
	"decipher-research-be/internal/repository/specification"

	"decipher-research-be/internal/entity"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type SourceEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SourceEmbeddingMapper
}

func NewSourceEmbeddingRepository(db *gorm.DB) contract.SourceEmbeddingRepository {
	return &SourceEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewSourceEmbeddingMapper(),
	}
}

func (r *SourceEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SourceEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.SourceEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := make([]*model.SourceEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.ToModel(e)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*embeddings[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *SourceEmbeddingRepositoryImpl) DeleteBySourceId(ctx context.Context, sourceId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("source_id = ?", sourceId).Delete(&model.SourceEmbedding{}).Error
}

func (r *SourceEmbeddingRepositoryImpl) DeleteByNotebookId(ctx context.Context, notebookId uuid.UUID) error {
	subQuery := r.db.Table("sources").Select("id").Where("notebook_id = ?", notebookId)
	return r.db.WithContext(ctx).Where("source_id IN (?)", subQuery).Delete(&model.SourceEmbedding{}).Error
}

func (r *SourceEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.SourceEmbedding{}), specs...)
	err := query.Count(&count).Error
	return count, err
}

// SearchSimilar returns scored chunks for one notebook ordered by cosine
// similarity. The join restricts results to live sources of that notebook.
func (r *SourceEmbeddingRepositoryImpl) SearchSimilar(ctx context.Context, embedding []float32, notebookId uuid.UUID, limit int) ([]*contract.ScoredSourceChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	// Cosine distance in pgvector is 1 - cosine_similarity.
	type result struct {
		model.SourceEmbedding
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("source_embeddings").
		Select("source_embeddings.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Joins("JOIN sources ON sources.id = source_embeddings.source_id").
		Where("sources.notebook_id = ?", notebookId).
		Where("sources.deleted_at IS NULL").
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredSourceChunk, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredSourceChunk{
			Embedding:  r.mapper.ToEntity(&res.SourceEmbedding),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
