package implementation

import (
	"context"
	"errors"

	"decipher-research-be/internal/entity"
	"decipher-research-be/internal/mapper"
	"decipher-research-be/internal/model"
	"decipher-research-be/internal/repository/contract"
	"decipher-research-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ResearchTaskRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ResearchTaskMapper
}

func NewResearchTaskRepository(db *gorm.DB) contract.ResearchTaskRepository {
	return &ResearchTaskRepositoryImpl{
		db:     db,
		mapper: mapper.NewResearchTaskMapper(),
	}
}

func (r *ResearchTaskRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ResearchTaskRepositoryImpl) Create(ctx context.Context, task *entity.ResearchTask) error {
	m := r.mapper.ToModel(task)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*task = *r.mapper.ToEntity(m)
	return nil
}

func (r *ResearchTaskRepositoryImpl) Update(ctx context.Context, task *entity.ResearchTask) error {
	m := r.mapper.ToModel(task)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*task = *r.mapper.ToEntity(m)
	return nil
}

func (r *ResearchTaskRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.ResearchTask{}, id).Error
}

func (r *ResearchTaskRepositoryImpl) DeleteByNotebookId(ctx context.Context, notebookId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("notebook_id = ?", notebookId).Delete(&model.ResearchTask{}).Error
}

func (r *ResearchTaskRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ResearchTask, error) {
	var m model.ResearchTask
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ResearchTaskRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ResearchTask, error) {
	var models []*model.ResearchTask
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *ResearchTaskRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ResearchTask{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
