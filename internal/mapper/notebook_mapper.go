package mapper

import (
	"time"

	"decipher-research-be/internal/entity"
	"decipher-research-be/internal/model"

	"gorm.io/gorm"
)

type NotebookMapper struct{}

func NewNotebookMapper() *NotebookMapper {
	return &NotebookMapper{}
}

func (m *NotebookMapper) ToEntity(n *model.Notebook) *entity.Notebook {
	if n == nil {
		return nil
	}

	var deletedAt *time.Time
	if n.DeletedAt.Valid {
		t := n.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !n.UpdatedAt.IsZero() {
		t := n.UpdatedAt
		updatedAt = &t
	}

	return &entity.Notebook{
		Id:               n.Id,
		Title:            n.Title,
		Topic:            n.Topic,
		UserId:           n.UserId,
		Output:           n.Output,
		CreatedAt:        n.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
		IsDeleted:        n.DeletedAt.Valid,
		ProcessingStatus: m.statusToEntity(n.ProcessingStatus),
	}
}

func (m *NotebookMapper) ToModel(n *entity.Notebook) *model.Notebook {
	if n == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if n.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *n.DeletedAt, Valid: true}
	} else if n.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if n.UpdatedAt != nil {
		updatedAt = *n.UpdatedAt
	}

	return &model.Notebook{
		Id:        n.Id,
		Title:     n.Title,
		Topic:     n.Topic,
		UserId:    n.UserId,
		Output:    n.Output,
		CreatedAt: n.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		// ProcessingStatus is persisted through its own repository, not as a
		// nested write.
	}
}

func (m *NotebookMapper) statusToEntity(s *model.NotebookProcessingStatus) *entity.NotebookProcessingStatus {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.NotebookProcessingStatus{
		Id:         s.Id,
		NotebookId: s.NotebookId,
		Status:     entity.ProcessingStatusValue(s.Status),
		Message:    s.Message,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *NotebookMapper) StatusToModel(s *entity.NotebookProcessingStatus) *model.NotebookProcessingStatus {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.NotebookProcessingStatus{
		Id:         s.Id,
		NotebookId: s.NotebookId,
		Status:     string(s.Status),
		Message:    s.Message,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  updatedAt,
	}
}

func (m *NotebookMapper) StatusToEntity(s *model.NotebookProcessingStatus) *entity.NotebookProcessingStatus {
	return m.statusToEntity(s)
}

func (m *NotebookMapper) ToEntities(notebooks []*model.Notebook) []*entity.Notebook {
	entities := make([]*entity.Notebook, len(notebooks))
	for i, n := range notebooks {
		entities[i] = m.ToEntity(n)
	}
	return entities
}

func (m *NotebookMapper) ToModels(notebooks []*entity.Notebook) []*model.Notebook {
	models := make([]*model.Notebook, len(notebooks))
	for i, n := range notebooks {
		models[i] = m.ToModel(n)
	}
	return models
}
