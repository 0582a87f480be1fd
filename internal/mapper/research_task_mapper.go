package mapper

import (
	"encoding/json"

	"decipher-research-be/internal/entity"
	"decipher-research-be/internal/model"

	"gorm.io/datatypes"
)

type ResearchTaskMapper struct{}

func NewResearchTaskMapper() *ResearchTaskMapper {
	return &ResearchTaskMapper{}
}

func (m *ResearchTaskMapper) ToEntity(t *model.ResearchTask) *entity.ResearchTask {
	if t == nil {
		return nil
	}

	var sources []entity.ResearchSourceInput
	if len(t.Sources) > 0 {
		// Invalid JSON means a corrupt row; surface as empty rather than fail.
		_ = json.Unmarshal(t.Sources, &sources)
	}

	var result *entity.TaskResult
	if len(t.Result) > 0 {
		var r entity.TaskResult
		if err := json.Unmarshal(t.Result, &r); err == nil {
			result = &r
		}
	}

	return &entity.ResearchTask{
		Id:          t.Id,
		NotebookId:  t.NotebookId,
		UserId:      t.UserId,
		Topic:       t.Topic,
		Sources:     sources,
		Status:      entity.TaskStatusValue(t.Status),
		Result:      result,
		Error:       t.Error,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
		FailedAt:    t.FailedAt,
	}
}

func (m *ResearchTaskMapper) ToModel(t *entity.ResearchTask) *model.ResearchTask {
	if t == nil {
		return nil
	}

	var sources datatypes.JSON
	if len(t.Sources) > 0 {
		b, _ := json.Marshal(t.Sources)
		sources = datatypes.JSON(b)
	}

	var result datatypes.JSON
	if t.Result != nil {
		b, _ := json.Marshal(t.Result)
		result = datatypes.JSON(b)
	}

	return &model.ResearchTask{
		Id:          t.Id,
		NotebookId:  t.NotebookId,
		UserId:      t.UserId,
		Topic:       t.Topic,
		Sources:     sources,
		Status:      string(t.Status),
		Result:      result,
		Error:       t.Error,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
		FailedAt:    t.FailedAt,
	}
}

func (m *ResearchTaskMapper) ToEntities(tasks []*model.ResearchTask) []*entity.ResearchTask {
	entities := make([]*entity.ResearchTask, len(tasks))
	for i, t := range tasks {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
