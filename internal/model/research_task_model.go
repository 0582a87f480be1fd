package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ResearchTask struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NotebookId  uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId      uuid.UUID      `gorm:"type:uuid;not null;index"`
	Topic       *string        `gorm:"type:text"`
	Sources     datatypes.JSON `gorm:"type:jsonb"` // []entity.ResearchSourceInput
	Status      string         `gorm:"type:varchar(50);not null;default:'pending';index"`
	Result      datatypes.JSON `gorm:"type:jsonb"` // entity.TaskResult
	Error       *string        `gorm:"type:text"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
	CompletedAt *time.Time
	FailedAt    *time.Time
}

func (ResearchTask) TableName() string {
	return "research_tasks"
}
