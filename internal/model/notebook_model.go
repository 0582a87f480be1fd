package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Notebook struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     *string        `gorm:"type:varchar(255)"`
	Topic     *string        `gorm:"type:text"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	Output    *string        `gorm:"type:text"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`

	ProcessingStatus *NotebookProcessingStatus `gorm:"foreignKey:NotebookId"`
}

func (Notebook) TableName() string {
	return "notebooks"
}

type NotebookProcessingStatus struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NotebookId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Status     string    `gorm:"type:varchar(50);not null;default:'QUEUED'"`
	Message    *string   `gorm:"type:text"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

func (NotebookProcessingStatus) TableName() string {
	return "notebook_processing_statuses"
}
