package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Source struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NotebookId uuid.UUID      `gorm:"type:uuid;not null;index"`
	URL        string         `gorm:"type:text"`
	PageTitle  string         `gorm:"type:varchar(512)"`
	Content    string         `gorm:"type:text"`
	Summary    string         `gorm:"type:text"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"autoUpdateTime"`
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (Source) TableName() string {
	return "sources"
}
