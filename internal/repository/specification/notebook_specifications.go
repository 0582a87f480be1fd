package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByNotebookID filters dependent rows (sources, tasks) by their notebook
type ByNotebookID struct {
	NotebookID uuid.UUID
}

func (s ByNotebookID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notebook_id = ?", s.NotebookID)
}

// ByNotebookIDs filters by a set of notebooks
type ByNotebookIDs struct {
	NotebookIDs []uuid.UUID
}

func (s ByNotebookIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("notebook_id IN ?", s.NotebookIDs)
}

// WithProcessingStatus preloads the at-most-one status association
type WithProcessingStatus struct{}

func (s WithProcessingStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Preload("ProcessingStatus")
}
