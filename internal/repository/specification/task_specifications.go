package specification

import "gorm.io/gorm"

// ByTaskStatus filters research tasks by execution status
type ByTaskStatus struct {
	Status string
}

func (s ByTaskStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}
