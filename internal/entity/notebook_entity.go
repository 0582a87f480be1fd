package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProcessingStatusValue is the backend-reported lifecycle state of a
// notebook's content-ingestion pipeline. Stable values, stored as-is.
type ProcessingStatusValue string

const (
	ProcessingStatusQueued     ProcessingStatusValue = "QUEUED"
	ProcessingStatusProcessing ProcessingStatusValue = "PROCESSING"
	ProcessingStatusProcessed  ProcessingStatusValue = "PROCESSED"
	ProcessingStatusErrored    ProcessingStatusValue = "ERRORED"
)

type Notebook struct {
	Id        uuid.UUID
	Title     *string
	Topic     *string
	UserId    uuid.UUID
	Output    *string // composed research document, set once a task completes
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool

	// At most one per notebook. Nil means no status has been reported yet,
	// which displays as QUEUED.
	ProcessingStatus *NotebookProcessingStatus
}

type NotebookProcessingStatus struct {
	Id         uuid.UUID
	NotebookId uuid.UUID
	Status     ProcessingStatusValue
	Message    *string
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}
