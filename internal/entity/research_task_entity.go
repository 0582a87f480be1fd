package entity

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatusValue tracks the execution state of a research task. This is the
// worker-side lifecycle; the notebook display status is projected separately.
type TaskStatusValue string

const (
	TaskStatusPending   TaskStatusValue = "pending"
	TaskStatusRunning   TaskStatusValue = "running"
	TaskStatusCompleted TaskStatusValue = "completed"
	TaskStatusFailed    TaskStatusValue = "failed"
)

// ResearchSourceType constrains where a user-supplied source comes from.
const (
	SourceTypeURL    = "URL"
	SourceTypeManual = "MANUAL"
	SourceTypeFile   = "FILE"
)

// ResearchSourceInput is a user-supplied source attached to a task submission.
type ResearchSourceInput struct {
	SourceType    string  `json:"source_type"`
	SourceURL     *string `json:"source_url"`
	SourceContent *string `json:"source_content"`
}

// TaskResult is the output of a completed research run.
type TaskResult struct {
	Title    string     `json:"title"`
	Document string     `json:"document"`
	Links    []WebLink  `json:"links"`
	Scraped  []WebVisit `json:"scraped_data"`
}

type WebLink struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

type WebVisit struct {
	URL       string `json:"url"`
	PageTitle string `json:"page_title"`
	Content   string `json:"content"`
}

type ResearchTask struct {
	Id          uuid.UUID
	NotebookId  uuid.UUID
	UserId      uuid.UUID
	Topic       *string
	Sources     []ResearchSourceInput
	Status      TaskStatusValue
	Result      *TaskResult
	Error       *string
	CreatedAt   time.Time
	CompletedAt *time.Time
	FailedAt    *time.Time
}
