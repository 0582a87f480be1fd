package dto

import (
	"time"

	"github.com/google/uuid"
)

// PublishResearchTaskMessage is the watermill payload that hands a persisted
// task to the worker.
type PublishResearchTaskMessage struct {
	TaskId uuid.UUID `json:"task_id"`
}

// PublishEmbedSourceMessage asks the embedding consumer to (re)index a source.
type PublishEmbedSourceMessage struct {
	SourceId uuid.UUID `json:"source_id"`
}

// Notification is the payload delivered over websocket / email triggers.
// Not persisted.
type Notification struct {
	Type       string    `json:"type"` // "task_submitted" | "task_completed" | "task_failed"
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	NotebookId uuid.UUID `json:"notebook_id"`
	TaskId     uuid.UUID `json:"task_id"`
	CreatedAt  time.Time `json:"created_at"`
}
