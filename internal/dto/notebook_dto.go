package dto

import (
	"time"

	"decipher-research-be/internal/view"

	"github.com/google/uuid"
)

type CreateNotebookRequest struct {
	Title *string `json:"title"`
	Topic *string `json:"topic" validate:"omitempty,min=3"`
}

type CreateNotebookResponse struct {
	Id uuid.UUID `json:"id"`
}

type ShowNotebookResponse struct {
	Id            uuid.UUID          `json:"id"`
	Title         *string            `json:"title"`
	Topic         *string            `json:"topic"`
	Output        *string            `json:"output"`
	Status        view.StatusDisplay `json:"status"`
	StatusMessage *string            `json:"status_message,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     *time.Time         `json:"updated_at"`
}

type UpdateNotebookRequest struct {
	Id    uuid.UUID
	Title *string `json:"title"`
	Topic *string `json:"topic" validate:"omitempty,min=3"`
}

type UpdateNotebookResponse struct {
	Id uuid.UUID `json:"id"`
}

// GetAllNotebookResponse is the list payload: one card per notebook.
type GetAllNotebookResponse struct {
	Notebooks []*view.NotebookCard `json:"notebooks"`
	Total     int                  `json:"total"`
}
