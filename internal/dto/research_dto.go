package dto

import (
	"time"

	"decipher-research-be/internal/entity"

	"github.com/google/uuid"
)

type ResearchSourceInput struct {
	SourceType    string  `json:"source_type" validate:"required,oneof=URL MANUAL FILE"`
	SourceURL     *string `json:"source_url" validate:"omitempty,url"`
	SourceContent *string `json:"source_content"`
}

type SubmitResearchRequest struct {
	NotebookId uuid.UUID             `json:"notebook_id" validate:"required"`
	Topic      *string               `json:"topic" validate:"omitempty,min=3"`
	Sources    []ResearchSourceInput `json:"sources" validate:"omitempty,dive"`
}

type SubmitResearchResponse struct {
	TaskId     uuid.UUID `json:"task_id"`
	NotebookId uuid.UUID `json:"notebook_id"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
}

type TaskStatusResponse struct {
	TaskId      uuid.UUID                    `json:"task_id"`
	NotebookId  uuid.UUID                    `json:"notebook_id"`
	Topic       *string                      `json:"topic"`
	Sources     []entity.ResearchSourceInput `json:"sources,omitempty"`
	Status      string                       `json:"status"`
	CreatedAt   time.Time                    `json:"created_at"`
	Result      *entity.TaskResult           `json:"result,omitempty"`
	Error       *string                      `json:"error,omitempty"`
	CompletedAt *time.Time                   `json:"completed_at,omitempty"`
	FailedAt    *time.Time                   `json:"failed_at,omitempty"`
}

type TaskListItem struct {
	TaskId      uuid.UUID  `json:"task_id"`
	NotebookId  uuid.UUID  `json:"notebook_id"`
	Topic       *string    `json:"topic"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type TaskListResponse struct {
	Tasks []*TaskListItem `json:"tasks"`
	Total int64           `json:"total"`
}

type SearchSourcesRequest struct {
	NotebookId uuid.UUID `json:"notebook_id" validate:"required"`
	Query      string    `json:"query" validate:"required,min=2"`
	Limit      int       `json:"limit" validate:"omitempty,min=1,max=20"`
}

type SearchSourcesResultItem struct {
	SourceId   uuid.UUID `json:"source_id"`
	ChunkIndex int       `json:"chunk_index"`
	Document   string    `json:"document"`
	Score      float64   `json:"score"`
}

type SearchSourcesResponse struct {
	Results []*SearchSourcesResultItem `json:"results"`
}
