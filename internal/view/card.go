package view

import (
	"time"

	"decipher-research-be/internal/entity"

	"github.com/google/uuid"
)

// Fallback labels for optional notebook fields.
const (
	FallbackTitle = "Untitled Notebook"
	FallbackTopic = "No topic provided"
)

// NotebookCard is the summary projection of a notebook: straight
// field-to-view binding with fallback text for absent optionals.
// The notebook is never mutated through this projection.
type NotebookCard struct {
	Id            uuid.UUID     `json:"id"`
	Title         string        `json:"title"`
	Topic         string        `json:"topic"`
	Status        StatusDisplay `json:"status"`
	StatusMessage *string       `json:"status_message,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

// BuildCard projects a notebook entity into its card. A missing processing
// status row displays as QUEUED.
func BuildCard(notebook *entity.Notebook) *NotebookCard {
	if notebook == nil {
		return nil
	}

	card := &NotebookCard{
		Id:        notebook.Id,
		Title:     FallbackTitle,
		Topic:     FallbackTopic,
		Status:    ProjectStatus(entity.ProcessingStatusQueued),
		CreatedAt: notebook.CreatedAt,
	}

	if notebook.Title != nil && *notebook.Title != "" {
		card.Title = *notebook.Title
	}
	if notebook.Topic != nil && *notebook.Topic != "" {
		card.Topic = *notebook.Topic
	}
	if ps := notebook.ProcessingStatus; ps != nil {
		card.Status = ProjectStatus(ps.Status)
		card.StatusMessage = ps.Message
	}

	return card
}

// BuildCards projects a slice of notebooks, preserving order.
func BuildCards(notebooks []*entity.Notebook) []*NotebookCard {
	cards := make([]*NotebookCard, len(notebooks))
	for i, n := range notebooks {
		cards[i] = BuildCard(n)
	}
	return cards
}
