package view

import (
	"encoding/json"
	"testing"
	"time"

	"decipher-research-be/internal/entity"

	"github.com/google/uuid"
)

func strPtr(s string) *string { return &s }

func TestBuildCardFallbacks(t *testing.T) {
	created := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		notebook   *entity.Notebook
		wantTitle  string
		wantTopic  string
		wantLabel  string
		wantStatus Emphasis
	}{
		{
			name: "all optionals absent",
			notebook: &entity.Notebook{
				Id:        uuid.New(),
				CreatedAt: created,
			},
			wantTitle:  "Untitled Notebook",
			wantTopic:  "No topic provided",
			wantLabel:  "Queued",
			wantStatus: EmphasisNeutral,
		},
		{
			name: "empty strings treated as absent",
			notebook: &entity.Notebook{
				Id:        uuid.New(),
				Title:     strPtr(""),
				Topic:     strPtr(""),
				CreatedAt: created,
			},
			wantTitle:  "Untitled Notebook",
			wantTopic:  "No topic provided",
			wantLabel:  "Queued",
			wantStatus: EmphasisNeutral,
		},
		{
			name: "populated notebook",
			notebook: &entity.Notebook{
				Id:        uuid.New(),
				Title:     strPtr("Quantum Batteries"),
				Topic:     strPtr("solid state energy storage"),
				CreatedAt: created,
				ProcessingStatus: &entity.NotebookProcessingStatus{
					Status: entity.ProcessingStatusProcessed,
				},
			},
			wantTitle:  "Quantum Batteries",
			wantTopic:  "solid state energy storage",
			wantLabel:  "Ready",
			wantStatus: EmphasisPrimary,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := BuildCard(tt.notebook)
			if card.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", card.Title, tt.wantTitle)
			}
			if card.Topic != tt.wantTopic {
				t.Errorf("Topic = %q, want %q", card.Topic, tt.wantTopic)
			}
			if card.Status.Label != tt.wantLabel {
				t.Errorf("Status.Label = %q, want %q", card.Status.Label, tt.wantLabel)
			}
			if card.Status.Emphasis != tt.wantStatus {
				t.Errorf("Status.Emphasis = %q, want %q", card.Status.Emphasis, tt.wantStatus)
			}
			if !card.CreatedAt.Equal(created) {
				t.Errorf("CreatedAt = %v, want %v", card.CreatedAt, created)
			}
		})
	}
}

func TestBuildCardStatusMessageVerbatim(t *testing.T) {
	notebook := &entity.Notebook{
		Id: uuid.New(),
		ProcessingStatus: &entity.NotebookProcessingStatus{
			Status:  entity.ProcessingStatusProcessing,
			Message: strPtr("Extracting transcript"),
		},
	}

	card := BuildCard(notebook)
	if card.StatusMessage == nil || *card.StatusMessage != "Extracting transcript" {
		t.Errorf("StatusMessage = %v, want %q", card.StatusMessage, "Extracting transcript")
	}
}

func TestBuildCardIdempotent(t *testing.T) {
	notebook := &entity.Notebook{
		Id:        uuid.New(),
		Title:     strPtr("Repeatable"),
		CreatedAt: time.Now(),
		ProcessingStatus: &entity.NotebookProcessingStatus{
			Status:  entity.ProcessingStatusErrored,
			Message: strPtr("Research failed. Please try again."),
		},
	}

	first, err := json.Marshal(BuildCard(notebook))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	second, err := json.Marshal(BuildCard(notebook))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("re-projection differs:\n%s\n%s", first, second)
	}
}

func TestBuildCardNil(t *testing.T) {
	if BuildCard(nil) != nil {
		t.Error("BuildCard(nil) should return nil")
	}
}

func TestBuildFooterYear(t *testing.T) {
	now := time.Date(2031, 12, 31, 23, 59, 0, 0, time.UTC)
	footer := BuildFooter(now)
	if footer.CopyrightYear != 2031 {
		t.Errorf("CopyrightYear = %d, want 2031", footer.CopyrightYear)
	}
	if len(footer.Links) == 0 {
		t.Error("footer should carry its link list")
	}

	// Year must roll over with the clock, not get cached.
	next := BuildFooter(now.Add(2 * time.Minute))
	if next.CopyrightYear != 2032 {
		t.Errorf("CopyrightYear after midnight = %d, want 2032", next.CopyrightYear)
	}
}
