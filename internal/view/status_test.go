package view

import (
	"testing"

	"decipher-research-be/internal/entity"
)

func TestProjectStatus(t *testing.T) {
	tests := []struct {
		name         string
		status       entity.ProcessingStatusValue
		wantIcon     string
		wantLabel    string
		wantEmphasis Emphasis
	}{
		{
			name:         "queued",
			status:       entity.ProcessingStatusQueued,
			wantIcon:     "clock",
			wantLabel:    "Queued",
			wantEmphasis: EmphasisNeutral,
		},
		{
			name:         "processing",
			status:       entity.ProcessingStatusProcessing,
			wantIcon:     "loader",
			wantLabel:    "Processing",
			wantEmphasis: EmphasisPrimary,
		},
		{
			name:         "processed",
			status:       entity.ProcessingStatusProcessed,
			wantIcon:     "check-circle",
			wantLabel:    "Ready",
			wantEmphasis: EmphasisPrimary,
		},
		{
			name:         "errored",
			status:       entity.ProcessingStatusErrored,
			wantIcon:     "alert-circle",
			wantLabel:    "Failed",
			wantEmphasis: EmphasisDestructive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectStatus(tt.status)
			if got.Icon != tt.wantIcon {
				t.Errorf("Icon = %q, want %q", got.Icon, tt.wantIcon)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", got.Label, tt.wantLabel)
			}
			if got.Emphasis != tt.wantEmphasis {
				t.Errorf("Emphasis = %q, want %q", got.Emphasis, tt.wantEmphasis)
			}
		})
	}
}

func TestProjectStatusTotality(t *testing.T) {
	validEmphasis := map[Emphasis]bool{
		EmphasisNeutral:     true,
		EmphasisPrimary:     true,
		EmphasisDestructive: true,
	}

	all := []entity.ProcessingStatusValue{
		entity.ProcessingStatusQueued,
		entity.ProcessingStatusProcessing,
		entity.ProcessingStatusProcessed,
		entity.ProcessingStatusErrored,
	}

	for _, status := range all {
		got := ProjectStatus(status)
		if got.Label == "" {
			t.Errorf("ProjectStatus(%q) returned empty label", status)
		}
		if !validEmphasis[got.Emphasis] {
			t.Errorf("ProjectStatus(%q) returned invalid emphasis %q", status, got.Emphasis)
		}
	}
}

func TestProjectStatusUnknownFallsBackToQueued(t *testing.T) {
	got := ProjectStatus(entity.ProcessingStatusValue("SOMETHING_NEW"))
	want := ProjectStatus(entity.ProcessingStatusQueued)
	if got != want {
		t.Errorf("unknown status = %+v, want queued entry %+v", got, want)
	}

	got = ProjectStatus("")
	if got != want {
		t.Errorf("empty status = %+v, want queued entry %+v", got, want)
	}
}

func TestProjectStatusDeterministic(t *testing.T) {
	first := ProjectStatus(entity.ProcessingStatusProcessing)
	second := ProjectStatus(entity.ProcessingStatusProcessing)
	if first != second {
		t.Errorf("repeated projection differs: %+v vs %+v", first, second)
	}
}
