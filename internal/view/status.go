package view

import "decipher-research-be/internal/entity"

// Emphasis is the visual weight hint attached to a status display entry.
type Emphasis string

const (
	EmphasisNeutral     Emphasis = "neutral"
	EmphasisPrimary     Emphasis = "primary"
	EmphasisDestructive Emphasis = "destructive"
)

// StatusDisplay is what the client renders for a processing status:
// an icon identifier, a human label and a visual emphasis level.
type StatusDisplay struct {
	Icon     string   `json:"icon"`
	Label    string   `json:"label"`
	Emphasis Emphasis `json:"emphasis"`
}

var statusDisplays = map[entity.ProcessingStatusValue]StatusDisplay{
	entity.ProcessingStatusQueued:     {Icon: "clock", Label: "Queued", Emphasis: EmphasisNeutral},
	entity.ProcessingStatusProcessing: {Icon: "loader", Label: "Processing", Emphasis: EmphasisPrimary},
	entity.ProcessingStatusProcessed:  {Icon: "check-circle", Label: "Ready", Emphasis: EmphasisPrimary},
	entity.ProcessingStatusErrored:    {Icon: "alert-circle", Label: "Failed", Emphasis: EmphasisDestructive},
}

// ProjectStatus maps a processing status to its display entry. The mapping is
// total: unknown values fall back to the QUEUED entry, the same fallback used
// when a notebook has no status row at all. It never returns a blank entry.
func ProjectStatus(status entity.ProcessingStatusValue) StatusDisplay {
	if display, ok := statusDisplays[status]; ok {
		return display
	}
	return statusDisplays[entity.ProcessingStatusQueued]
}
