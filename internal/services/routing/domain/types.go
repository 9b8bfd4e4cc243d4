// Package domain defines the contracts for routing voice notes end to
// end: classify, plan a destination, write the note, record the decision
package domain

import (
	"protokoll/internal/core/route"
)

// Outcome is the result of routing one note
type Outcome struct {
	Decision route.Decision

	// OutputPath is the planned destination file
	OutputPath string

	// WrittenPath is the file actually written; empty on previews. It can
	// differ from OutputPath when a collision suffix was needed
	WrittenPath string

	// HistoryID is the ledger entry id; empty on previews
	HistoryID string
}

// BatchItem is the per file result of a directory run
type BatchItem struct {
	File       string  `json:"file"`
	ProjectID  string  `json:"project_id,omitempty"`
	OutputPath string  `json:"output_path,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
	Duplicate  bool    `json:"duplicate,omitempty"`
	Err        string  `json:"error,omitempty"`
}

// BatchReport aggregates a directory run. Routed counts project wins,
// Defaulted counts default route fallbacks that still wrote a note
type BatchReport struct {
	Total      int         `json:"total"`
	Routed     int         `json:"routed"`
	Defaulted  int         `json:"defaulted"`
	Duplicates int         `json:"duplicates"`
	Failed     int         `json:"failed"`
	Items      []BatchItem `json:"items"`
}
