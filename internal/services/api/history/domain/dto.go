// Package domain holds DTOs for the history http surface
package domain

import (
	"time"

	histdom "protokoll/internal/services/history/domain"
)

// EntryDTO is one ledger entry on the wire
type EntryDTO struct {
	ID              string             `json:"id" example:"3f0c40f6-6f5a-4a5e-b6a0-0a9dbe0a5f11"`
	OccurredAt      string             `json:"occurred_at" example:"2026-03-07T14:30:00Z"`
	SourceFile      string             `json:"source_file,omitempty" example:"2026-03-07 14.30.00.txt"`
	ProjectID       string             `json:"project_id,omitempty" example:"website-redesign"`
	DestinationPath string             `json:"destination_path" example:"~/notes/website"`
	OutputPath      string             `json:"output_path" example:"/home/me/notes/website/0307-kickoff.md"`
	Confidence      float64            `json:"confidence" example:"0.87"`
	Reasoning       string             `json:"reasoning,omitempty" example:"explicit phrase: \"website redesign\""`
	SignalCount     int                `json:"signal_count" example:"2"`
	Signals         []SignalRecordDTO  `json:"signals,omitempty"`
	Alternates      int                `json:"alternates" example:"0"`
	DecidedVia      string             `json:"decided_via" example:"cli"`
	CreatedAt       string             `json:"created_at" example:"2026-03-07T14:30:02Z"`
}

// SignalRecordDTO is one persisted signal on the wire
type SignalRecordDTO struct {
	Type   string  `json:"type" example:"explicit_phrase"`
	Value  string  `json:"value" example:"website redesign"`
	Weight float64 `json:"weight" example:"0.9"`
}

// FromEntry maps a ledger entry onto the wire shape
func FromEntry(e histdom.Entry) EntryDTO {
	dto := EntryDTO{
		ID:              e.ID,
		OccurredAt:      e.OccurredAt.UTC().Format(time.RFC3339),
		SourceFile:      e.SourceFile,
		ProjectID:       e.ProjectID,
		DestinationPath: e.DestinationPath,
		OutputPath:      e.OutputPath,
		Confidence:      e.Confidence,
		Reasoning:       e.Reasoning,
		SignalCount:     e.SignalCount,
		Alternates:      e.Alternates,
		DecidedVia:      string(e.DecidedVia),
		CreatedAt:       e.CreatedAt.UTC().Format(time.RFC3339),
	}
	for _, sg := range e.Signals {
		dto.Signals = append(dto.Signals, SignalRecordDTO(sg))
	}
	return dto
}

// FromEntries maps a ledger page onto the wire shape
func FromEntries(es []histdom.Entry) []EntryDTO {
	out := make([]EntryDTO, 0, len(es))
	for _, e := range es {
		out = append(out, FromEntry(e))
	}
	return out
}
