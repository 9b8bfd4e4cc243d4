// Package domain holds DTOs for the routing http surface
package domain

import (
	routdom "protokoll/internal/services/routing/domain"
)

// PreviewInput is a transcript to classify without committing anything
type PreviewInput struct {
	Transcript   string `json:"transcript" validate:"required" example:"Kickoff for the website redesign went well."`
	SourceFile   string `json:"source_file,omitempty" validate:"omitempty,max=512" example:"2026-03-07 14.30.00.txt"`
	RecordedAt   string `json:"recorded_at,omitempty" validate:"omitempty" example:"2026-03-07T14:30:00Z"`
	CapturedWith string `json:"captured_with,omitempty" validate:"omitempty,max=100" example:"voice-memos"`
}

// CommitInput is a transcript to route, write, and record
type CommitInput struct {
	Transcript   string `json:"transcript" validate:"required" example:"Kickoff for the website redesign went well."`
	SourceFile   string `json:"source_file,omitempty" validate:"omitempty,max=512" example:"2026-03-07 14.30.00.txt"`
	RecordedAt   string `json:"recorded_at,omitempty" validate:"omitempty" example:"2026-03-07T14:30:00Z"`
	CapturedWith string `json:"captured_with,omitempty" validate:"omitempty,max=100" example:"voice-memos"`
}

// SignalDTO is one piece of classification evidence
type SignalDTO struct {
	Type   string  `json:"type" example:"explicit_phrase"`
	Value  string  `json:"value" example:"website redesign"`
	Weight float64 `json:"weight" example:"0.9"`
}

// AlternateDTO is a runner-up match surfaced for disambiguation
type AlternateDTO struct {
	ProjectID  string  `json:"project_id" example:"acme-account"`
	Confidence float64 `json:"confidence" example:"0.62"`
	Reasoning  string  `json:"reasoning" example:"mentioned Sarah Chen (associated)"`
}

// DecisionDTO is the routing decision payload
type DecisionDTO struct {
	ProjectID  string         `json:"project_id,omitempty" example:"website-redesign"`
	Default    bool           `json:"default" example:"false"`
	Confidence float64        `json:"confidence" example:"0.87"`
	Reasoning  string         `json:"reasoning" example:"explicit phrase: \"website redesign\""`
	Signals    []SignalDTO    `json:"signals,omitempty"`
	AutoTags   []string       `json:"auto_tags,omitempty" example:"project/website"`
	Alternates []AlternateDTO `json:"alternates,omitempty"`
}

// RouteResponse is the preview and commit payload
type RouteResponse struct {
	Decision    DecisionDTO `json:"decision"`
	OutputPath  string      `json:"output_path" example:"/home/me/notes/website/0307-kickoff.md"`
	Written     bool        `json:"written" example:"true"`
	WrittenPath string      `json:"written_path,omitempty" example:"/home/me/notes/website/0307-kickoff.md"`
	HistoryID   string      `json:"history_id,omitempty" example:"3f0c40f6-6f5a-4a5e-b6a0-0a9dbe0a5f11"`
}

// FromOutcome maps a service outcome onto the wire shape
func FromOutcome(oc routdom.Outcome) RouteResponse {
	d := oc.Decision
	dto := DecisionDTO{
		ProjectID:  d.ProjectID,
		Default:    !d.Routed(),
		Confidence: d.Confidence,
		Reasoning:  d.Reasoning,
		AutoTags:   d.AutoTags,
	}
	for _, sg := range d.Signals {
		dto.Signals = append(dto.Signals, SignalDTO{
			Type:   string(sg.Type),
			Value:  sg.Value,
			Weight: sg.Weight,
		})
	}
	for _, alt := range d.AlternateMatches {
		dto.Alternates = append(dto.Alternates, AlternateDTO{
			ProjectID:  alt.ProjectID,
			Confidence: alt.Confidence,
			Reasoning:  alt.Reasoning,
		})
	}
	return RouteResponse{
		Decision:    dto,
		OutputPath:  oc.OutputPath,
		Written:     oc.WrittenPath != "",
		WrittenPath: oc.WrittenPath,
		HistoryID:   oc.HistoryID,
	}
}
