// Package domain defines the types and interfaces for the routing ledger
package domain

import (
	"encoding/json"
	"time"

	"protokoll/internal/core/route"
)

// Via identifies the surface that committed a routing decision
type Via string

const (
	// ViaCLI marks decisions committed from the command line
	ViaCLI Via = "cli"
	// ViaAPI marks decisions committed through the HTTP API
	ViaAPI Via = "api"
	// ViaWatch marks decisions committed by the inbox watcher
	ViaWatch Via = "watch"
	// ViaMCP marks decisions committed by an MCP client
	ViaMCP Via = "mcp"
)

// Valid reports whether v is one of the known surfaces
func (v Via) Valid() bool {
	switch v {
	case ViaCLI, ViaAPI, ViaWatch, ViaMCP:
		return true
	}
	return false
}

// SignalRecord is the persisted shape of one classification signal
type SignalRecord struct {
	Type   string  `json:"type"`
	Value  string  `json:"value"`
	Weight float64 `json:"weight"`
}

// Entry is one recorded routing decision.
// ProjectID is empty for default route fallbacks
type Entry struct {
	ID              string
	OccurredAt      time.Time
	SourceFile      string
	TranscriptHash  string
	ProjectID       string
	DestinationPath string
	OutputPath      string
	Confidence      float64
	Reasoning       string
	SignalCount     int
	Signals         []SignalRecord
	Alternates      int
	DecidedVia      Via
	CreatedAt       time.Time
}

// NewEntry builds the ledger entry for a decision. ID and CreatedAt are
// assigned by the recorder
func NewEntry(d route.Decision, n route.Note, outputPath string, via Via) Entry {
	sigs := make([]SignalRecord, 0, len(d.Signals))
	for _, sg := range d.Signals {
		sigs = append(sigs, SignalRecord{
			Type:   string(sg.Type),
			Value:  sg.Value,
			Weight: sg.Weight,
		})
	}
	occurred := n.AudioDate
	if occurred.IsZero() {
		occurred = time.Now()
	}
	return Entry{
		OccurredAt:      occurred.UTC(),
		SourceFile:      n.SourceFile,
		TranscriptHash:  n.Hash,
		ProjectID:       d.ProjectID,
		DestinationPath: d.Destination.Path,
		OutputPath:      outputPath,
		Confidence:      d.Confidence,
		Reasoning:       d.Reasoning,
		SignalCount:     len(d.Signals),
		Signals:         sigs,
		Alternates:      len(d.AlternateMatches),
		DecidedVia:      via,
	}
}

// MarshalSignals renders the signal list for the signals column
func MarshalSignals(sigs []SignalRecord) (string, error) {
	if len(sigs) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(sigs)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// UnmarshalSignals parses the signals column, tolerating the empty string
func UnmarshalSignals(raw string) ([]SignalRecord, error) {
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var out []SignalRecord
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}
