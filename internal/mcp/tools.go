package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"protokoll/internal/adapters/inbox"
	perrs "protokoll/internal/platform/errors"
	histdom "protokoll/internal/services/history/domain"
	routdom "protokoll/internal/services/routing/domain"
)

type routeNoteInput struct {
	Transcript string `json:"transcript" jsonschema:"required,Transcript text to route"`
	SourceFile string `json:"source_file,omitempty" jsonschema:"Original transcript filename, used for capture date hints"`
	RecordedAt string `json:"recorded_at,omitempty" jsonschema:"RFC3339 capture time of the recording"`
	DryRun     bool   `json:"dry_run,omitempty" jsonschema:"Classify only, do not write the note or touch the ledger"`
}

type routeNoteOutput struct {
	ProjectID   string   `json:"project_id,omitempty" jsonschema:"Winning project id, empty for the default route"`
	Default     bool     `json:"default" jsonschema:"True when the note fell through to the default route"`
	Confidence  float64  `json:"confidence" jsonschema:"Classification confidence"`
	Reasoning   string   `json:"reasoning" jsonschema:"Why this route won"`
	OutputPath  string   `json:"output_path" jsonschema:"Planned markdown path"`
	Written     bool     `json:"written" jsonschema:"True when the note was written to disk"`
	WrittenPath string   `json:"written_path,omitempty" jsonschema:"Path actually written, differs from output_path on filename collisions"`
	AutoTags    []string `json:"auto_tags,omitempty" jsonschema:"Tags stamped into the note frontmatter"`
	Alternates  int      `json:"alternates" jsonschema:"Number of runner up projects above the confidence floor"`
}

type listRoutesInput struct{}

type routeInfo struct {
	ProjectID       string   `json:"project_id" jsonschema:"Project id"`
	Path            string   `json:"path" jsonschema:"Destination directory"`
	Active          bool     `json:"active" jsonschema:"Inactive routes never win classification"`
	Topics          []string `json:"topics,omitempty" jsonschema:"Topic keywords that score toward this route"`
	ExplicitPhrases []string `json:"explicit_phrases,omitempty" jsonschema:"Trigger phrases that strongly select this route"`
}

type listRoutesOutput struct {
	DefaultPath string      `json:"default_path" jsonschema:"Fallback directory for unmatched notes"`
	Projects    []routeInfo `json:"projects" jsonschema:"Configured project routes"`
	People      int         `json:"people" jsonschema:"Known people in the context"`
	Companies   int         `json:"companies" jsonschema:"Known companies in the context"`
}

type routingHistoryInput struct {
	Project string `json:"project,omitempty" jsonschema:"Only entries routed to this project id"`
	Limit   int    `json:"limit,omitempty" jsonschema:"Maximum entries to return (default 20)"`
}

type historyEntry struct {
	OccurredAt string  `json:"occurred_at" jsonschema:"When the note was captured"`
	ProjectID  string  `json:"project_id,omitempty" jsonschema:"Project the note was routed to"`
	OutputPath string  `json:"output_path" jsonschema:"Where the note was written"`
	Confidence float64 `json:"confidence" jsonschema:"Classification confidence"`
	Reasoning  string  `json:"reasoning,omitempty" jsonschema:"Why this route won"`
	DecidedVia string  `json:"decided_via" jsonschema:"Surface that committed the decision"`
}

type routingHistoryOutput struct {
	Entries []historyEntry `json:"entries" jsonschema:"Ledger entries, newest first"`
	Count   int            `json:"count" jsonschema:"Number of entries returned"`
}

// registerTools wires every tool onto the MCP server
func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "route_note",
		Description: "Route a voice note transcript to its project folder and record the decision",
	}, s.routeNote)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "list_routes",
		Description: "List the configured project routes and their matching rules",
	}, s.listRoutes)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        "routing_history",
		Description: "Show recent routing decisions from the ledger",
	}, s.routingHistory)
}

func (s *Server) routeNote(ctx context.Context, _ *mcp.CallToolRequest, in routeNoteInput) (*mcp.CallToolResult, routeNoteOutput, error) {
	var at time.Time
	if in.RecordedAt != "" {
		t, err := time.Parse(time.RFC3339, in.RecordedAt)
		if err != nil {
			return nil, routeNoteOutput{}, perrs.InvalidArgf("mcp: recorded_at %q is not RFC3339", in.RecordedAt)
		}
		at = t
	}
	n, err := inbox.FromTranscript(in.Transcript, in.SourceFile, at)
	if err != nil {
		return nil, routeNoteOutput{}, perrs.InvalidArgf("mcp: %v", err)
	}

	var oc routdom.Outcome
	if in.DryRun {
		oc, err = s.router.Preview(ctx, n)
	} else {
		oc, err = s.router.Commit(ctx, n, histdom.ViaMCP)
	}
	if err != nil {
		return nil, routeNoteOutput{}, err
	}

	d := oc.Decision
	out := routeNoteOutput{
		ProjectID:   d.ProjectID,
		Default:     !d.Routed(),
		Confidence:  d.Confidence,
		Reasoning:   d.Reasoning,
		OutputPath:  oc.OutputPath,
		Written:     oc.WrittenPath != "",
		WrittenPath: oc.WrittenPath,
		AutoTags:    d.AutoTags,
		Alternates:  len(d.AlternateMatches),
	}

	text := fmt.Sprintf("Routed to %s (confidence %.2f): %s", d.ProjectID, d.Confidence, oc.WrittenPath)
	switch {
	case in.DryRun && d.ProjectID != "":
		text = fmt.Sprintf("Would route to %s (confidence %.2f): %s", d.ProjectID, d.Confidence, oc.OutputPath)
	case in.DryRun:
		text = fmt.Sprintf("Would use the default route: %s", oc.OutputPath)
	case d.ProjectID == "":
		text = fmt.Sprintf("Used the default route: %s", oc.WrittenPath)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, out, nil
}

func (s *Server) listRoutes(_ context.Context, _ *mcp.CallToolRequest, _ listRoutesInput) (*mcp.CallToolResult, listRoutesOutput, error) {
	cfg := s.pack.Routing()
	sum := s.pack.Summarize()

	out := listRoutesOutput{
		DefaultPath: cfg.Default.Path,
		Projects:    make([]routeInfo, 0, len(cfg.Projects)),
		People:      sum.People,
		Companies:   sum.Companies,
	}
	for _, pr := range cfg.Projects {
		out.Projects = append(out.Projects, routeInfo{
			ProjectID:       pr.ProjectID,
			Path:            pr.Destination.Path,
			Active:          pr.IsActive(),
			Topics:          pr.Classification.Topics,
			ExplicitPhrases: pr.Classification.ExplicitPhrases,
		})
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{
			Text: fmt.Sprintf("%d project routes, default %s", len(out.Projects), out.DefaultPath),
		}},
	}, out, nil
}

func (s *Server) routingHistory(ctx context.Context, _ *mcp.CallToolRequest, in routingHistoryInput) (*mcp.CallToolResult, routingHistoryOutput, error) {
	limit := in.Limit
	if limit < 1 {
		limit = 20
	}

	var (
		rows []histdom.Entry
		err  error
	)
	if in.Project != "" {
		rows, err = s.query.ByProject(ctx, in.Project, limit)
	} else {
		rows, err = s.query.Recent(ctx, limit)
	}
	if err != nil {
		return nil, routingHistoryOutput{}, err
	}

	out := routingHistoryOutput{Entries: make([]historyEntry, 0, len(rows))}
	for _, e := range rows {
		out.Entries = append(out.Entries, historyEntry{
			OccurredAt: e.OccurredAt.UTC().Format(time.RFC3339),
			ProjectID:  e.ProjectID,
			OutputPath: e.OutputPath,
			Confidence: e.Confidence,
			Reasoning:  e.Reasoning,
			DecidedVia: string(e.DecidedVia),
		})
	}
	out.Count = len(out.Entries)

	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{
			Text: fmt.Sprintf("%d routing decisions", out.Count),
		}},
	}, out, nil
}
