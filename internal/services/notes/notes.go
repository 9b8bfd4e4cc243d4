// Package notes writes routed transcripts to disk as markdown with
// routing frontmatter
package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	perrs "protokoll/internal/platform/errors"
	"protokoll/internal/platform/logger"

	"protokoll/internal/core/route"

	"gopkg.in/yaml.v3"
)

// collisions beyond this suggest a runaway caller, not a busy folder
const maxCollisionSuffix = 1000

// Sink writes routed notes to their destination paths
type Sink struct {
	log *logger.Logger
}

// NewSink constructs a markdown note sink
func NewSink() *Sink {
	return &Sink{log: logger.Named("notes")}
}

// Input bundles everything the sink needs for one routed note
type Input struct {
	Decision   route.Decision
	Note       route.Note
	OutputPath string

	// CapturedWith names the recording app when the intake knows it
	CapturedWith string
}

// Frontmatter is the YAML header written ahead of the transcript body.
// Field order here is the order in the file
type Frontmatter struct {
	Project      string   `yaml:"project,omitempty"`
	Confidence   float64  `yaml:"confidence"`
	SourceFile   string   `yaml:"source_file,omitempty"`
	CapturedWith string   `yaml:"captured_with,omitempty"`
	AudioDate    string   `yaml:"audio_date,omitempty"`
	RoutedAt     string   `yaml:"routed_at"`
	Tags         []string `yaml:"tags,omitempty"`
	Signals      []string `yaml:"signals,omitempty"`
	Reasoning    string   `yaml:"reasoning,omitempty"`
}

// Write renders the note and writes it under in.OutputPath, never
// clobbering an existing file: collisions get a -2, -3, ... suffix ahead
// of the extension. Returns the path actually written
func (s *Sink) Write(in Input) (string, error) {
	dir := filepath.Dir(in.OutputPath)
	if in.Decision.Destination.CreateDirectories {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("notes: create %s: %w", dir, err)
		}
	} else if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return "", perrs.InvalidArgf("notes: destination directory %s does not exist", dir)
		}
		return "", fmt.Errorf("notes: stat %s: %w", dir, err)
	}

	body, err := render(in)
	if err != nil {
		return "", err
	}

	path, err := nextFreePath(in.OutputPath)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return "", fmt.Errorf("notes: write %s: %w", path, err)
	}

	s.log.Debug().
		Str("path", path).
		Str("project", in.Decision.ProjectID).
		Msg("note written")
	return path, nil
}

// render produces the markdown document: frontmatter fence, header,
// fence, blank line, transcript
func render(in Input) ([]byte, error) {
	fm := Frontmatter{
		Project:      in.Decision.ProjectID,
		Confidence:   in.Decision.Confidence,
		SourceFile:   in.Note.SourceFile,
		CapturedWith: in.CapturedWith,
		RoutedAt:     time.Now().UTC().Format(time.RFC3339),
		Tags:         in.Decision.AutoTags,
		Signals:      signalSummaries(in.Decision.Signals),
		Reasoning:    in.Decision.Reasoning,
	}
	if !in.Note.AudioDate.IsZero() {
		fm.AudioDate = in.Note.AudioDate.Format(time.RFC3339)
	}

	head, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("notes: marshal frontmatter: %w", err)
	}

	var b strings.Builder
	b.Grow(len(head) + len(in.Note.Transcript) + 16)
	b.WriteString("---\n")
	b.Write(head)
	b.WriteString("---\n\n")
	b.WriteString(in.Note.Transcript)
	b.WriteString("\n")
	return []byte(b.String()), nil
}

// signalSummaries renders one line per signal for the frontmatter
func signalSummaries(sigs []route.Signal) []string {
	if len(sigs) == 0 {
		return nil
	}
	out := make([]string, 0, len(sigs))
	for _, sg := range sigs {
		out = append(out, fmt.Sprintf("%s: %s (%.2g)", sg.Type, sg.Value, sg.Weight))
	}
	return out
}

// nextFreePath returns path when unused, else the first free suffixed
// variant (note-2.md, note-3.md, ...)
func nextFreePath(path string) (string, error) {
	if !exists(path) {
		return path, nil
	}
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	for i := 2; i < maxCollisionSuffix; i++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, i, ext)
		if !exists(candidate) {
			return candidate, nil
		}
	}
	return "", perrs.Conflictf("notes: %s: no free collision suffix", path)
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
