package service_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	perrs "protokoll/internal/platform/errors"

	"protokoll/internal/adapters/inbox"
	"protokoll/internal/core/contextpack"
	histdom "protokoll/internal/services/history/domain"
	"protokoll/internal/services/routing/service"
)

// fakeLedger implements the history recorder and query ports in memory
type fakeLedger struct {
	mu         sync.Mutex
	entries    []histdom.Entry
	failRecord error
}

func (f *fakeLedger) Record(_ context.Context, e histdom.Entry) (histdom.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRecord != nil {
		return histdom.Entry{}, f.failRecord
	}
	for _, prior := range f.entries {
		if prior.TranscriptHash != "" && prior.TranscriptHash == e.TranscriptHash {
			return histdom.Entry{}, perrs.Conflictf("history: transcript already routed to %s", prior.OutputPath)
		}
	}
	e.ID = fmt.Sprintf("entry-%d", len(f.entries)+1)
	e.CreatedAt = time.Now().UTC()
	f.entries = append(f.entries, e)
	return e, nil
}

func (f *fakeLedger) Recent(_ context.Context, limit int) ([]histdom.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]histdom.Entry(nil), f.entries...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeLedger) ByProject(_ context.Context, projectID string, _ int) ([]histdom.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []histdom.Entry
	for _, e := range f.entries {
		if e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeLedger) FindByHash(_ context.Context, hash string) (histdom.Entry, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if hash != "" && e.TranscriptHash == hash {
			return e, true, nil
		}
	}
	return histdom.Entry{}, false, nil
}

func (f *fakeLedger) PruneBefore(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []histdom.Entry
	var n int64
	for _, e := range f.entries {
		if e.OccurredAt.Before(cutoff) {
			n++
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept
	return n, nil
}

func writeContext(t *testing.T, destRoot string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"routing.yaml": fmt.Sprintf(`
routing:
  default:
    path: %s/inbox
    structure: none
    filename_options: [subject]
    create_directories: true
  conflict_resolution: ask
`, destRoot),
		"people.yaml": `
people:
  - id: sarah-chen
    name: Sarah Chen
    sounds_like: [sara chen]
`,
		"companies.yaml": `
companies:
  - id: acme
    name: ACME
    full_name: Acme Corporation
`,
		"projects.yaml": fmt.Sprintf(`
projects:
  - id: website-redesign
    destination:
      path: %s/website
      structure: none
      filename_options: [subject]
      create_directories: true
    classification:
      explicit_phrases: [website redesign]
      topics: [redesign]
    auto_tags: [project/website]
  - id: acme-account
    destination:
      path: %s/acme
      structure: none
      filename_options: [subject]
      create_directories: true
    classification:
      people: [sarah-chen]
      companies: [acme]
`, destRoot, destRoot),
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func newService(t *testing.T) (*service.Service, *fakeLedger, string) {
	t.Helper()
	destRoot := t.TempDir()
	pack, err := contextpack.Load(writeContext(t, destRoot))
	if err != nil {
		t.Fatalf("load context: %v", err)
	}
	ledger := &fakeLedger{}
	return service.New(pack, ledger, ledger, service.Config{Workers: 2}), ledger, destRoot
}

func stagedNote(t *testing.T, transcript string) inbox.Note {
	t.Helper()
	n, err := inbox.FromTranscript(transcript, "memo.txt", time.Date(2026, 3, 7, 14, 30, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("stage note: %v", err)
	}
	return n
}

func TestPreview_MatchesWithoutSideEffects(t *testing.T) {
	svc, ledger, destRoot := newService(t)
	ctx := context.Background()

	oc, err := svc.Preview(ctx, stagedNote(t, "The website redesign kickoff went well."))
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if oc.Decision.ProjectID != "website-redesign" {
		t.Fatalf("project %q", oc.Decision.ProjectID)
	}
	if !strings.HasPrefix(oc.OutputPath, filepath.Join(destRoot, "website")) ||
		!strings.HasSuffix(oc.OutputPath, ".md") {
		t.Fatalf("output path %q", oc.OutputPath)
	}
	if oc.WrittenPath != "" || oc.HistoryID != "" {
		t.Fatalf("preview must not commit: %+v", oc)
	}
	if len(ledger.entries) != 0 {
		t.Fatalf("preview recorded %d entries", len(ledger.entries))
	}
	if _, err := os.Stat(filepath.Join(destRoot, "website")); !os.IsNotExist(err) {
		t.Fatalf("preview touched the destination")
	}
}

func TestPreview_EmptyTranscript(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Preview(context.Background(), inbox.Note{})
	if !perrs.IsCode(err, perrs.ErrorCodeInvalidArgument) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestCommit_WritesNoteAndRecords(t *testing.T) {
	svc, ledger, destRoot := newService(t)
	ctx := context.Background()

	oc, err := svc.Commit(ctx, stagedNote(t, "Talked to Sarah Chen about the ACME renewal."), histdom.ViaCLI)
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if oc.Decision.ProjectID != "acme-account" {
		t.Fatalf("project %q", oc.Decision.ProjectID)
	}
	if oc.WrittenPath == "" || oc.HistoryID == "" {
		t.Fatalf("commit outcome incomplete: %+v", oc)
	}

	body, err := os.ReadFile(oc.WrittenPath)
	if err != nil {
		t.Fatalf("read written note: %v", err)
	}
	if !strings.Contains(string(body), "project: acme-account") {
		t.Fatalf("frontmatter missing project:\n%s", body)
	}
	if !strings.Contains(string(body), "Talked to Sarah Chen about the ACME renewal.") {
		t.Fatalf("body missing transcript:\n%s", body)
	}

	if len(ledger.entries) != 1 {
		t.Fatalf("ledger entries %d want 1", len(ledger.entries))
	}
	e := ledger.entries[0]
	if e.ProjectID != "acme-account" || e.OutputPath != oc.WrittenPath || e.DecidedVia != histdom.ViaCLI {
		t.Fatalf("ledger entry mismatch: %+v", e)
	}
	_ = destRoot
}

func TestCommit_DuplicateTranscriptConflicts(t *testing.T) {
	svc, _, destRoot := newService(t)
	ctx := context.Background()

	n := stagedNote(t, "Website redesign retro with the whole team.")
	if _, err := svc.Commit(ctx, n, histdom.ViaCLI); err != nil {
		t.Fatalf("first commit: %v", err)
	}
	_, err := svc.Commit(ctx, n, histdom.ViaWatch)
	if !perrs.IsCode(err, perrs.ErrorCodeConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}

	ents, err := os.ReadDir(filepath.Join(destRoot, "website"))
	if err != nil {
		t.Fatalf("read dest dir: %v", err)
	}
	if len(ents) != 1 {
		t.Fatalf("duplicate commit wrote a second file: %d entries", len(ents))
	}
}

func TestCommit_RecordFailureRemovesNote(t *testing.T) {
	svc, ledger, destRoot := newService(t)
	ledger.failRecord = errors.New("ledger unavailable")

	_, err := svc.Commit(context.Background(), stagedNote(t, "Website redesign status update."), histdom.ViaCLI)
	if err == nil || !strings.Contains(err.Error(), "ledger unavailable") {
		t.Fatalf("expected ledger error, got %v", err)
	}

	ents, _ := os.ReadDir(filepath.Join(destRoot, "website"))
	if len(ents) != 0 {
		t.Fatalf("failed commit left %d files behind", len(ents))
	}
}

func TestRunDir_MixedBatch(t *testing.T) {
	svc, _, destRoot := newService(t)
	ctx := context.Background()

	inboxDir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(inboxDir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("blank.txt", "  \n")
	write("groceries.txt", "Grocery list for the weekend trip.")
	write("kickoff-a.txt", "Website redesign kickoff went well, team is happy.")
	write("kickoff-c.txt", "Website redesign kickoff went well, team is happy.")

	rep, err := svc.RunDir(ctx, inboxDir, histdom.ViaCLI)
	if err != nil {
		t.Fatalf("RunDir: %v", err)
	}
	if rep.Total != 4 || rep.Routed != 1 || rep.Defaulted != 1 || rep.Duplicates != 1 || rep.Failed != 1 {
		t.Fatalf("report %+v", rep)
	}
	if len(rep.Items) != 4 {
		t.Fatalf("items %d want 4", len(rep.Items))
	}

	byName := map[string]int{}
	for i, it := range rep.Items {
		byName[filepath.Base(it.File)] = i
	}
	if it := rep.Items[byName["blank.txt"]]; it.Err == "" {
		t.Fatalf("blank.txt should fail: %+v", it)
	}
	if it := rep.Items[byName["groceries.txt"]]; it.ProjectID != "" || it.Err != "" || it.Duplicate {
		t.Fatalf("groceries.txt should take the default route: %+v", it)
	}

	// one of the identical kickoff notes wins the race, the other is the
	// duplicate; which one depends on worker scheduling
	a := rep.Items[byName["kickoff-a.txt"]]
	c := rep.Items[byName["kickoff-c.txt"]]
	routed, dup := a, c
	if a.Duplicate {
		routed, dup = c, a
	}
	if routed.ProjectID != "website-redesign" || routed.OutputPath == "" {
		t.Fatalf("routed kickoff item %+v", routed)
	}
	if !dup.Duplicate || dup.Err != "" {
		t.Fatalf("duplicate kickoff item %+v", dup)
	}

	ents, err := os.ReadDir(filepath.Join(destRoot, "website"))
	if err != nil {
		t.Fatalf("read dest dir: %v", err)
	}
	if len(ents) != 1 {
		t.Fatalf("website dir has %d files want 1", len(ents))
	}
}

func TestRunDir_MissingDirectory(t *testing.T) {
	svc, _, _ := newService(t)
	if _, err := svc.RunDir(context.Background(), filepath.Join(t.TempDir(), "nope"), histdom.ViaCLI); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
