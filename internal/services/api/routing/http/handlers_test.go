package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"protokoll/internal/adapters/inbox"
	"protokoll/internal/core/route"
	perrs "protokoll/internal/platform/errors"
	phttp "protokoll/internal/platform/net/http"
	"protokoll/internal/services/api/routing/domain"
	rhttp "protokoll/internal/services/api/routing/http"
	histdom "protokoll/internal/services/history/domain"
	routdom "protokoll/internal/services/routing/domain"
)

// fakeRouter satisfies routdom.RouterPort with canned outcomes
type fakeRouter struct {
	lastNote  inbox.Note
	lastVia   histdom.Via
	commitErr error
}

func (f *fakeRouter) outcome() routdom.Outcome {
	return routdom.Outcome{
		Decision: route.Decision{
			ProjectID:  "website-redesign",
			Confidence: 0.87,
			Reasoning:  `explicit phrase: "website redesign"`,
			Signals: []route.Signal{
				{Type: route.SignalExplicitPhrase, Value: "website redesign", Weight: 0.9},
			},
			AutoTags: []string{"project/website"},
		},
		OutputPath: "/notes/website/0307-kickoff.md",
	}
}

func (f *fakeRouter) Preview(_ context.Context, n inbox.Note) (routdom.Outcome, error) {
	f.lastNote = n
	return f.outcome(), nil
}

func (f *fakeRouter) Commit(_ context.Context, n inbox.Note, via histdom.Via) (routdom.Outcome, error) {
	f.lastNote = n
	f.lastVia = via
	if f.commitErr != nil {
		return routdom.Outcome{}, f.commitErr
	}
	oc := f.outcome()
	oc.WrittenPath = oc.OutputPath
	oc.HistoryID = "entry-1"
	return oc, nil
}

func (f *fakeRouter) RouteFile(context.Context, string, histdom.Via) (routdom.Outcome, error) {
	return routdom.Outcome{}, nil
}

func (f *fakeRouter) RunDir(context.Context, string, histdom.Via) (routdom.BatchReport, error) {
	return routdom.BatchReport{}, nil
}

// envelope mirrors the transport envelope for assertions
type envelope struct {
	StatusCode int             `json:"status_code"`
	Error      string          `json:"error,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

func newServer(t *testing.T, f *fakeRouter) http.Handler {
	t.Helper()
	m := chi.NewRouter()
	rhttp.Register(phttp.AdaptChi(m), f)
	return m
}

func postJSON(t *testing.T, h http.Handler, target string, body any) (int, envelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(http.MethodPost, target, rd)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v (body %q)", err, rec.Body.String())
		}
	}
	return rec.Code, env
}

func decodeRoute(t *testing.T, env envelope) domain.RouteResponse {
	t.Helper()
	var out domain.RouteResponse
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode route response: %v", err)
	}
	return out
}

func TestPreview_ReturnsDecisionWithoutWriting(t *testing.T) {
	f := &fakeRouter{}
	h := newServer(t, f)

	code, env := postJSON(t, h, "/preview", map[string]any{
		"transcript": "Kickoff for the website redesign went well.",
	})
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (error %q)", code, env.Error)
	}

	out := decodeRoute(t, env)
	if out.Decision.ProjectID != "website-redesign" {
		t.Fatalf("project = %q, want website-redesign", out.Decision.ProjectID)
	}
	if out.Written || out.WrittenPath != "" || out.HistoryID != "" {
		t.Fatalf("preview must not report a write: %+v", out)
	}
	if len(out.Decision.Signals) != 1 || out.Decision.Signals[0].Type != "explicit_phrase" {
		t.Fatalf("signals = %+v", out.Decision.Signals)
	}
	if f.lastNote.Hash == "" {
		t.Fatal("expected the staged note to carry a transcript hash")
	}
}

func TestCommit_ReportsWriteAndSurface(t *testing.T) {
	f := &fakeRouter{}
	h := newServer(t, f)

	code, env := postJSON(t, h, "/", map[string]any{
		"transcript":    "Kickoff for the website redesign went well.",
		"recorded_at":   "2026-03-07T14:30:00Z",
		"captured_with": "voice-memos",
	})
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (error %q)", code, env.Error)
	}

	out := decodeRoute(t, env)
	if !out.Written || out.WrittenPath == "" {
		t.Fatalf("commit must report a write: %+v", out)
	}
	if out.HistoryID != "entry-1" {
		t.Fatalf("history id = %q", out.HistoryID)
	}
	if f.lastVia != histdom.ViaAPI {
		t.Fatalf("via = %q, want %q", f.lastVia, histdom.ViaAPI)
	}
	if f.lastNote.Source != "voice-memos" {
		t.Fatalf("source = %q, want voice-memos", f.lastNote.Source)
	}
	want := time.Date(2026, 3, 7, 14, 30, 0, 0, time.UTC)
	if !f.lastNote.AudioDate.Equal(want) {
		t.Fatalf("audio date = %v, want %v", f.lastNote.AudioDate, want)
	}
}

func TestCommit_DuplicateYieldsConflict(t *testing.T) {
	f := &fakeRouter{commitErr: perrs.Conflictf("routing: transcript already routed to %s", "~/notes/website")}
	h := newServer(t, f)

	code, env := postJSON(t, h, "/", map[string]any{
		"transcript": "Kickoff for the website redesign went well.",
	})
	if code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", code)
	}
	if !strings.Contains(env.Error, "already routed") {
		t.Fatalf("error = %q", env.Error)
	}
}

func TestCommit_RejectsBadTimestamp(t *testing.T) {
	h := newServer(t, &fakeRouter{})

	code, env := postJSON(t, h, "/", map[string]any{
		"transcript":  "Kickoff notes.",
		"recorded_at": "yesterday afternoon",
	})
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 (error %q)", code, env.Error)
	}
	if !strings.Contains(env.Error, "RFC3339") {
		t.Fatalf("error = %q", env.Error)
	}
}

func TestCommit_RejectsBlankTranscript(t *testing.T) {
	f := &fakeRouter{}
	h := newServer(t, f)

	// whitespace survives the required validator but not staging
	code, _ := postJSON(t, h, "/", map[string]any{"transcript": "   "})
	if code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", code)
	}

	// an absent transcript fails bind validation outright
	code, _ = postJSON(t, h, "/", map[string]any{})
	if code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", code)
	}
	if f.lastVia != "" {
		t.Fatal("router must not be reached with a blank transcript")
	}
}
