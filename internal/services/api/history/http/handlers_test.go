package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	phttp "protokoll/internal/platform/net/http"
	"protokoll/internal/services/api/history/domain"
	hhttp "protokoll/internal/services/api/history/http"
	histdom "protokoll/internal/services/history/domain"
)

// fakeQuery records the arguments it was called with
type fakeQuery struct {
	entries    []histdom.Entry
	gotLimit   int
	gotProject string
	calls      int
}

func (f *fakeQuery) Recent(_ context.Context, limit int) ([]histdom.Entry, error) {
	f.calls++
	f.gotLimit = limit
	return f.entries, nil
}

func (f *fakeQuery) ByProject(_ context.Context, projectID string, limit int) ([]histdom.Entry, error) {
	f.calls++
	f.gotProject = projectID
	f.gotLimit = limit
	return f.entries, nil
}

func (f *fakeQuery) FindByHash(context.Context, string) (histdom.Entry, bool, error) {
	return histdom.Entry{}, false, nil
}

func (f *fakeQuery) PruneBefore(context.Context, time.Time) (int64, error) { return 0, nil }

func entry(id, project string, at time.Time) histdom.Entry {
	return histdom.Entry{
		ID:              id,
		OccurredAt:      at,
		SourceFile:      "inbox/" + id + ".txt",
		TranscriptHash:  "hash-" + id,
		ProjectID:       project,
		DestinationPath: "~/notes/" + project,
		OutputPath:      "/notes/" + project + "/" + id + ".md",
		Confidence:      0.8,
		Reasoning:       "topic: \"redesign\"",
		SignalCount:     1,
		Signals:         []histdom.SignalRecord{{Type: "topic", Value: "redesign", Weight: 0.3}},
		DecidedVia:      histdom.ViaCLI,
		CreatedAt:       at,
	}
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Error      string          `json:"error,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

func get(t *testing.T, h http.Handler, target string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
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

func newServer(t *testing.T, q *fakeQuery) http.Handler {
	t.Helper()
	m := chi.NewRouter()
	hhttp.Register(phttp.AdaptChi(m), q)
	return m
}

func TestRecent_DefaultsLimitAndMapsEntries(t *testing.T) {
	at := time.Date(2026, 3, 7, 14, 30, 0, 0, time.UTC)
	q := &fakeQuery{entries: []histdom.Entry{entry("a1", "website-redesign", at)}}
	h := newServer(t, q)

	code, env := get(t, h, "/recent")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (error %q)", code, env.Error)
	}
	if q.gotLimit != 20 {
		t.Fatalf("limit = %d, want the default 20", q.gotLimit)
	}

	var rows []domain.EntryDTO
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		t.Fatalf("decode rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].OccurredAt != "2026-03-07T14:30:00Z" {
		t.Fatalf("occurred_at = %q", rows[0].OccurredAt)
	}
	if rows[0].DecidedVia != "cli" || rows[0].ProjectID != "website-redesign" {
		t.Fatalf("row = %+v", rows[0])
	}
}

func TestRecent_HonorsLimitParam(t *testing.T) {
	q := &fakeQuery{}
	h := newServer(t, q)

	if code, _ := get(t, h, "/recent?limit=3"); code != http.StatusOK {
		t.Fatalf("status = %d, want 200", code)
	}
	if q.gotLimit != 3 {
		t.Fatalf("limit = %d, want 3", q.gotLimit)
	}
}

func TestRecent_RejectsBadLimit(t *testing.T) {
	q := &fakeQuery{}
	h := newServer(t, q)

	for _, raw := range []string{"abc", "0", "-2"} {
		code, _ := get(t, h, "/recent?limit="+raw)
		if code != http.StatusUnprocessableEntity {
			t.Fatalf("limit %q: status = %d, want 422", raw, code)
		}
	}
	if q.calls != 0 {
		t.Fatalf("query port reached %d times with bad limits", q.calls)
	}
}

func TestByProject_PassesPathParam(t *testing.T) {
	at := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	q := &fakeQuery{entries: []histdom.Entry{entry("b2", "acme-account", at)}}
	h := newServer(t, q)

	code, env := get(t, h, "/projects/acme-account?limit=5")
	if code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (error %q)", code, env.Error)
	}
	if q.gotProject != "acme-account" || q.gotLimit != 5 {
		t.Fatalf("got project %q limit %d", q.gotProject, q.gotLimit)
	}
}
