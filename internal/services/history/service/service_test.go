package service_test

import (
	"context"
	"testing"
	"time"

	perrs "protokoll/internal/platform/errors"
	"protokoll/internal/platform/store"

	"protokoll/internal/services/history"
	"protokoll/internal/services/history/domain"
	"protokoll/internal/services/history/repo"
	"protokoll/internal/services/history/service"
)

func openLedger(t *testing.T) *service.Service {
	t.Helper()
	ctx := context.Background()
	st, err := store.Open(ctx, store.Config{
		AppName: "history-test",
		SQLite: store.SQLiteConfig{
			Enabled:       true,
			Path:          ":memory:",
			MaxConns:      1,
			Migrations:    history.Migrations,
			MigrationsDir: history.MigrationsDir,
		},
	})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close(ctx) })
	return service.New(st.DB, repo.NewSQLite(), service.Config{HardLimit: 5})
}

func entry(hash, project string, at time.Time) domain.Entry {
	return domain.Entry{
		OccurredAt:      at,
		SourceFile:      "inbox/" + hash + ".txt",
		TranscriptHash:  hash,
		ProjectID:       project,
		DestinationPath: "~/notes/" + project,
		OutputPath:      "/notes/" + project + "/" + hash + ".md",
		Confidence:      0.7,
		Reasoning:       "topic: budget",
		SignalCount:     1,
		Signals:         []domain.SignalRecord{{Type: "topic", Value: "budget", Weight: 0.3}},
		DecidedVia:      domain.ViaCLI,
	}
}

func TestRecord_RoundTrip(t *testing.T) {
	svc := openLedger(t)
	ctx := context.Background()

	at := time.Date(2026, 3, 7, 14, 30, 0, 0, time.UTC)
	got, err := svc.Record(ctx, entry("aaa111", "website-redesign", at))
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got.ID == "" {
		t.Fatalf("expected assigned id")
	}
	if got.CreatedAt.IsZero() {
		t.Fatalf("expected assigned created_at")
	}

	rows, err := svc.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Recent len %d want 1", len(rows))
	}
	e := rows[0]
	if e.ID != got.ID || e.ProjectID != "website-redesign" || e.TranscriptHash != "aaa111" {
		t.Fatalf("entry mismatch: %+v", e)
	}
	if !e.OccurredAt.Equal(at) {
		t.Fatalf("occurred_at %v want %v", e.OccurredAt, at)
	}
	if len(e.Signals) != 1 || e.Signals[0].Type != "topic" || e.Signals[0].Weight != 0.3 {
		t.Fatalf("signals did not round trip: %+v", e.Signals)
	}
	if e.DecidedVia != domain.ViaCLI {
		t.Fatalf("decided_via %q", e.DecidedVia)
	}
}

func TestRecord_DuplicateHashConflicts(t *testing.T) {
	svc := openLedger(t)
	ctx := context.Background()

	at := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	if _, err := svc.Record(ctx, entry("dupdup", "alpha", at)); err != nil {
		t.Fatalf("first record: %v", err)
	}
	_, err := svc.Record(ctx, entry("dupdup", "beta", at.Add(time.Hour)))
	if err == nil {
		t.Fatalf("expected conflict for duplicate hash")
	}
	if !perrs.IsCode(err, perrs.ErrorCodeConflict) {
		t.Fatalf("expected conflict code, got %v", err)
	}

	// second entry must not have been inserted
	rows, err := svc.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("ledger has %d rows want 1", len(rows))
	}
}

func TestRecord_Validation(t *testing.T) {
	svc := openLedger(t)
	ctx := context.Background()

	e := entry("v1", "alpha", time.Now())
	e.OutputPath = ""
	if _, err := svc.Record(ctx, e); !perrs.IsCode(err, perrs.ErrorCodeInvalidArgument) {
		t.Fatalf("missing output path: got %v", err)
	}

	e = entry("v2", "alpha", time.Now())
	e.DecidedVia = "carrier-pigeon"
	if _, err := svc.Record(ctx, e); !perrs.IsCode(err, perrs.ErrorCodeInvalidArgument) {
		t.Fatalf("bad via: got %v", err)
	}
}

func TestQueries_ByProjectAndHash(t *testing.T) {
	svc := openLedger(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, tc := range []struct{ hash, project string }{
		{"h1", "alpha"},
		{"h2", "beta"},
		{"h3", "alpha"},
	} {
		if _, err := svc.Record(ctx, entry(tc.hash, tc.project, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("record %s: %v", tc.hash, err)
		}
	}

	alpha, err := svc.ByProject(ctx, "alpha", 10)
	if err != nil {
		t.Fatalf("ByProject: %v", err)
	}
	if len(alpha) != 2 {
		t.Fatalf("alpha rows %d want 2", len(alpha))
	}
	// newest first
	if alpha[0].TranscriptHash != "h3" || alpha[1].TranscriptHash != "h1" {
		t.Fatalf("order wrong: %s, %s", alpha[0].TranscriptHash, alpha[1].TranscriptHash)
	}

	if _, err := svc.ByProject(ctx, "", 10); !perrs.IsCode(err, perrs.ErrorCodeInvalidArgument) {
		t.Fatalf("empty project id: got %v", err)
	}

	got, found, err := svc.FindByHash(ctx, "h2")
	if err != nil || !found {
		t.Fatalf("FindByHash: found=%v err=%v", found, err)
	}
	if got.ProjectID != "beta" {
		t.Fatalf("hash lookup project %q", got.ProjectID)
	}

	if _, found, err := svc.FindByHash(ctx, "missing"); err != nil || found {
		t.Fatalf("missing hash: found=%v err=%v", found, err)
	}
	if _, found, err := svc.FindByHash(ctx, ""); err != nil || found {
		t.Fatalf("empty hash should short circuit: found=%v err=%v", found, err)
	}
}

func TestRecent_ClampsToHardLimit(t *testing.T) {
	svc := openLedger(t)
	ctx := context.Background()

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		e := entry(string(rune('a'+i))+"-hash", "alpha", base.Add(time.Duration(i)*time.Minute))
		if _, err := svc.Record(ctx, e); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	rows, err := svc.Recent(ctx, 100)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("Recent len %d want hard limit 5", len(rows))
	}
	rows, err = svc.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Recent len %d want 2", len(rows))
	}
}

func TestPruneBefore(t *testing.T) {
	svc := openLedger(t)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		e := entry(string(rune('p'+i))+"-hash", "alpha", base.AddDate(0, 0, i*7))
		if _, err := svc.Record(ctx, e); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	n, err := svc.PruneBefore(ctx, base.AddDate(0, 0, 10))
	if err != nil {
		t.Fatalf("PruneBefore: %v", err)
	}
	if n != 2 {
		t.Fatalf("pruned %d want 2", n)
	}

	rows, err := svc.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("remaining %d want 2", len(rows))
	}

	if _, err := svc.PruneBefore(ctx, time.Time{}); !perrs.IsCode(err, perrs.ErrorCodeInvalidArgument) {
		t.Fatalf("zero cutoff: got %v", err)
	}
}
