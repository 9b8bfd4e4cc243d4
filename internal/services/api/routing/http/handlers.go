// Package http provides http transport for routing
package http

import (
	stdhttp "net/http"
	"time"

	perrs "protokoll/internal/platform/errors"

	"protokoll/internal/adapters/inbox"
	"protokoll/internal/modkit/httpkit"
	"protokoll/internal/services/api/routing/domain"
	histdom "protokoll/internal/services/history/domain"
	routdom "protokoll/internal/services/routing/domain"
)

// Register mounts routing endpoints on the given router
func Register(r httpkit.Router, router routdom.RouterPort) {
	h := &handlers{router: router}

	// classify only, nothing written
	httpkit.PostJSON[domain.PreviewInput](r, "/preview", h.preview)

	// classify, write the note, record the decision
	httpkit.PostJSON[domain.CommitInput](r, "/", h.commit)
}

type handlers struct{ router routdom.RouterPort }

// swagger:route POST /routings/preview Routing routingPreview
// @Summary Classify a transcript without committing
// @Tags Routing
// @Accept json
// @Produce json
// @Param payload body domain.PreviewInput true "Transcript"
// @Success 200 {object} domain.RouteResponse "ok"
// @Router /routings/preview [post]
func (h *handlers) preview(r *stdhttp.Request, in domain.PreviewInput) (any, error) {
	n, err := stage(in.Transcript, in.SourceFile, in.RecordedAt, in.CapturedWith)
	if err != nil {
		return nil, err
	}
	oc, err := h.router.Preview(r.Context(), n)
	if err != nil {
		return nil, err
	}
	return domain.FromOutcome(oc), nil
}

// swagger:route POST /routings Routing routingCommit
// @Summary Route a transcript, write the note, record the decision
// @Tags Routing
// @Accept json
// @Produce json
// @Param payload body domain.CommitInput true "Transcript"
// @Success 200 {object} domain.RouteResponse "ok"
// @Router /routings [post]
func (h *handlers) commit(r *stdhttp.Request, in domain.CommitInput) (any, error) {
	n, err := stage(in.Transcript, in.SourceFile, in.RecordedAt, in.CapturedWith)
	if err != nil {
		return nil, err
	}
	oc, err := h.router.Commit(r.Context(), n, histdom.ViaAPI)
	if err != nil {
		return nil, err
	}
	return domain.FromOutcome(oc), nil
}

// stage builds the inbox note from wire fields
func stage(transcript, sourceFile, recordedAt, capturedWith string) (inbox.Note, error) {
	var at time.Time
	if recordedAt != "" {
		t, err := time.Parse(time.RFC3339, recordedAt)
		if err != nil {
			return inbox.Note{}, perrs.InvalidArgf("routing: recorded_at %q is not RFC3339", recordedAt)
		}
		at = t
	}
	n, err := inbox.FromTranscript(transcript, sourceFile, at)
	if err != nil {
		return inbox.Note{}, perrs.InvalidArgf("routing: %v", err)
	}
	n.Source = capturedWith
	return n, nil
}
