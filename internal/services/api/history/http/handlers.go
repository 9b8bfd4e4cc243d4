// Package http provides http transport for history
package http

import (
	stdhttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	perrs "protokoll/internal/platform/errors"

	"protokoll/internal/modkit/httpkit"
	"protokoll/internal/services/api/history/domain"
	histdom "protokoll/internal/services/history/domain"
)

// Register mounts history endpoints on the given router
func Register(r httpkit.Router, q histdom.QueryPort) {
	h := &handlers{query: q}

	httpkit.Get(r, "/recent", h.recent)
	httpkit.Get(r, "/projects/{id}", h.byProject)
}

type handlers struct{ query histdom.QueryPort }

// swagger:route GET /history/recent History historyRecent
// @Summary Recent routing decisions
// @Tags History
// @Produce json
// @Param limit query int false "page size"
// @Success 200 {array} domain.EntryDTO "ok"
// @Router /history/recent [get]
func (h *handlers) recent(r *stdhttp.Request) (any, error) {
	limit, err := limitParam(r, 20)
	if err != nil {
		return nil, err
	}
	rows, err := h.query.Recent(r.Context(), limit)
	if err != nil {
		return nil, err
	}
	return domain.FromEntries(rows), nil
}

// swagger:route GET /history/projects/{id} History historyByProject
// @Summary Routing decisions for one project
// @Tags History
// @Produce json
// @Param id path string true "project id"
// @Param limit query int false "page size"
// @Success 200 {array} domain.EntryDTO "ok"
// @Router /history/projects/{id} [get]
func (h *handlers) byProject(r *stdhttp.Request) (any, error) {
	limit, err := limitParam(r, 20)
	if err != nil {
		return nil, err
	}
	rows, err := h.query.ByProject(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		return nil, err
	}
	return domain.FromEntries(rows), nil
}

// limitParam parses the optional limit query parameter
func limitParam(r *stdhttp.Request, def int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, perrs.InvalidArgf("history: limit %q is not a positive integer", raw)
	}
	return n, nil
}
