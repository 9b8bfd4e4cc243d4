// Package http provides http transport for the routing context read side
package http

import (
	stdhttp "net/http"

	"protokoll/internal/core/contextpack"
	"protokoll/internal/modkit/httpkit"
	"protokoll/internal/services/api/contextinfo/domain"
)

// Register mounts context endpoints on the given router
func Register(r httpkit.Router, pack *contextpack.Pack) {
	h := &handlers{pack: pack}

	httpkit.Get(r, "/summary", h.summary)
	httpkit.Get(r, "/people", h.people)
	httpkit.Get(r, "/companies", h.companies)
	httpkit.Get(r, "/projects", h.projects)
}

type handlers struct{ pack *contextpack.Pack }

// swagger:route GET /context/summary Context contextSummary
// @Summary Loaded context counts and lint findings
// @Tags Context
// @Produce json
// @Success 200 {object} domain.SummaryDTO "ok"
// @Router /context/summary [get]
func (h *handlers) summary(_ *stdhttp.Request) (any, error) {
	return domain.FromSummary(h.pack.Summarize(), h.pack.Lint()), nil
}

// swagger:route GET /context/people Context contextPeople
// @Summary Known people
// @Tags Context
// @Produce json
// @Success 200 {array} domain.PersonDTO "ok"
// @Router /context/people [get]
func (h *handlers) people(_ *stdhttp.Request) (any, error) {
	return domain.FromPeople(h.pack.People()), nil
}

// swagger:route GET /context/companies Context contextCompanies
// @Summary Known companies
// @Tags Context
// @Produce json
// @Success 200 {array} domain.CompanyDTO "ok"
// @Router /context/companies [get]
func (h *handlers) companies(_ *stdhttp.Request) (any, error) {
	return domain.FromCompanies(h.pack.Companies()), nil
}

// swagger:route GET /context/projects Context contextProjects
// @Summary Project routes with their matching rules
// @Tags Context
// @Produce json
// @Success 200 {array} domain.RouteDTO "ok"
// @Router /context/projects [get]
func (h *handlers) projects(_ *stdhttp.Request) (any, error) {
	return domain.FromRoutes(h.pack.Routing().Projects), nil
}
