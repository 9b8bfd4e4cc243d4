// Package domain holds DTOs for the context info http surface
package domain

import (
	"protokoll/internal/core/contextpack"
	"protokoll/internal/core/route"
)

// SummaryDTO reports what the context pack loaded
type SummaryDTO struct {
	People    int      `json:"people" example:"12"`
	Companies int      `json:"companies" example:"4"`
	Projects  int      `json:"projects" example:"7"`
	Sources   []string `json:"sources,omitempty" example:"/home/me/.protokoll/context"`
	Problems  []string `json:"problems,omitempty" example:"project acme-account: references unknown person \"bob\""`
}

// PersonDTO is one known person
type PersonDTO struct {
	ID         string   `json:"id" example:"sarah-chen"`
	Name       string   `json:"name,omitempty" example:"Sarah Chen"`
	SoundsLike []string `json:"sounds_like,omitempty" example:"sara chen"`
}

// CompanyDTO is one known company
type CompanyDTO struct {
	ID         string   `json:"id" example:"acme"`
	Name       string   `json:"name,omitempty" example:"ACME"`
	FullName   string   `json:"full_name,omitempty" example:"Acme Corporation"`
	SoundsLike []string `json:"sounds_like,omitempty"`
}

// RouteDTO is one configured project route with its matching rules
type RouteDTO struct {
	ProjectID       string   `json:"project_id" example:"website-redesign"`
	Path            string   `json:"path" example:"~/notes/website"`
	Structure       string   `json:"structure" example:"month"`
	Active          bool     `json:"active" example:"true"`
	Priority        int      `json:"priority" example:"0"`
	ContextType     string   `json:"context_type,omitempty" example:"work"`
	People          []string `json:"people,omitempty"`
	Companies       []string `json:"companies,omitempty"`
	Topics          []string `json:"topics,omitempty" example:"redesign"`
	ExplicitPhrases []string `json:"explicit_phrases,omitempty" example:"website redesign"`
	AutoTags        []string `json:"auto_tags,omitempty" example:"project/website"`
}

// FromSummary maps pack counts and lint findings onto the wire shape
func FromSummary(s contextpack.Summary, problems []contextpack.Problem) SummaryDTO {
	dto := SummaryDTO{
		People:    s.People,
		Companies: s.Companies,
		Projects:  s.Projects,
		Sources:   s.Sources,
	}
	for _, p := range problems {
		dto.Problems = append(dto.Problems, p.String())
	}
	return dto
}

// FromPeople maps the people registry onto the wire shape
func FromPeople(ps []route.Person) []PersonDTO {
	out := make([]PersonDTO, 0, len(ps))
	for _, p := range ps {
		out = append(out, PersonDTO{ID: p.ID, Name: p.Name, SoundsLike: p.SoundsLike})
	}
	return out
}

// FromCompanies maps the company registry onto the wire shape
func FromCompanies(cs []route.Company) []CompanyDTO {
	out := make([]CompanyDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, CompanyDTO{ID: c.ID, Name: c.Name, FullName: c.FullName, SoundsLike: c.SoundsLike})
	}
	return out
}

// FromRoutes maps the routing table onto the wire shape
func FromRoutes(rs []route.ProjectRoute) []RouteDTO {
	out := make([]RouteDTO, 0, len(rs))
	for _, r := range rs {
		out = append(out, RouteDTO{
			ProjectID:       r.ProjectID,
			Path:            r.Destination.Path,
			Structure:       string(r.Destination.Structure),
			Active:          r.IsActive(),
			Priority:        r.Priority,
			ContextType:     string(r.Classification.ContextType),
			People:          r.Classification.People,
			Companies:       r.Classification.Companies,
			Topics:          r.Classification.Topics,
			ExplicitPhrases: r.Classification.ExplicitPhrases,
			AutoTags:        r.AutoTags,
		})
	}
	return out
}
