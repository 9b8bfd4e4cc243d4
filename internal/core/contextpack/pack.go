// Package contextpack loads the layered context directories that drive
// routing: people, companies, projects, and routing policy. Layers merge
// most general first, so a project directory can override a single field
// of a globally defined entity without restating the rest
package contextpack

import (
	"fmt"
	"sort"

	"protokoll/internal/core/route"
)

// Pack is a compiled, immutable view over all context layers. It serves
// entity lookups for classification and the routing table for routing
type Pack struct {
	routing       route.Config
	people        []route.Person
	companies     []route.Company
	peopleByID    map[string]route.Person
	companiesByID map[string]route.Company
	sources       []string
}

// Routing returns the merged routing table
func (p *Pack) Routing() route.Config { return p.routing }

// Person resolves a person by id
func (p *Pack) Person(id string) (route.Person, bool) {
	pe, ok := p.peopleByID[id]
	return pe, ok
}

// People returns all known people, sorted by id
func (p *Pack) People() []route.Person { return p.people }

// Company resolves a company by id
func (p *Pack) Company(id string) (route.Company, bool) {
	c, ok := p.companiesByID[id]
	return c, ok
}

// Companies returns all known companies, sorted by id
func (p *Pack) Companies() []route.Company { return p.companies }

// Sources returns the directories that contributed at least one context
// file, most general first
func (p *Pack) Sources() []string { return p.sources }

// Summary holds the counts shown by status surfaces
type Summary struct {
	People    int
	Companies int
	Projects  int
	Sources   []string
}

// Summarize reports what the pack loaded
func (p *Pack) Summarize() Summary {
	return Summary{
		People:    len(p.people),
		Companies: len(p.companies),
		Projects:  len(p.routing.Projects),
		Sources:   p.sources,
	}
}

// Problem is a non-fatal finding from Lint
type Problem struct {
	ProjectID string
	Detail    string
}

func (p Problem) String() string {
	if p.ProjectID == "" {
		return p.Detail
	}
	return fmt.Sprintf("project %s: %s", p.ProjectID, p.Detail)
}

// Lint reports configuration that loads fine but cannot behave as the
// author intended: references to unknown entities and projects that no
// transcript can ever match
func (p *Pack) Lint() []Problem {
	var out []Problem
	for _, pr := range p.routing.Projects {
		cls := pr.Classification
		for _, id := range cls.People {
			if _, ok := p.peopleByID[id]; !ok {
				out = append(out, Problem{pr.ProjectID, fmt.Sprintf("references unknown person %q", id)})
			}
		}
		for _, id := range cls.Companies {
			if _, ok := p.companiesByID[id]; !ok {
				out = append(out, Problem{pr.ProjectID, fmt.Sprintf("references unknown company %q", id)})
			}
		}
		if len(cls.ExplicitPhrases) == 0 && len(cls.People) == 0 &&
			len(cls.Companies) == 0 && len(cls.Topics) == 0 && cls.ContextType == "" {
			out = append(out, Problem{pr.ProjectID, "has no matchable classification and can never be routed to"})
		}
	}
	return out
}

// compile freezes merged raw layers into the lookup shapes the rest of
// the system consumes. People and companies sort by id for determinism;
// projects keep their merged order because tie-breaking depends on it
func compile(r rawRouting, people []rawPerson, companies []rawCompany, projects []rawProject, sources []string) *Pack {
	p := &Pack{
		peopleByID:    make(map[string]route.Person, len(people)),
		companiesByID: make(map[string]route.Company, len(companies)),
		sources:       sources,
	}

	p.people = make([]route.Person, 0, len(people))
	for _, rp := range people {
		pe := route.Person{ID: rp.ID, Name: rp.Name, SoundsLike: rp.SoundsLike}
		p.people = append(p.people, pe)
		p.peopleByID[pe.ID] = pe
	}
	sort.Slice(p.people, func(i, j int) bool { return p.people[i].ID < p.people[j].ID })

	p.companies = make([]route.Company, 0, len(companies))
	for _, rc := range companies {
		c := route.Company{ID: rc.ID, Name: rc.Name, FullName: rc.FullName, SoundsLike: rc.SoundsLike}
		p.companies = append(p.companies, c)
		p.companiesByID[c.ID] = c
	}
	sort.Slice(p.companies, func(i, j int) bool { return p.companies[i].ID < p.companies[j].ID })

	cfg := route.Config{
		Default:            compileDestination(r.Default),
		ConflictResolution: route.ConflictPolicy(r.ConflictResolution),
	}
	for _, po := range r.PriorityOrder {
		cfg.PriorityOrder = append(cfg.PriorityOrder, route.ContextType(po))
	}
	for _, rp := range projects {
		pr := route.ProjectRoute{
			ProjectID:   rp.ID,
			Destination: compileDestination(rp.Destination),
			Classification: route.Classification{
				ContextType:     route.ContextType(rp.Classification.ContextType),
				People:          rp.Classification.People,
				Companies:       rp.Classification.Companies,
				Topics:          rp.Classification.Topics,
				ExplicitPhrases: rp.Classification.ExplicitPhrases,
			},
			Active:   rp.Active,
			AutoTags: rp.AutoTags,
		}
		if rp.Priority != nil {
			pr.Priority = *rp.Priority
		}
		cfg.Projects = append(cfg.Projects, pr)
	}
	p.routing = cfg
	return p
}

func compileDestination(d rawDestination) route.Destination {
	s := d.Structure
	if s == "" {
		s = string(route.StructureNone)
	}
	out := route.Destination{
		Path:      d.Path,
		Structure: route.Structure(s),
	}
	for _, fo := range d.FilenameOptions {
		out.FilenameOptions = append(out.FilenameOptions, route.FilenamePart(fo))
	}
	if d.CreateDirectories != nil {
		out.CreateDirectories = *d.CreateDirectories
	}
	return out
}
