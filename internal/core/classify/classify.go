// Package classify scores candidate project routes against a voice note
// transcript. Evidence comes from five signal kinds checked in a fixed
// order: explicit phrases, associated people, associated companies, topic
// keywords, and the inferred work/personal register
package classify

import (
	"sort"
	"strconv"
	"strings"

	"protokoll/internal/core/normalize"
	"protokoll/internal/core/route"
)

// Classifier produces ranked matches for a note against configured routes.
// It holds only the entity directory and a normalizer; safe for
// concurrent use
type Classifier struct {
	dir  route.Directory
	norm *normalize.Normalizer
}

// New constructs a Classifier over an entity directory
func New(dir route.Directory) *Classifier {
	return &Classifier{dir: dir, norm: normalize.New()}
}

// Classify returns one Match per active route that produced at least one
// signal, sorted by confidence descending. The sort is stable so routes
// with equal confidence keep their configured order
func (c *Classifier) Classify(note route.Note, routes []route.ProjectRoute) []route.Match {
	text := c.norm.Normalize(note.Transcript)

	people := c.mentionedPeople(text, note.DetectedPeople)
	companies := c.mentionedCompanies(text, note.DetectedCompanies)
	inferred := InferContextType(note.Transcript)

	var out []route.Match
	for _, rt := range routes {
		if !rt.IsActive() {
			continue
		}
		sigs := c.routeSignals(text, rt.Classification, people, companies, inferred)
		if len(sigs) == 0 {
			continue
		}
		out = append(out, route.Match{
			ProjectID:  rt.ProjectID,
			Confidence: Confidence(sigs),
			Signals:    sigs,
			Reasoning:  reasoning(sigs),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Confidence > out[j].Confidence
	})
	return out
}

// routeSignals emits signals in the order Confidence expects: phrases,
// people, companies, topics, then the register agreement. That order is
// part of the scoring contract, not a convenience
func (c *Classifier) routeSignals(
	text string,
	cls route.Classification,
	people, companies map[string]struct{},
	inferred route.ContextType,
) []route.Signal {
	var sigs []route.Signal

	for _, phrase := range cls.ExplicitPhrases {
		if p := c.norm.Normalize(phrase); p != "" && strings.Contains(text, p) {
			sigs = append(sigs, route.Signal{
				Type:   route.SignalExplicitPhrase,
				Value:  phrase,
				Weight: weightExplicitPhrase,
			})
		}
	}

	for _, id := range cls.People {
		if _, ok := people[id]; !ok {
			continue
		}
		name := id
		if p, ok := c.dir.Person(id); ok && p.Name != "" {
			name = p.Name
		}
		sigs = append(sigs, route.Signal{
			Type:   route.SignalPerson,
			Value:  name,
			Weight: weightPerson,
		})
	}

	for _, id := range cls.Companies {
		if _, ok := companies[id]; !ok {
			continue
		}
		name := id
		if co, ok := c.dir.Company(id); ok && co.Name != "" {
			name = co.Name
		}
		sigs = append(sigs, route.Signal{
			Type:   route.SignalCompany,
			Value:  name,
			Weight: weightCompany,
		})
	}

	for _, topic := range cls.Topics {
		if tp := c.norm.Normalize(topic); tp != "" && strings.Contains(text, tp) {
			sigs = append(sigs, route.Signal{
				Type:   route.SignalTopic,
				Value:  topic,
				Weight: weightTopic,
			})
		}
	}

	if inferred == cls.ContextType {
		sigs = append(sigs, route.Signal{
			Type:   route.SignalContextType,
			Value:  string(inferred),
			Weight: weightContextType,
		})
	}

	return sigs
}

// mentionedPeople resolves which people the note mentions. A non-nil
// hint slice is authoritative and skips the text scan entirely
func (c *Classifier) mentionedPeople(text string, hints []string) map[string]struct{} {
	if hints != nil {
		return idSet(hints)
	}
	found := make(map[string]struct{})
	for _, p := range c.dir.People() {
		if c.surfaceInText(text, p.Name, "", p.SoundsLike) {
			found[p.ID] = struct{}{}
		}
	}
	return found
}

// mentionedCompanies is the company twin of mentionedPeople; companies
// also expose a long form name as a scan surface
func (c *Classifier) mentionedCompanies(text string, hints []string) map[string]struct{} {
	if hints != nil {
		return idSet(hints)
	}
	found := make(map[string]struct{})
	for _, co := range c.dir.Companies() {
		if c.surfaceInText(text, co.Name, co.FullName, co.SoundsLike) {
			found[co.ID] = struct{}{}
		}
	}
	return found
}

// surfaceInText checks an entity's surfaces against the folded text:
// name first, then the long form, then each phonetic variant. First hit
// wins so variant order matters only for short circuiting
func (c *Classifier) surfaceInText(text, name, longForm string, variants []string) bool {
	if s := c.norm.Normalize(name); s != "" && strings.Contains(text, s) {
		return true
	}
	if s := c.norm.Normalize(longForm); s != "" && strings.Contains(text, s) {
		return true
	}
	for _, v := range variants {
		if s := c.norm.Normalize(v); s != "" && strings.Contains(text, s) {
			return true
		}
	}
	return false
}

// reasoning renders the per signal explanation templates joined with ", "
func reasoning(sigs []route.Signal) string {
	parts := make([]string, 0, len(sigs))
	for _, s := range sigs {
		switch s.Type {
		case route.SignalExplicitPhrase:
			parts = append(parts, "explicit phrase: "+strconv.Quote(s.Value))
		case route.SignalPerson:
			parts = append(parts, "mentioned "+s.Value+" (associated)")
		case route.SignalCompany:
			parts = append(parts, "mentioned "+s.Value+" (associated company)")
		case route.SignalTopic:
			parts = append(parts, "topic: "+s.Value)
		case route.SignalContextType:
			parts = append(parts, "context: "+s.Value)
		}
	}
	return strings.Join(parts, ", ")
}

func idSet(ids []string) map[string]struct{} {
	out := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		out[id] = struct{}{}
	}
	return out
}
