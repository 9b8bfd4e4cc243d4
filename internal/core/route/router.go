package route

// DefaultReasoning is the fixed explanation on the default route fallback
const DefaultReasoning = "No project matches found, using default routing"

// highConfidenceFloor is the disambiguation threshold.
// Matches at or below it are weak signals, not worth surfacing as conflicts
const highConfidenceFloor = 0.5

// Classifier ranks candidate routes for a note, best first
type Classifier interface {
	Classify(note Note, routes []ProjectRoute) []Match
}

// Router turns ranked matches into a concrete routing decision
type Router struct {
	cfg Config
	cls Classifier
}

// New constructs a Router over a routing config and a classifier
func New(cfg Config, cls Classifier) *Router {
	return &Router{cfg: cfg, cls: cls}
}

// Config returns the routing configuration the Router was built with
func (r *Router) Config() Config { return r.cfg }

// Route classifies the note and selects a destination.
// With no qualifying matches it returns the default route decision with
// confidence 1.0, the only place that value ever appears
func (r *Router) Route(note Note) Decision {
	results := r.cls.Classify(note, r.cfg.Projects)
	if len(results) == 0 {
		return r.defaultDecision()
	}

	best := results[0]
	pr, ok := r.project(best.ProjectID)
	if !ok {
		// a match naming an unknown project is a config bug upstream;
		// degrade to the default rather than invent a destination
		return r.defaultDecision()
	}

	d := Decision{
		ProjectID:   best.ProjectID,
		Destination: pr.Destination,
		Confidence:  best.Confidence,
		Signals:     best.Signals,
		Reasoning:   best.Reasoning,
		AutoTags:    pr.AutoTags,
	}

	if r.cfg.ConflictResolution != ConflictPrimary {
		if high := highConfidence(results); len(high) > 1 {
			d.AlternateMatches = high[1:]
		}
	}
	return d
}

func (r *Router) defaultDecision() Decision {
	return Decision{
		Destination: r.cfg.Default,
		Confidence:  1.0,
		Reasoning:   DefaultReasoning,
	}
}

func (r *Router) project(id string) (ProjectRoute, bool) {
	for _, p := range r.cfg.Projects {
		if p.ProjectID == id {
			return p, true
		}
	}
	return ProjectRoute{}, false
}

func highConfidence(ms []Match) []Match {
	out := make([]Match, 0, len(ms))
	for _, m := range ms {
		if m.Confidence > highConfidenceFloor {
			out = append(out, m)
		}
	}
	return out
}
