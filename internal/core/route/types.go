// Package route defines the routing contracts for classified voice notes
// and selects a destination for each transcript.
// Types here are the shared currency between the classifier, the context
// registry, and the services that persist routed notes
package route

import "time"

// SignalType identifies one kind of textual evidence
type SignalType string

const (
	// SignalExplicitPhrase is a configured trigger phrase found verbatim
	SignalExplicitPhrase SignalType = "explicit_phrase"
	// SignalPerson is a mention of a person associated with the route
	SignalPerson SignalType = "associated_person"
	// SignalCompany is a mention of a company associated with the route
	SignalCompany SignalType = "associated_company"
	// SignalTopic is a configured topic keyword found in the transcript
	SignalTopic SignalType = "topic"
	// SignalContextType is an inferred work/personal register agreement
	SignalContextType SignalType = "context_type"
)

// ContextType is the coarse register of a note or route
type ContextType string

const (
	// ContextWork marks office/business register
	ContextWork ContextType = "work"
	// ContextPersonal marks private register
	ContextPersonal ContextType = "personal"
	// ContextMixed marks anything without a clear lean either way
	ContextMixed ContextType = "mixed"
)

// Structure is the directory nesting policy under a destination path
type Structure string

const (
	// StructureNone writes directly into the destination
	StructureNone Structure = "none"
	// StructureYear nests one level: /2026
	StructureYear Structure = "year"
	// StructureMonth nests two levels: /2026/3 (month unpadded)
	StructureMonth Structure = "month"
	// StructureDay nests three levels: /2026/3/7 (day unpadded)
	StructureDay Structure = "day"
)

// FilenamePart names one composable filename component
type FilenamePart string

const (
	// PartDate is the date component; its format depends on Structure
	PartDate FilenamePart = "date"
	// PartTime is the zero padded 24h HHmm component
	PartTime FilenamePart = "time"
	// PartSubject is a slug of the transcript's first sentence
	PartSubject FilenamePart = "subject"
)

// ConflictPolicy controls how multiple high confidence matches surface
type ConflictPolicy string

const (
	// ConflictAsk surfaces runners-up as alternates for a human or tool
	ConflictAsk ConflictPolicy = "ask"
	// ConflictPrimary always takes the best match silently
	ConflictPrimary ConflictPolicy = "primary"
	// ConflictAll surfaces alternates like ask; callers may fan out
	ConflictAll ConflictPolicy = "all"
)

// Signal is one piece of evidence tying a note to a route.
// Produced fresh per classification call, never persisted by the core
type Signal struct {
	Type   SignalType
	Value  string
	Weight float64
}

// Match is one candidate route that produced at least one signal.
// Signals keep their emission order; Confidence is always in [0, 0.99]
type Match struct {
	ProjectID  string
	Confidence float64
	Signals    []Signal
	Reasoning  string
}

// Classification holds a route's matching rules.
// Nil slices mean no rules of that kind
type Classification struct {
	ContextType     ContextType
	People          []string
	Companies       []string
	Topics          []string
	ExplicitPhrases []string
}

// Destination describes where and how a routed note lands on disk
type Destination struct {
	// Path may lead with "~" for home directory expansion
	Path              string
	Structure         Structure
	FilenameOptions   []FilenamePart
	CreateDirectories bool
}

// ProjectRoute is one configured candidate destination with matching rules
type ProjectRoute struct {
	ProjectID      string
	Destination    Destination
	Classification Classification
	Priority       int
	// Active defaults to true when nil
	Active   *bool
	AutoTags []string
}

// IsActive reports whether the route participates in classification
func (p ProjectRoute) IsActive() bool { return p.Active == nil || *p.Active }

// Config is the per session routing configuration, immutable during a run.
// PriorityOrder is carried for callers that order project listings by
// register; the router itself does not branch on it
type Config struct {
	Default            Destination
	Projects           []ProjectRoute
	ConflictResolution ConflictPolicy
	PriorityOrder      []ContextType
}

// Decision is the routing outcome for one note.
// An empty ProjectID marks the default route fallback
type Decision struct {
	ProjectID        string
	Destination      Destination
	Confidence       float64
	Signals          []Signal
	Reasoning        string
	AutoTags         []string
	AlternateMatches []Match
}

// Routed reports whether a project won, as opposed to the default fallback
func (d Decision) Routed() bool { return d.ProjectID != "" }

// Note is the classification input for a single transcript
type Note struct {
	Transcript string
	AudioDate  time.Time
	SourceFile string
	// Hash is an optional stable fingerprint of the transcript
	Hash string
	// DetectedPeople and DetectedCompanies are precomputed mention hints.
	// When non-nil they bypass the classifier's own text scan
	DetectedPeople    []string
	DetectedCompanies []string
}

// Person is an entity the classifier can look up or scan for
type Person struct {
	ID         string
	Name       string
	SoundsLike []string
}

// Company is like Person but with an optional long form name
type Company struct {
	ID         string
	Name       string
	FullName   string
	SoundsLike []string
}

// Directory is the read only entity lookup the classifier consumes.
// Implementations must be safe for concurrent reads
type Directory interface {
	Person(id string) (Person, bool)
	People() []Person
	Company(id string) (Company, bool)
	Companies() []Company
}
