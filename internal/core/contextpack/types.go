package contextpack

// Raw layer shapes as they appear on disk. Pointer fields distinguish
// "absent in this layer" from explicit zero values during merging

type rawPerson struct {
	ID         string   `koanf:"id" validate:"required"`
	Name       string   `koanf:"name"`
	SoundsLike []string `koanf:"sounds_like"`
}

type rawCompany struct {
	ID         string   `koanf:"id" validate:"required"`
	Name       string   `koanf:"name"`
	FullName   string   `koanf:"full_name"`
	SoundsLike []string `koanf:"sounds_like"`
}

type rawDestination struct {
	Path              string   `koanf:"path" validate:"required"`
	Structure         string   `koanf:"structure" validate:"omitempty,oneof=none year month day"`
	FilenameOptions   []string `koanf:"filename_options" validate:"omitempty,dive,oneof=date time subject"`
	CreateDirectories *bool    `koanf:"create_directories"`
}

type rawClassification struct {
	ContextType     string   `koanf:"context_type" validate:"omitempty,oneof=work personal mixed"`
	People          []string `koanf:"people"`
	Companies       []string `koanf:"companies"`
	Topics          []string `koanf:"topics"`
	ExplicitPhrases []string `koanf:"explicit_phrases"`
}

type rawProject struct {
	ID             string            `koanf:"id" validate:"required"`
	Destination    rawDestination    `koanf:"destination"`
	Classification rawClassification `koanf:"classification"`
	Priority       *int              `koanf:"priority"`
	Active         *bool             `koanf:"active"`
	AutoTags       []string          `koanf:"auto_tags"`
}

type rawRouting struct {
	Default            rawDestination `koanf:"default"`
	ConflictResolution string         `koanf:"conflict_resolution" validate:"omitempty,oneof=ask primary all"`
	PriorityOrder      []string       `koanf:"priority_order" validate:"omitempty,dive,oneof=work personal mixed"`
}

// Top level file envelopes, one per context file

type peopleFile struct {
	People []rawPerson `koanf:"people"`
}

type companiesFile struct {
	Companies []rawCompany `koanf:"companies"`
}

type projectsFile struct {
	Projects []rawProject `koanf:"projects"`
}

type routingFile struct {
	Routing rawRouting `koanf:"routing"`
}
