package contextpack

// Layer merging is field by field, never reflective. A later layer wins
// only for fields it actually sets; list fields replace the whole list
// rather than appending, so a nearer context can retire entries instead
// of accumulating them

func mergePeople(base, over []rawPerson) []rawPerson {
	idx := make(map[string]int, len(base))
	out := make([]rawPerson, len(base))
	copy(out, base)
	for i, p := range out {
		idx[p.ID] = i
	}
	for _, p := range over {
		if i, ok := idx[p.ID]; ok {
			out[i] = mergePerson(out[i], p)
			continue
		}
		idx[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}

func mergePerson(base, over rawPerson) rawPerson {
	out := base
	if over.Name != "" {
		out.Name = over.Name
	}
	if over.SoundsLike != nil {
		out.SoundsLike = over.SoundsLike
	}
	return out
}

func mergeCompanies(base, over []rawCompany) []rawCompany {
	idx := make(map[string]int, len(base))
	out := make([]rawCompany, len(base))
	copy(out, base)
	for i, c := range out {
		idx[c.ID] = i
	}
	for _, c := range over {
		if i, ok := idx[c.ID]; ok {
			out[i] = mergeCompany(out[i], c)
			continue
		}
		idx[c.ID] = len(out)
		out = append(out, c)
	}
	return out
}

func mergeCompany(base, over rawCompany) rawCompany {
	out := base
	if over.Name != "" {
		out.Name = over.Name
	}
	if over.FullName != "" {
		out.FullName = over.FullName
	}
	if over.SoundsLike != nil {
		out.SoundsLike = over.SoundsLike
	}
	return out
}

// mergeProjects keeps base ordering for overridden projects and appends
// new ones in file order. Project order is load-bearing downstream: ties
// between equal scores resolve to the earlier project
func mergeProjects(base, over []rawProject) []rawProject {
	idx := make(map[string]int, len(base))
	out := make([]rawProject, len(base))
	copy(out, base)
	for i, p := range out {
		idx[p.ID] = i
	}
	for _, p := range over {
		if i, ok := idx[p.ID]; ok {
			out[i] = mergeProject(out[i], p)
			continue
		}
		idx[p.ID] = len(out)
		out = append(out, p)
	}
	return out
}

func mergeProject(base, over rawProject) rawProject {
	out := base
	out.Destination = mergeDestination(base.Destination, over.Destination)
	out.Classification = mergeClassification(base.Classification, over.Classification)
	if over.Priority != nil {
		out.Priority = over.Priority
	}
	if over.Active != nil {
		out.Active = over.Active
	}
	if over.AutoTags != nil {
		out.AutoTags = over.AutoTags
	}
	return out
}

func mergeDestination(base, over rawDestination) rawDestination {
	out := base
	if over.Path != "" {
		out.Path = over.Path
	}
	if over.Structure != "" {
		out.Structure = over.Structure
	}
	if over.FilenameOptions != nil {
		out.FilenameOptions = over.FilenameOptions
	}
	if over.CreateDirectories != nil {
		out.CreateDirectories = over.CreateDirectories
	}
	return out
}

func mergeClassification(base, over rawClassification) rawClassification {
	out := base
	if over.ContextType != "" {
		out.ContextType = over.ContextType
	}
	if over.People != nil {
		out.People = over.People
	}
	if over.Companies != nil {
		out.Companies = over.Companies
	}
	if over.Topics != nil {
		out.Topics = over.Topics
	}
	if over.ExplicitPhrases != nil {
		out.ExplicitPhrases = over.ExplicitPhrases
	}
	return out
}
