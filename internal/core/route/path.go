package route

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// BuildOutputPath derives the concrete file path for a routed note.
// It never fails: pathological inputs degrade to a best effort slug of the
// source filename rather than an error
func (r *Router) BuildOutputPath(d Decision, note Note) string {
	dir := ExpandHome(d.Destination.Path)
	elems := append([]string{dir}, structureDirs(d.Destination.Structure, note.AudioDate)...)
	elems = append(elems, fileName(d.Destination, note))
	return filepath.Join(elems...)
}

// ExpandHome replaces a leading "~" with the user's home directory.
// Unknown home leaves the path untouched
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return p
	}
	if p == "~" {
		return home
	}
	return filepath.Join(home, p[2:])
}

// structureDirs expands the nesting policy into path elements.
// Month and day are deliberately unpadded: 2026/3/7, not 2026/03/07
func structureDirs(s Structure, at time.Time) []string {
	switch s {
	case StructureYear:
		return []string{strconv.Itoa(at.Year())}
	case StructureMonth:
		return []string{strconv.Itoa(at.Year()), strconv.Itoa(int(at.Month()))}
	case StructureDay:
		return []string{
			strconv.Itoa(at.Year()),
			strconv.Itoa(int(at.Month())),
			strconv.Itoa(at.Day()),
		}
	default:
		return nil
	}
}

// fileName composes the markdown filename from the destination's options.
// Parts are emitted in option order, joined with dashes, and a final
// collapse pass guards against dash artifacts from empty parts
func fileName(dest Destination, note Note) string {
	parts := make([]string, 0, len(dest.FilenameOptions))
	for _, opt := range dest.FilenameOptions {
		var p string
		switch opt {
		case PartDate:
			p = datePart(dest.Structure, note.AudioDate)
		case PartTime:
			p = note.AudioDate.Format("1504")
		case PartSubject:
			p = subjectSlug(note.Transcript, note.SourceFile)
		}
		if p != "" {
			parts = append(parts, p)
		}
	}

	name := strings.Trim(collapseDashes(strings.Join(parts, "-")), "-")
	if name == "" {
		name = strings.Trim(collapseDashes(fileSlug(note.SourceFile)), "-")
	}
	return name + ".md"
}

// datePart renders the date component so it never repeats what the
// directory structure already encodes
func datePart(s Structure, at time.Time) string {
	switch s {
	case StructureDay:
		// year, month and day all live in the path already
		return ""
	case StructureMonth:
		return at.Format("02")
	case StructureYear:
		return at.Format("01-02")
	default:
		return at.Format("060102")
	}
}

// collapseDashes squashes runs of two or more dashes into one
func collapseDashes(s string) string {
	if !strings.Contains(s, "--") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	prevDash := false
	for _, r := range s {
		if r == '-' {
			if prevDash {
				continue
			}
			prevDash = true
		} else {
			prevDash = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
