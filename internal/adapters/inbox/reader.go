// Package inbox reads transcribed voice notes off the filesystem and
// stages them for routing. A note is a .txt or .md transcript, optionally
// paired with a JSON sidecar carrying capture metadata from the
// transcription step
package inbox

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"protokoll/internal/core/route"
)

// Note is a transcript staged for routing plus its capture metadata
type Note struct {
	route.Note

	// Source names the capturing app when the sidecar provides it
	Source string
}

// Read loads one transcript file into a routable note.
// Capture time resolution order: sidecar recorded_at, then a timestamp
// embedded in the filename, then file mtime
func Read(path string) (Note, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Note{}, fmt.Errorf("inbox: read %s: %w", path, err)
	}

	transcript := strings.TrimSpace(scrub(string(data)))
	if transcript == "" {
		return Note{}, fmt.Errorf("inbox: %s: empty transcript", path)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return Note{}, fmt.Errorf("inbox: stat %s: %w", path, err)
	}

	n := Note{Note: route.Note{
		Transcript: transcript,
		SourceFile: path,
		Hash:       Fingerprint(transcript),
		AudioDate:  captureTime(filepath.Base(path), fi.ModTime()),
	}}

	sc, ok, err := readSidecar(path)
	if err != nil {
		return Note{}, err
	}
	if ok {
		if at, found := sc.recordedAt(); found {
			n.AudioDate = at
		}
		n.Source = sc.Source
		// nil slices keep the classifier's own scan enabled; a present
		// empty list is an authoritative "nobody mentioned"
		n.DetectedPeople = sc.People
		n.DetectedCompanies = sc.Companies
	}

	return n, nil
}

// List returns the routable transcript files directly under dir, sorted
// by name. Dotfiles, sidecars, and non-text entries are skipped
func List(dir string) ([]string, error) {
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("inbox: list %s: %w", dir, err)
	}
	var out []string
	for _, e := range ents {
		if e.IsDir() || !Routable(e.Name()) {
			continue
		}
		out = append(out, filepath.Join(dir, e.Name()))
	}
	return out, nil
}

// Routable reports whether path names a transcript the inbox stages:
// a .txt or .md file that is not a dotfile
func Routable(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".txt", ".md":
		return true
	}
	return false
}

// FromTranscript stages a note that arrived as raw text rather than a
// file, cleaned the same way Read cleans disk transcripts. sourceFile and
// recordedAt may be zero when the caller does not know them
func FromTranscript(transcript, sourceFile string, recordedAt time.Time) (Note, error) {
	transcript = strings.TrimSpace(scrub(transcript))
	if transcript == "" {
		return Note{}, fmt.Errorf("inbox: empty transcript")
	}
	return Note{Note: route.Note{
		Transcript: transcript,
		SourceFile: sourceFile,
		Hash:       Fingerprint(transcript),
		AudioDate:  recordedAt,
	}}, nil
}

// Fingerprint hashes the cleaned transcript so reroutes of the same
// recording can be detected across sessions
func Fingerprint(transcript string) string {
	sum := sha256.Sum256([]byte(transcript))
	return hex.EncodeToString(sum[:])
}

// scrub drops bytes transcription engines occasionally leak into text
// output: NUL, ASCII controls other than tab and line breaks, DEL, and
// the C1 range. Invalid UTF-8 is dropped as well
func scrub(s string) string {
	s = strings.ToValidUTF8(s, "")
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			return r
		case r < 0x20 || r == 0x7F:
			return -1
		case r >= 0x80 && r <= 0x9F:
			return -1
		}
		return r
	}, s)
}
