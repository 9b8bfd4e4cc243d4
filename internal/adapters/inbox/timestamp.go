package inbox

import (
	"regexp"
	"strings"
	"time"
)

// Recorder apps bake the capture moment into the filename in a handful
// of shapes. Patterns are ordered most specific first so a full
// datetime never loses to its own date prefix
var stampPatterns = []struct {
	re     *regexp.Regexp
	layout string
}{
	// Voice Memos export: "2026-03-07 14.30.00" (T separator tolerated)
	{regexp.MustCompile(`\d{4}-\d{2}-\d{2}[ T]\d{2}\.\d{2}\.\d{2}`), "2006-01-02 15.04.05"},
	// field recorder dumps: "20260307_143000" / "20260307_1430"
	{regexp.MustCompile(`\d{8}_\d{6}`), "20060102_150405"},
	{regexp.MustCompile(`\d{8}_\d{4}`), "20060102_1504"},
	// compact memo names: "memo-260307-1430"
	{regexp.MustCompile(`\d{6}-\d{4}`), "060102-1504"},
	// date only: "2026-03-07 standup"
	{regexp.MustCompile(`\d{4}-\d{2}-\d{2}`), "2006-01-02"},
}

// captureTime extracts the capture moment from a filename, falling back
// to the file's mtime when no pattern matches or the match is not a
// real calendar time
func captureTime(name string, mtime time.Time) time.Time {
	if at, ok := parseStamp(name); ok {
		return at
	}
	return mtime
}

// parseStamp tries each known filename pattern in order.
// Stamps are wall clock times from the recording device, so they parse
// in the local zone
func parseStamp(name string) (time.Time, bool) {
	for _, p := range stampPatterns {
		m := p.re.FindString(name)
		if m == "" {
			continue
		}
		m = strings.Replace(m, "T", " ", 1)
		at, err := time.ParseInLocation(p.layout, m, time.Local)
		if err != nil {
			continue
		}
		return at, true
	}
	return time.Time{}, false
}
