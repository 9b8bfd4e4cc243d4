package inbox

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// sidecar is the optional <name>.json companion a transcription step may
// drop next to the transcript. All fields are optional
type sidecar struct {
	RecordedAt string   `json:"recorded_at"`
	Source     string   `json:"source"`
	People     []string `json:"people"`
	Companies  []string `json:"companies"`
}

// sidecar timestamps come from different exporters; RFC3339 first, then
// the plain forms seen in the wild
var sidecarTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func sidecarPath(transcriptPath string) string {
	return strings.TrimSuffix(transcriptPath, filepath.Ext(transcriptPath)) + ".json"
}

// readSidecar loads the sidecar when present. A missing file is not an
// error; a malformed one is, so bad metadata never routes silently
func readSidecar(transcriptPath string) (sidecar, bool, error) {
	path := sidecarPath(transcriptPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return sidecar{}, false, nil
		}
		return sidecar{}, false, fmt.Errorf("inbox: read sidecar %s: %w", path, err)
	}
	var sc sidecar
	if err := json.Unmarshal(data, &sc); err != nil {
		return sidecar{}, false, fmt.Errorf("inbox: parse sidecar %s: %w", path, err)
	}
	return sc, true, nil
}

// recordedAt parses the sidecar timestamp, trying each known layout
func (s sidecar) recordedAt() (time.Time, bool) {
	raw := strings.TrimSpace(s.RecordedAt)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range sidecarTimeLayouts {
		if at, err := time.ParseInLocation(layout, raw, time.Local); err == nil {
			return at, true
		}
	}
	return time.Time{}, false
}
