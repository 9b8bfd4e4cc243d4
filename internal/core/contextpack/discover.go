package contextpack

import (
	"os"
	"path/filepath"
)

// ContextDirName is the per-tree context directory picked up by Discover
const ContextDirName = ".protokoll"

// EnvContextDir overrides the global context directory location
const EnvContextDir = "PROTOKOLL_CONTEXT_DIR"

// Discover returns the context directories that apply to start, most
// general first: the global directory, then every .protokoll directory
// from the filesystem root down to start. Load applies later entries
// over earlier ones, so the directory nearest the note wins
func Discover(start string) []string {
	var out []string
	if g := globalDir(); g != "" {
		out = append(out, g)
	}

	abs, err := filepath.Abs(start)
	if err != nil {
		return out
	}
	var tree []string
	for dir := abs; ; {
		cand := filepath.Join(dir, ContextDirName)
		if fi, err := os.Stat(cand); err == nil && fi.IsDir() {
			tree = append(tree, cand)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	// collected nearest first; flip to most general first
	for i := len(tree) - 1; i >= 0; i-- {
		out = append(out, tree[i])
	}
	return out
}

func globalDir() string {
	if dir := os.Getenv(EnvContextDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "protokoll")
}
