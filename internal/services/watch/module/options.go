package module

import (
	"time"

	"protokoll/internal/platform/config"
)

// Options holds configuration settings for the watch module
type Options struct {
	Dir     string
	Settle  time.Duration
	Sweep   bool
	Backlog int
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	wf := cfg.Prefix("CORE_WATCH_")
	return Options{
		Dir:     wf.MayString("DIR", "~/notes/voice-inbox"),
		Settle:  wf.MayDuration("SETTLE", 2*time.Second),
		Sweep:   wf.MayBool("SWEEP", true),
		Backlog: wf.MayInt("BACKLOG", 64),
	}
}
