package module

import "protokoll/internal/platform/config"

// Options holds configuration settings for the history module
type Options struct {
	HardLimit int
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	hf := cfg.Prefix("CORE_HISTORY_")
	return Options{
		HardLimit: hf.MayInt("HARD_LIMIT", 50),
	}
}
