package module

import "protokoll/internal/platform/config"

// Options holds configuration settings for the routing module
type Options struct {
	Workers int
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	rf := cfg.Prefix("CORE_ROUTING_")
	return Options{
		Workers: rf.MayInt("WORKERS", 4),
	}
}
