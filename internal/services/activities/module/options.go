package module

import "teampulse/internal/platform/config"

// Options holds configuration settings for the activities module
type Options struct {
	HardLimit int
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	af := cfg.Prefix("CORE_ACTIVITIES_")
	return Options{
		HardLimit: af.MayInt("HARD_LIMIT", 500),
	}
}
