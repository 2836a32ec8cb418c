package module

import "teampulse/internal/platform/config"

// Options holds configuration settings for the members module
type Options struct {
	RegistryPath string
}

// FromConfig reads configuration settings from the config.Conf
func FromConfig(cfg config.Conf) Options {
	mf := cfg.Prefix("CORE_MEMBERS_")
	return Options{
		RegistryPath: mf.MayString("REGISTRY", "members.yaml"),
	}
}
