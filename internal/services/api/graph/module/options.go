package module

import (
	"teampulse/internal/core/week"
	"teampulse/internal/platform/config"
	"teampulse/internal/platform/logger"
	asvc "teampulse/internal/services/api/graph/service"
)

// Options holds configuration settings for the graph API module
type Options struct {
	Weeks    week.Config
	Defaults asvc.Defaults
}

// FromConfig reads configuration settings from the config.Conf.
// The week anchor rides CORE_WEEK_* so the collector and API resolve
// identical windows
func FromConfig(cfg config.Conf) Options {
	gf := cfg.Prefix("CORE_GRAPH_")
	wf := cfg.Prefix("CORE_WEEK_")

	weeks, err := week.Parse(wf.MayString("ANCHOR", ""), wf.MayString("TZ", ""))
	if err != nil {
		logger.Get().Panic().Err(err).Msg("invalid week settings")
	}

	return Options{
		Weeks: weeks,
		Defaults: asvc.Defaults{
			Days:     gf.MayInt("DEFAULT_DAYS", 30),
			Limit:    gf.MayInt("DEFAULT_LIMIT", 10),
			MinScore: gf.MayFloat64("DEFAULT_MIN_SCORE", 0),
		},
	}
}
