package module

import (
	"teampulse/internal/core/scoring"
	"teampulse/internal/platform/config"
	"teampulse/internal/platform/logger"
)

// Options holds configuration settings for the graph module
type Options struct {
	Weights  scoring.Weights
	Decay    scoring.Decay
	PageSize int
}

// FromConfig reads configuration settings from the config.Conf.
// A malformed weight override is a deploy mistake and panics at startup
// rather than silently scoring with defaults
func FromConfig(cfg config.Conf) Options {
	gf := cfg.Prefix("CORE_GRAPH_")

	weights := scoring.DefaultWeights()
	if raw := gf.MayString("WEIGHTS", ""); raw != "" {
		overrides, err := scoring.ParseOverrides(raw)
		if err != nil {
			logger.Get().Panic().Err(err).Str("key", "CORE_GRAPH_WEIGHTS").Msg("invalid weight overrides")
		}
		weights = weights.Merge(overrides)
	}

	decay := scoring.Decay{
		Days:  gf.MayInt("DECAY_DAYS", scoring.DefaultDecay().Days),
		Floor: gf.MayFloat64("DECAY_FLOOR", scoring.DefaultDecay().Floor),
	}
	if !decay.Valid() {
		logger.Get().Panic().
			Int("days", decay.Days).
			Float64("floor", decay.Floor).
			Msg("invalid decay settings")
	}

	return Options{
		Weights:  weights,
		Decay:    decay,
		PageSize: gf.MayInt("PAGE_SIZE", 5000),
	}
}
