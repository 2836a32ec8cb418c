package module

import (
	"time"

	"teampulse/internal/core/week"
	"teampulse/internal/platform/config"
	"teampulse/internal/platform/logger"
)

// Options holds configuration settings for the collector module
type Options struct {
	SpoolDir    string
	Workers     int
	InsertChunk int
	MaxRetries  int
	RetryBase   time.Duration
	Weeks       week.Config
}

// FromConfig reads the collector options with CORE_COLLECT_ prefix.
// The week anchor rides CORE_WEEK_* because the API layer shares it
func FromConfig(cfg config.Conf) Options {
	cf := cfg.Prefix("CORE_COLLECT_")
	wf := cfg.Prefix("CORE_WEEK_")

	weeks, err := week.Parse(wf.MayString("ANCHOR", ""), wf.MayString("TZ", ""))
	if err != nil {
		logger.Get().Panic().Err(err).Msg("invalid week settings")
	}

	return Options{
		SpoolDir:    cf.MayString("SPOOL_DIR", "./spool"),
		Workers:     cf.MayInt("WORKERS", 4),
		InsertChunk: cf.MayInt("INSERT_CHUNK", 500),
		MaxRetries:  cf.MayInt("RETRIES", 4),
		RetryBase:   cf.MayDuration("RETRY_BASE", 250*time.Millisecond),
		Weeks:       weeks,
	}
}
