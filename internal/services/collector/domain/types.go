// Package domain defines collector service types and ports
package domain

import (
	"time"

	"teampulse/internal/core/week"
)

// SourceOutcome counts one source batch's results
type SourceOutcome struct {
	Source     string
	Records    int
	Drafts     int
	Inserted   int
	Ignored    int
	Rejected   int
	Unresolved int
}

// RunSummary is the aggregate outcome of one collection run.
// One ledger row per run, append-only
type RunSummary struct {
	RunID      string
	Status     string // "ok" or "error"
	StartedAt  time.Time
	FinishedAt time.Time
	Window     week.Window
	Sources    []SourceOutcome
	Inserted   int
	Ignored    int
	Rejected   int
	Unresolved int
	Learned    int
	Note       string
}

// SourceTags returns the batch source tags in processing order
func (r RunSummary) SourceTags() []string {
	if len(r.Sources) == 0 {
		return nil
	}
	out := make([]string, 0, len(r.Sources))
	for _, s := range r.Sources {
		out = append(out, s.Source)
	}
	return out
}

// Totals folds the per-source outcomes into the run counters
func (r *RunSummary) Totals() {
	r.Inserted, r.Ignored, r.Rejected, r.Unresolved = 0, 0, 0, 0
	for _, s := range r.Sources {
		r.Inserted += s.Inserted
		r.Ignored += s.Ignored
		r.Rejected += s.Rejected
		r.Unresolved += s.Unresolved
	}
}
