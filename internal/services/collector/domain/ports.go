package domain

import (
	"context"

	actdom "teampulse/internal/services/activities/domain"
	memdom "teampulse/internal/services/members/domain"
)

// RunnerPort executes one collection pass over a spool directory
type RunnerPort interface {
	Run(ctx context.Context, dir string) (RunSummary, error)
}

// LedgerPort reads recorded runs, newest first
type LedgerPort interface {
	Runs(ctx context.Context, limit int) ([]RunSummary, error)
}

// Ports are dependencies injected into the collector module
type Ports struct {
	Resolver memdom.ResolverPort // required
	Learner  memdom.LearnPort    // required
	Writer   actdom.WriterPort   // required
}
