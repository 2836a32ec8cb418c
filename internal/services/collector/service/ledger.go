package service

import (
	"context"

	"teampulse/internal/modkit/repokit"
	"teampulse/internal/services/collector/domain"
	"teampulse/internal/services/collector/repo"
)

// Ledger is a read-only view over the run ledger.
// The API binary mounts it without the rest of the collector wiring
type Ledger struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
}

// NewLedger constructs the read-only ledger view
func NewLedger(db repokit.TxRunner, binder repokit.Binder[repo.Storage]) *Ledger {
	if db == nil {
		panic("collector.Ledger requires a non nil TxRunner")
	}
	if binder == nil {
		panic("collector.Ledger requires a non nil binder")
	}
	return &Ledger{db: db, binder: binder}
}

// Runs returns the most recent run summaries, newest first
func (l *Ledger) Runs(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	var out []domain.RunSummary
	err := l.db.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = l.binder.Bind(q).Runs(ctx, limit)
		return err
	})
	return out, err
}
