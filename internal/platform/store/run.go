package store

import "context"

// RunInCollect wraps ctx with a collect run id and calls fn inside the provided TxRunner
func RunInCollect(ctx context.Context, tx TxRunner, runID string, fn func(ctx context.Context, q RowQuerier) error) error {
	ctx = WithRun(ctx, runID)
	return tx.Tx(ctx, func(q RowQuerier) error {
		return fn(ctx, q)
	})
}
