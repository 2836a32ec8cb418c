package store

import "context"

type runKey struct{}

// WithRun attaches a collect run id to the context
// repos read it to stamp lineage on rows written during that run
func WithRun(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runKey{}, runID)
}

// RunID retrieves a collect run id from context if present
func RunID(ctx context.Context) (string, bool) {
	v := ctx.Value(runKey{})
	if v == nil {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}
