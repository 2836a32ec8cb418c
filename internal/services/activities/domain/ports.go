package domain

import "context"

// WriterPort ingests activity batches
type WriterPort interface {
	// InsertOrIgnore appends a batch; replays of already-stored activity ids
	// are counted as ignored, never errors. Safe under concurrent callers
	InsertOrIgnore(ctx context.Context, batch []Activity) (InsertOutcome, error)
}

// QueryPort serves windowed reads
type QueryPort interface {
	// Query returns one ascending (occurred_at, activity_id) page
	Query(ctx context.Context, f Filters, after AfterKey, limit int) (Page, error)
}
