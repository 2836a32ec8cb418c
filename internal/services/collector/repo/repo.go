// Package repo provides Postgres bindings for the collector run ledger
package repo

import (
	"context"
	"fmt"

	"teampulse/internal/modkit/repokit"
	"teampulse/internal/services/collector/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the collect run ledger repository
type Storage interface {
	InsertRun(ctx context.Context, r domain.RunSummary) error
	Runs(ctx context.Context, limit int) ([]domain.RunSummary, error)
}

// InsertRun appends one ledger row. The ledger is append-only; a run that
// failed mid-flight still lands here with its partial counts and error note
func (s *pg) InsertRun(ctx context.Context, r domain.RunSummary) error {
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	q := `
		INSERT INTO collect_runs
			(run_id, started_at, finished_at, window_start, window_end,
			 inserted, ignored, rejected, unresolved, sources, note)
		VALUES (` +
		arg(r.RunID) + `::uuid, ` +
		arg(r.StartedAt) + `, ` +
		arg(r.FinishedAt) + `, ` +
		arg(r.Window.Start) + `, ` +
		arg(r.Window.End) + `, ` +
		arg(r.Inserted) + `, ` +
		arg(r.Ignored) + `, ` +
		arg(r.Rejected) + `, ` +
		arg(r.Unresolved) + `, ` +
		arg(r.SourceTags()) + `::text[], ` +
		arg(nullIfEmpty(r.Note)) + `)`

	_, err := s.q.Exec(ctx, q, args...)
	return err
}

// Runs lists recorded runs, newest first
func (s *pg) Runs(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	q := `
		SELECT run_id::text, started_at, finished_at, window_start, window_end,
		       inserted, ignored, rejected, unresolved,
		       COALESCE(sources, '{}'), COALESCE(note, '')
		FROM collect_runs
		ORDER BY started_at DESC, run_id
		LIMIT $1`

	rows, err := s.q.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RunSummary
	for rows.Next() {
		var r domain.RunSummary
		var tags []string
		if err := rows.Scan(
			&r.RunID, &r.StartedAt, &r.FinishedAt, &r.Window.Start, &r.Window.End,
			&r.Inserted, &r.Ignored, &r.Rejected, &r.Unresolved,
			&tags, &r.Note,
		); err != nil {
			return nil, err
		}
		// per-source counts are not persisted; the tags carry the coverage
		for _, t := range tags {
			r.Sources = append(r.Sources, domain.SourceOutcome{Source: t})
		}
		r.Status = "ok"
		if r.Note != "" {
			r.Status = "error"
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
