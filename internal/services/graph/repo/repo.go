// Package repo provides the graph read repository
package repo

import (
	"context"
	"fmt"
	"strings"

	"teampulse/internal/core/week"
	"teampulse/internal/modkit/repokit"
	"teampulse/internal/services/graph/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the graph repository
type Storage interface {
	// WindowRows returns one page of resolved rows that either belong to the
	// member or reference it as a counterpart, ordered for keyset draining
	WindowRows(
		ctx context.Context,
		memberID string,
		w week.Window,
		after domain.AfterKey,
		limit int,
	) ([]domain.Row, error)
}

// WindowRows implements Storage.
// The counterpart containment predicate rides the uuid[] column so the pull
// stays a single indexable scan instead of a jsonb walk
func (s *pg) WindowRows(
	ctx context.Context,
	memberID string,
	w week.Window,
	after domain.AfterKey,
	limit int,
) ([]domain.Row, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	mid := arg(memberID)
	sb.WriteString(`
		SELECT
			a.activity_id,
			a.member_id::text,
			a.source,
			a.activity_type,
			a.occurred_at,
			COALESCE(a.counterpart_ids::text[], '{}')
		FROM activities a
		WHERE a.member_id IS NOT NULL
			AND a.occurred_at >= ` + arg(w.Start.UTC()) + `
			AND a.occurred_at <= ` + arg(w.End.UTC()) + `
			AND (a.member_id = ` + mid + `::uuid
				OR a.counterpart_ids @> ARRAY[` + mid + `::uuid])
	`)

	if after.ActivityID != "" {
		sb.WriteString("  AND (a.occurred_at, a.activity_id) > (" +
			arg(after.OccurredAt) + ", " + arg(after.ActivityID) + ")\n")
	}

	sb.WriteString("ORDER BY a.occurred_at, a.activity_id\nLIMIT " + arg(limit))

	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Row, 0, limit)
	for rows.Next() {
		var r domain.Row
		if err := rows.Scan(
			&r.ActivityID, &r.MemberID, &r.Source, &r.ActivityType,
			&r.OccurredAt, &r.Counterparts,
		); err != nil {
			return nil, err
		}
		r.OccurredAt = r.OccurredAt.UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}
