// Package repo provides the activities storage implementations
package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"teampulse/internal/modkit/repokit"
	"teampulse/internal/platform/store"
	"teampulse/internal/services/activities/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the activities repository
type Storage interface {
	InsertOrIgnore(ctx context.Context, batch []domain.Activity) (domain.InsertOutcome, error)
	Query(ctx context.Context, f domain.Filters, after domain.AfterKey, limit int) (domain.Page, error)
}

// InsertOrIgnore appends the batch in one statement.
// ON CONFLICT (activity_id) DO NOTHING makes replays and concurrent writers
// converge on identical state; RETURNING identifies what actually landed
func (s *pg) InsertOrIgnore(ctx context.Context, batch []domain.Activity) (domain.InsertOutcome, error) {
	if len(batch) == 0 {
		return domain.InsertOutcome{}, nil
	}

	runID, _ := store.RunID(ctx)

	var sb strings.Builder
	sb.WriteString(`INSERT INTO activities
		(activity_id, member_id, source, activity_type, occurred_at,
		actor_local_id, counterpart_ids, meta, run_id) VALUES `)

	args := make([]any, 0, len(batch)*9)
	for i, a := range batch {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*9 + 1
		fmt.Fprintf(&sb, "($%d,$%d::uuid,$%d,$%d,$%d,$%d,$%d::uuid[],$%d::jsonb,$%d::uuid)",
			base, base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8)

		meta, err := metaJSON(a.Meta)
		if err != nil {
			return domain.InsertOutcome{}, fmt.Errorf("activity %s: meta: %w", a.ActivityID, err)
		}
		args = append(args,
			a.ActivityID, nullIfEmpty(a.MemberID), a.Source, a.ActivityType, a.OccurredAt.UTC(),
			a.ActorLocalID, counterparts(a.Counterparts), meta, nullIfEmpty(runID),
		)
	}
	sb.WriteString(` ON CONFLICT (activity_id) DO NOTHING RETURNING activity_id`)

	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return domain.InsertOutcome{}, err
	}
	defer rows.Close()

	var out domain.InsertOutcome
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return domain.InsertOutcome{}, err
		}
		out.InsertedIDs = append(out.InsertedIDs, id)
	}
	if err := rows.Err(); err != nil {
		return domain.InsertOutcome{}, err
	}
	out.Inserted = len(out.InsertedIDs)
	out.Ignored = len(batch) - out.Inserted
	return out, nil
}

// Query implements Storage with keyset pagination; re-querying any page is safe
func (s *pg) Query(
	ctx context.Context,
	f domain.Filters,
	after domain.AfterKey,
	limit int,
) (domain.Page, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return fmt.Sprintf("$%d", len(args)) }

	sb.WriteString(`
		SELECT
			a.activity_id,
			COALESCE(a.member_id::text, ''),
			a.source,
			a.activity_type,
			a.occurred_at,
			a.actor_local_id,
			COALESCE(a.counterpart_ids::text[], '{}'),
			COALESCE(a.meta, '{}'::jsonb)
		FROM activities a
		WHERE TRUE
	`)

	// keyset only when the cursor is set (avoid ''::timestamptz on first page)
	if after.ActivityID != "" {
		sb.WriteString("  AND (a.occurred_at, a.activity_id) > (" +
			arg(after.OccurredAt) + ", " + arg(after.ActivityID) + ")\n")
	}

	if f.MemberID != "" {
		sb.WriteString("  AND a.member_id = " + arg(f.MemberID) + "::uuid\n")
	}
	if f.Source != "" {
		sb.WriteString("  AND a.source = " + arg(f.Source) + "\n")
	}
	if f.ActivityType != "" {
		sb.WriteString("  AND a.activity_type = " + arg(f.ActivityType) + "\n")
	}
	if !f.Since.IsZero() {
		sb.WriteString("  AND a.occurred_at >= " + arg(f.Since.UTC()) + "\n")
	}
	if !f.Until.IsZero() {
		sb.WriteString("  AND a.occurred_at <= " + arg(f.Until.UTC()) + "\n")
	}

	sb.WriteString("ORDER BY a.occurred_at, a.activity_id\nLIMIT " + arg(limit))

	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return domain.Page{}, err
	}
	defer rows.Close()

	page := domain.Page{Rows: make([]domain.Activity, 0, limit)}
	for rows.Next() {
		var a domain.Activity
		var metaRaw []byte
		if err := rows.Scan(
			&a.ActivityID, &a.MemberID, &a.Source, &a.ActivityType,
			&a.OccurredAt, &a.ActorLocalID, &a.Counterparts, &metaRaw,
		); err != nil {
			return domain.Page{}, err
		}
		if len(metaRaw) > 0 {
			if err := json.Unmarshal(metaRaw, &a.Meta); err != nil {
				return domain.Page{}, fmt.Errorf("activity %s: meta: %w", a.ActivityID, err)
			}
		}
		a.OccurredAt = a.OccurredAt.UTC()
		page.Rows = append(page.Rows, a)
		page.Next = domain.AfterKey{OccurredAt: a.OccurredAt, ActivityID: a.ActivityID}
	}
	return page, rows.Err()
}

func metaJSON(m map[string]any) (any, error) {
	if len(m) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func counterparts(ids []string) any {
	if len(ids) == 0 {
		return nil
	}
	return ids
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
