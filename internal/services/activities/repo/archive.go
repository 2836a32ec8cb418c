package repo

import (
	"context"

	"teampulse/internal/platform/store"
	"teampulse/internal/services/activities/domain"
)

// Archive mirrors inserted activity rows into ClickHouse for long-horizon
// reporting. Write-behind and best-effort: it is never read back by this core
// and never the source of truth
type Archive struct {
	ch store.Clickhouse
}

// NewArchive wraps the ClickHouse seam; returns nil when ch is nil so callers
// can treat "no archive configured" and "no archive" the same way
func NewArchive(ch store.Clickhouse) *Archive {
	if ch == nil {
		return nil
	}
	return &Archive{ch: ch}
}

// Enabled reports whether a mirror target exists
func (a *Archive) Enabled() bool { return a != nil && a.ch != nil }

// EnsureSchema creates the archive database and table when missing
func (a *Archive) EnsureSchema(ctx context.Context) error {
	if !a.Enabled() {
		return nil
	}
	if err := a.ch.Exec(ctx, `CREATE DATABASE IF NOT EXISTS teampulse`); err != nil {
		return err
	}
	return a.ch.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS teampulse.activities_archive (
			activity_id     String,
			member_id       String,
			source          LowCardinality(String),
			activity_type   LowCardinality(String),
			occurred_at     DateTime64(6, 'UTC'),
			actor_local_id  String,
			counterpart_ids Array(String),
			run_id          String
		)
		ENGINE = MergeTree
		PARTITION BY toYYYYMM(occurred_at)
		ORDER BY (occurred_at, activity_id)
	`)
}

// Append writes rows through one prepared batch and reports how many went out
func (a *Archive) Append(ctx context.Context, runID string, batch []domain.Activity) (int, error) {
	if !a.Enabled() || len(batch) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(batch))
	for _, x := range batch {
		cps := x.Counterparts
		if cps == nil {
			cps = []string{}
		}
		rows = append(rows, []any{
			x.ActivityID, x.MemberID, x.Source, x.ActivityType,
			x.OccurredAt.UTC(), x.ActorLocalID, cps, runID,
		})
	}

	err := a.ch.Insert(ctx, `
		INSERT INTO teampulse.activities_archive
		(activity_id, member_id, source, activity_type, occurred_at,
		actor_local_id, counterpart_ids, run_id)
	`, rows)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}

// Count returns the total archived row count, for operational surfaces
func (a *Archive) Count(ctx context.Context) (uint64, error) {
	if !a.Enabled() {
		return 0, nil
	}
	return a.ch.ScalarUInt64(ctx, `SELECT toUInt64(count()) FROM teampulse.activities_archive`)
}
