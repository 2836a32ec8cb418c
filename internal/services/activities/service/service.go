// Package service provides the activities service implementation
package service

import (
	"context"

	"teampulse/internal/modkit/repokit"
	"teampulse/internal/platform/logger"
	"teampulse/internal/platform/metrics"
	"teampulse/internal/platform/store"
	"teampulse/internal/services/activities/domain"
	"teampulse/internal/services/activities/repo"
)

// Config for the activities service
type Config struct {
	// HardLimit caps a single Query page; defaults to 500 if <= 0
	HardLimit int
}

// Service implements domain.WriterPort and domain.QueryPort
type Service struct {
	db      repokit.TxRunner
	binder  repokit.Binder[repo.Storage]
	archive *repo.Archive
	cfg     Config
}

// New constructs the activities service; archive may be nil when no mirror is configured
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], archive *repo.Archive, cfg Config) *Service {
	if db == nil {
		panic("activities.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("activities.Service requires a non-nil Repo binder")
	}
	if cfg.HardLimit <= 0 {
		cfg.HardLimit = 500
	}
	return &Service{db: db, binder: binder, archive: archive, cfg: cfg}
}

// InsertOrIgnore implements domain.WriterPort.
//
// The insert is transactional; the archive mirror runs after commit and is
// best-effort: a mirror failure is logged and counted, never surfaced
func (s *Service) InsertOrIgnore(ctx context.Context, batch []domain.Activity) (domain.InsertOutcome, error) {
	if len(batch) == 0 {
		return domain.InsertOutcome{}, nil
	}

	var out domain.InsertOutcome
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.binder.Bind(q).InsertOrIgnore(ctx, batch)
		return err
	})
	if err != nil {
		return domain.InsertOutcome{}, err
	}

	inserted := indexByID(out.InsertedIDs)
	recordOutcome(batch, inserted)

	if s.archive.Enabled() && len(inserted) > 0 {
		rows := make([]domain.Activity, 0, len(inserted))
		for _, a := range batch {
			if _, ok := inserted[a.ActivityID]; ok {
				rows = append(rows, a)
			}
		}
		runID, _ := store.RunID(ctx)
		if n, err := s.archive.Append(ctx, runID, rows); err != nil {
			metrics.RecordArchiveError()
			logger.C(ctx).Warn().Err(err).Int("rows", len(rows)).Msg("activities: archive append failed")
		} else {
			metrics.RecordArchived(n)
		}
	}

	return out, nil
}

// Query implements domain.QueryPort
func (s *Service) Query(
	ctx context.Context,
	f domain.Filters,
	after domain.AfterKey,
	limit int,
) (domain.Page, error) {
	if limit <= 0 || limit > s.cfg.HardLimit {
		limit = s.cfg.HardLimit
	}

	var page domain.Page
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		page, err = s.binder.Bind(q).Query(ctx, f, after, limit)
		return err
	})
	if err != nil {
		return domain.Page{}, err
	}
	return page, nil
}

// Archive exposes the mirror for bootstrap and operational reads
func (s *Service) Archive() *repo.Archive { return s.archive }

func indexByID(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func recordOutcome(batch []domain.Activity, inserted map[string]struct{}) {
	ins := make(map[string]int)
	ign := make(map[string]int)
	for _, a := range batch {
		if _, ok := inserted[a.ActivityID]; ok {
			ins[a.Source]++
		} else {
			ign[a.Source]++
		}
	}
	for src, n := range ins {
		metrics.RecordInserted(src, n)
	}
	for src, n := range ign {
		metrics.RecordIgnored(src, n)
	}
}
