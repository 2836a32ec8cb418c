// Package service provides the collector run orchestration
package service

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"teampulse/internal/adapters/sources"
	"teampulse/internal/adapters/sources/spool"
	"teampulse/internal/core/week"
	"teampulse/internal/modkit/repokit"
	perr "teampulse/internal/platform/errors"
	"teampulse/internal/platform/logger"
	"teampulse/internal/platform/metrics"
	"teampulse/internal/platform/store"
	actdom "teampulse/internal/services/activities/domain"
	"teampulse/internal/services/collector/domain"
	"teampulse/internal/services/collector/repo"
	memdom "teampulse/internal/services/members/domain"
)

// Config holds collector tuning
type Config struct {
	// Concurrency
	Workers int // parallel source batches; <=0 -> 4

	// Insert tuning
	InsertChunk int           // rows per insert statement; <=0 -> 500
	MaxRetries  int           // attempts per chunk; <=0 -> 4
	RetryBase   time.Duration // base backoff between attempts; <=0 -> 250ms
}

// Service implements the collector
type Service struct {
	db       repokit.TxRunner
	binder   repokit.Binder[repo.Storage]
	registry *sources.Registry
	resolver memdom.ResolverPort
	learner  memdom.LearnPort
	writer   actdom.WriterPort
	weeks    week.Config
	cfg      Config
}

// New constructs the collector service
func New(
	db repokit.TxRunner,
	binder repokit.Binder[repo.Storage],
	registry *sources.Registry,
	resolver memdom.ResolverPort,
	learner memdom.LearnPort,
	writer actdom.WriterPort,
	weeks week.Config,
	cfg Config,
) *Service {
	if db == nil {
		panic("collector.Service requires a non nil TxRunner")
	}
	if binder == nil {
		panic("collector.Service requires a non nil Repo binder")
	}
	if registry == nil {
		panic("collector.Service requires a non nil source registry")
	}
	if resolver == nil || learner == nil {
		panic("collector.Service requires member resolver and learner ports")
	}
	if writer == nil {
		panic("collector.Service requires an activity writer")
	}
	return &Service{
		db:       db,
		binder:   binder,
		registry: registry,
		resolver: resolver,
		learner:  learner,
		writer:   writer,
		weeks:    weeks,
		cfg:      cfg,
	}
}

// Run executes one collection pass over a spool directory: load batches,
// build the resolver, fan out per-batch workers, write the run ledger row.
// The ledger row lands even when the run fails partway
func (s *Service) Run(ctx context.Context, dir string) (sum domain.RunSummary, retErr error) {
	runID := uuid.NewString()
	ctx = store.WithRun(ctx, runID)
	ctx = logger.WithRun(ctx, runID)
	log := logger.C(ctx)

	started := time.Now().UTC()
	sum = domain.RunSummary{
		RunID:     runID,
		Status:    "ok",
		StartedAt: started,
		Window:    s.weeks.Current(started),
	}

	defer func() {
		sum.FinishedAt = time.Now().UTC()
		if retErr != nil {
			sum.Status = "error"
			if sum.Note == "" {
				sum.Note = retErr.Error()
			}
		}
		if err := s.db.Tx(ctx, func(q repokit.Queryer) error {
			return s.binder.Bind(q).InsertRun(ctx, sum)
		}); err != nil {
			log.Error().Err(err).Msg("collector: run ledger write failed")
		}
		metrics.RecordRun(sum.Status, sum.FinishedAt.Sub(sum.StartedAt))
	}()

	batches, err := spool.ReadDir(dir)
	if err != nil {
		retErr = err
		return
	}
	if len(batches) == 0 {
		log.Info().Str("dir", dir).Msg("collector: spool empty, nothing to do")
		return
	}

	resolver, err := s.resolver.Resolver(ctx)
	if err != nil {
		retErr = err
		return
	}
	log.Info().
		Int("batches", len(batches)).
		Int("identities", resolver.Size()).
		Msg("collector: run starting")

	workers := s.cfg.Workers
	if workers <= 0 {
		workers = 4
	}

	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		fails []string
	)
	merge := func(out domain.SourceOutcome, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			fails = append(fails, out.Source+": "+err.Error())
		}
		for i := range sum.Sources {
			if sum.Sources[i].Source == out.Source {
				sum.Sources[i].Records += out.Records
				sum.Sources[i].Drafts += out.Drafts
				sum.Sources[i].Inserted += out.Inserted
				sum.Sources[i].Ignored += out.Ignored
				sum.Sources[i].Rejected += out.Rejected
				sum.Sources[i].Unresolved += out.Unresolved
				return
			}
		}
		sum.Sources = append(sum.Sources, out)
	}

	sem := make(chan struct{}, workers)
	for _, b := range batches {
		select {
		case <-ctx.Done():
			wg.Wait()
			retErr = ctx.Err()
			return
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(b spool.Batch) {
			defer func() { <-sem; wg.Done() }()
			out, err := s.runBatch(ctx, resolver, b)
			merge(out, err)
			if err == nil {
				metrics.RecordSourceSuccess(b.Source, time.Now())
			}
		}(b)
	}
	wg.Wait()

	// batches finish in any order; the ledger should not
	sort.Slice(sum.Sources, func(i, j int) bool { return sum.Sources[i].Source < sum.Sources[j].Source })
	sum.Totals()

	// email-fallback hits learned during the run become stored identifiers.
	// A write failure here only delays learning; the pairs resurface next run
	if pairs := resolver.Learned(); len(pairs) > 0 {
		n, err := s.learner.Learn(ctx, pairs)
		if err != nil {
			log.Warn().Err(err).Int("pairs", len(pairs)).Msg("collector: learned pair writeback failed")
		} else {
			sum.Learned = n
			log.Info().Int("pairs", len(pairs)).Int("stored", n).Msg("collector: learned pairs stored")
		}
	}

	if len(fails) > 0 {
		sum.Note = strings.Join(fails, "; ")
		retErr = errors.New("some batches failed")
		return
	}

	log.Info().
		Int("inserted", sum.Inserted).
		Int("ignored", sum.Ignored).
		Int("rejected", sum.Rejected).
		Int("unresolved", sum.Unresolved).
		Msg("collector: run complete")
	return
}

// Runs implements domain.LedgerPort
func (s *Service) Runs(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	var out []domain.RunSummary
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.binder.Bind(q).Runs(ctx, limit)
		return err
	})
	return out, err
}

func (s *Service) runBatch(
	ctx context.Context,
	r *memdom.Resolver,
	b spool.Batch,
) (domain.SourceOutcome, error) {
	out := domain.SourceOutcome{Source: b.Source, Records: len(b.Records)}
	log := logger.C(ctx)

	norm, ok := s.registry.Lookup(b.Source)
	if !ok {
		log.Warn().
			Str("source", b.Source).
			Str("file", b.Path).
			Msg("collector: no normalizer for source, batch skipped")
		return out, nil
	}

	drafts, rejects := norm.Normalize(b.Records)
	out.Drafts = len(drafts)
	out.Rejected = len(rejects)
	for _, rej := range rejects {
		metrics.RecordRejected(b.Source)
		log.Debug().
			Str("source", b.Source).
			Int("index", rej.Index).
			Str("reason", rej.Reason).
			Msg("collector: record rejected")
	}
	if len(drafts) == 0 {
		return out, nil
	}

	rows := make([]actdom.Activity, 0, len(drafts))
	for _, d := range drafts {
		rows = append(rows, s.resolveDraft(r, &out, d))
	}

	chunk := s.cfg.InsertChunk
	if chunk <= 0 {
		chunk = 500
	}
	for i := 0; i < len(rows); i += chunk {
		end := min(i+chunk, len(rows))
		ins, ign, err := s.insertChunkRobust(ctx, rows[i:end])
		out.Inserted += ins
		out.Ignored += ign
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

// resolveDraft attaches member ids to a draft. An unresolved actor keeps the
// row with a null owner; raw identity refs stay in meta for audit
func (s *Service) resolveDraft(
	r *memdom.Resolver,
	out *domain.SourceOutcome,
	d sources.Draft,
) actdom.Activity {
	a := actdom.Activity{
		ActivityID:   d.ActivityID,
		Source:       d.Source,
		ActivityType: d.ActivityType,
		OccurredAt:   d.OccurredAt,
		ActorLocalID: d.Actor.LocalID,
		Meta:         d.Meta,
	}
	// email-first sources carry no separate local id
	if a.ActorLocalID == "" {
		a.ActorLocalID = d.Actor.Email
	}

	if id, ok := r.ResolveWithEmail(d.Source, d.Actor.LocalID, d.Actor.Email); ok {
		a.MemberID = id
	} else {
		metrics.RecordUnresolved(d.Source)
		out.Unresolved++
	}

	// only resolved counterparts land in the uuid column; two handles that
	// collapse onto one member dedupe, and a collapse onto the actor drops
	seen := make(map[string]struct{}, len(d.Counterparts))
	for _, c := range d.Counterparts {
		id, ok := r.ResolveWithEmail(d.Source, c.LocalID, c.Email)
		if !ok || id == a.MemberID {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		a.Counterparts = append(a.Counterparts, id)
	}
	return a
}

// insertChunkRobust writes a chunk with retries; if it still fails with a
// retryable error it bisects and attempts each half, so progress is
// guaranteed down to size 1 and a poison row cannot sink the whole batch
func (s *Service) insertChunkRobust(ctx context.Context, batch []actdom.Activity) (int, int, error) {
	if len(batch) == 0 {
		return 0, 0, nil
	}

	attempts := s.cfg.MaxRetries
	if attempts <= 0 {
		attempts = 4
	}
	base := s.cfg.RetryBase
	if base <= 0 {
		base = 250 * time.Millisecond
	}

	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		out, err := s.writer.InsertOrIgnore(ctx, batch)
		if err == nil {
			return out.Inserted, out.Ignored, nil
		}
		last = err
		if !perr.Retryable(err) || attempt == attempts {
			break
		}
		// backoff with jitter, capped at 10s
		d := min(base<<(attempt-1), 10*time.Second)
		sleep := d/2 + time.Duration(rand.Int63n(int64(d/2)))
		if se := sleepCtx(ctx, sleep); se != nil {
			return 0, 0, last
		}
	}

	if !perr.Retryable(last) {
		return 0, 0, last
	}

	if len(batch) == 1 {
		return 0, 0, last
	}
	mid := len(batch) / 2
	lIns, lIgn, lErr := s.insertChunkRobust(ctx, batch[:mid])
	if lErr != nil {
		return lIns, lIgn, lErr
	}
	rIns, rIgn, rErr := s.insertChunkRobust(ctx, batch[mid:])
	return lIns + rIns, lIgn + rIgn, rErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
