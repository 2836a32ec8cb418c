// Package service implements the collaboration scoring engine
package service

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"teampulse/internal/core/scoring"
	"teampulse/internal/modkit/repokit"
	perr "teampulse/internal/platform/errors"
	"teampulse/internal/platform/metrics"
	"teampulse/internal/services/graph/domain"
	"teampulse/internal/services/graph/repo"
)

// Config for the graph service
type Config struct {
	Weights  scoring.Weights
	Decay    scoring.Decay
	PageSize int // window drain chunk; defaults to 5000 if <= 0
}

// Service implements domain.QueryPort
type Service struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
	cfg    Config
}

// New constructs the graph service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage], cfg Config) *Service {
	if db == nil {
		panic("graph.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("graph.Service requires a non-nil Repo binder")
	}
	if cfg.Weights == nil {
		cfg.Weights = scoring.DefaultWeights()
	}
	if !cfg.Decay.Valid() {
		cfg.Decay = scoring.DefaultDecay()
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 5000
	}
	return &Service{db: db, binder: binder, cfg: cfg}
}

// edge accumulation state per counterpart
type acc struct {
	score     float64
	count     int64
	first     time.Time
	last      time.Time
	breakdown map[string]domain.Contribution
}

// Collaborations implements domain.QueryPort.
//
// Credit rules: rows owned by the member credit every resolved counterpart.
// Rows owned by someone else credit the pair only for directional types; a
// symmetric event already has the member's own mirror row carrying that side
func (s *Service) Collaborations(ctx context.Context, p domain.Params) ([]domain.Edge, error) {
	if _, err := uuid.Parse(p.MemberID); err != nil {
		return nil, perr.InvalidArgf("member id %q is not a uuid", p.MemberID)
	}
	if p.Window.Start.After(p.Window.End) {
		return nil, perr.InvalidArgf("window start is after end")
	}
	if p.MinScore < 0 {
		p.MinScore = 0
	}

	started := time.Now()
	edges := make(map[string]*acc)

	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		st := s.binder.Bind(q)
		var after domain.AfterKey
		for {
			rows, err := st.WindowRows(ctx, p.MemberID, p.Window, after, s.cfg.PageSize)
			if err != nil {
				return err
			}
			for _, r := range rows {
				s.scoreRow(p, r, edges)
			}
			if len(rows) < s.cfg.PageSize {
				return nil
			}
			last := rows[len(rows)-1]
			after = domain.AfterKey{OccurredAt: last.OccurredAt, ActivityID: last.ActivityID}
		}
	})
	if err != nil {
		return nil, err
	}

	out := rank(edges, p.MinScore, p.Limit)
	metrics.ObserveGraphBuild(time.Since(started))
	return out, nil
}

func (s *Service) scoreRow(p domain.Params, r domain.Row, edges map[string]*acc) {
	base := s.cfg.Weights.Lookup(r.Source, r.ActivityType)
	if base == 0 {
		// unweighted rows contribute nothing, not even interaction counts
		return
	}
	score := s.cfg.Decay.Score(base, scoring.AgeDays(p.Window.End, r.OccurredAt))
	key := r.Source + "." + r.ActivityType

	credit := func(counterpart string) {
		if counterpart == "" || counterpart == p.MemberID {
			return
		}
		a := edges[counterpart]
		if a == nil {
			a = &acc{breakdown: make(map[string]domain.Contribution)}
			edges[counterpart] = a
		}
		a.score += score
		a.count++
		if a.first.IsZero() || r.OccurredAt.Before(a.first) {
			a.first = r.OccurredAt
		}
		if r.OccurredAt.After(a.last) {
			a.last = r.OccurredAt
		}
		c := a.breakdown[key]
		c.Score += score
		c.Count++
		a.breakdown[key] = c
	}

	if r.MemberID == p.MemberID {
		for _, c := range r.Counterparts {
			credit(c)
		}
		return
	}

	// someone else's row referencing the member
	if scoring.Symmetric(r.ActivityType) {
		return
	}
	credit(r.MemberID)
}

func rank(edges map[string]*acc, minScore float64, limit int) []domain.Edge {
	out := make([]domain.Edge, 0, len(edges))
	for id, a := range edges {
		if a.score < minScore {
			continue
		}
		out = append(out, domain.Edge{
			Counterpart:  id,
			Score:        a.score,
			Interactions: a.count,
			First:        a.first,
			Last:         a.last,
			Breakdown:    a.breakdown,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Interactions != out[j].Interactions {
			return out[i].Interactions > out[j].Interactions
		}
		return out[i].Counterpart < out[j].Counterpart
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
