// Package service maps the graph http surface onto the scoring engine
package service

import (
	"context"
	"time"

	"teampulse/internal/core/week"
	"teampulse/internal/services/api/graph/domain"
	graphdom "teampulse/internal/services/graph/domain"
)

// Service defines the graph api contract
type Service interface {
	domain.ServicePort
}

// Defaults fill the optional knobs of a collaborations call
type Defaults struct {
	Days     int
	Limit    int
	MinScore float64
}

// Svc implements the graph api service
type Svc struct {
	query graphdom.QueryPort
	weeks week.Config
	def   Defaults

	now func() time.Time // swapped in tests
}

// New constructs the graph api service
func New(q graphdom.QueryPort, weeks week.Config, def Defaults) *Svc {
	if q == nil {
		panic("graph api requires a query port")
	}
	return &Svc{query: q, weeks: weeks, def: def, now: time.Now}
}

// Collaborations resolves the window selector, applies defaults and ranks edges
func (s *Svc) Collaborations(ctx context.Context, in domain.CollaborationsInput) (domain.CollaborationsOutput, error) {
	now := s.now().UTC()

	var w week.Window
	switch in.Window {
	case "current":
		w = s.weeks.Current(now)
	case "last":
		w = s.weeks.Last(now)
	default:
		// "days" and the empty selector both mean a trailing lookback
		days := in.Days
		if days <= 0 {
			days = s.def.Days
		}
		w = s.weeks.Days(now, days)
	}

	p := graphdom.Params{MemberID: in.MemberID, Window: w, Limit: in.Limit, MinScore: s.def.MinScore}
	if p.Limit <= 0 {
		p.Limit = s.def.Limit
	}
	if in.MinScore != nil {
		p.MinScore = *in.MinScore
	}

	edges, err := s.query.Collaborations(ctx, p)
	if err != nil {
		return domain.CollaborationsOutput{}, err
	}

	out := domain.CollaborationsOutput{
		MemberID: in.MemberID,
		Window:   domain.WindowEcho{Start: w.Start, End: w.End, Closed: w.Closed()},
		Edges:    make([]domain.EdgeRow, 0, len(edges)),
	}
	for _, e := range edges {
		row := domain.EdgeRow{
			Counterpart:  e.Counterpart,
			Score:        e.Score,
			Interactions: e.Interactions,
			First:        e.First,
			Last:         e.Last,
		}
		if len(e.Breakdown) > 0 {
			row.Breakdown = make(map[string]domain.BreakdownCell, len(e.Breakdown))
			for k, c := range e.Breakdown {
				row.Breakdown[k] = domain.BreakdownCell{Score: c.Score, Count: c.Count}
			}
		}
		out.Edges = append(out.Edges, row)
	}
	return out, nil
}
