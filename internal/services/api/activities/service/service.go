// Package service maps the activities http surface onto the core store
package service

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	perr "teampulse/internal/platform/errors"
	actdom "teampulse/internal/services/activities/domain"
	"teampulse/internal/services/api/activities/domain"
)

// Service defines the activities api contract
type Service interface {
	domain.ServicePort
}

// Svc implements the activities api service
type Svc struct {
	query actdom.QueryPort
}

// New constructs the activities api service
func New(q actdom.QueryPort) *Svc {
	if q == nil {
		panic("activities api requires a query port")
	}
	return &Svc{query: q}
}

// Query translates the DTO into core filters and pages the log
func (s *Svc) Query(ctx context.Context, in domain.QueryInput) (domain.QueryOutput, error) {
	f := actdom.Filters{
		MemberID:     in.MemberID,
		Source:       in.Source,
		ActivityType: in.Type,
	}

	var err error
	if f.Since, err = parseTime(in.Since, "since"); err != nil {
		return domain.QueryOutput{}, err
	}
	if f.Until, err = parseTime(in.Until, "until"); err != nil {
		return domain.QueryOutput{}, err
	}

	after, err := decodeCursor(in.Cursor)
	if err != nil {
		return domain.QueryOutput{}, err
	}

	page, err := s.query.Query(ctx, f, after, in.Limit)
	if err != nil {
		return domain.QueryOutput{}, err
	}

	out := domain.QueryOutput{Rows: make([]domain.ActivityRow, 0, len(page.Rows))}
	for _, a := range page.Rows {
		out.Rows = append(out.Rows, domain.ActivityRow{
			ActivityID:   a.ActivityID,
			MemberID:     a.MemberID,
			Source:       a.Source,
			Type:         a.ActivityType,
			OccurredAt:   a.OccurredAt,
			ActorLocalID: a.ActorLocalID,
			Counterparts: a.Counterparts,
			Meta:         a.Meta,
		})
	}
	if len(page.Rows) > 0 {
		out.Next = encodeCursor(page.Next)
	}
	return out, nil
}

func parseTime(s, field string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, perr.InvalidArgf("bad %s: %v", field, err)
	}
	return t, nil
}

// cursors are the keyset key, base64 so clients treat them as opaque
func encodeCursor(k actdom.AfterKey) string {
	raw := k.OccurredAt.UTC().Format(time.RFC3339Nano) + "|" + k.ActivityID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(s string) (actdom.AfterKey, error) {
	if s == "" {
		return actdom.AfterKey{}, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return actdom.AfterKey{}, perr.InvalidArgf("bad cursor")
	}
	at, id, ok := strings.Cut(string(raw), "|")
	if !ok || id == "" {
		return actdom.AfterKey{}, perr.InvalidArgf("bad cursor")
	}
	ts, err := time.Parse(time.RFC3339Nano, at)
	if err != nil {
		return actdom.AfterKey{}, perr.InvalidArgf("bad cursor")
	}
	return actdom.AfterKey{OccurredAt: ts, ActivityID: id}, nil
}
