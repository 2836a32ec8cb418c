// Package service maps the member registry http surface onto the core service
package service

import (
	"context"

	perr "teampulse/internal/platform/errors"
	"teampulse/internal/services/api/members/domain"
	memdom "teampulse/internal/services/members/domain"
)

// Service defines the members api contract
type Service interface {
	domain.ServicePort
}

// Svc implements the members api service
type Svc struct {
	read    memdom.ReadPort
	resolve memdom.ResolverPort
}

// New constructs the members api service
func New(read memdom.ReadPort, resolve memdom.ResolverPort) *Svc {
	if read == nil || resolve == nil {
		panic("members api requires read and resolver ports")
	}
	return &Svc{read: read, resolve: resolve}
}

// List returns every registry member with its bound identifiers
func (s *Svc) List(ctx context.Context) (domain.ListOutput, error) {
	members, err := s.read.ListMembers(ctx)
	if err != nil {
		return domain.ListOutput{}, err
	}
	ids, err := s.read.ListIdentifiers(ctx)
	if err != nil {
		return domain.ListOutput{}, err
	}

	byMember := make(map[string][]domain.IdentifierRow, len(members))
	for _, id := range ids {
		byMember[id.MemberID] = append(byMember[id.MemberID], domain.IdentifierRow{
			Source:  id.Source,
			LocalID: id.LocalID,
		})
	}

	out := domain.ListOutput{Members: make([]domain.MemberRow, 0, len(members))}
	for _, m := range members {
		out.Members = append(out.Members, domain.MemberRow{
			ID:          m.ID,
			DisplayName: m.DisplayName,
			Email:       m.Email,
			CreatedAt:   m.CreatedAt,
			Identifiers: byMember[m.ID],
		})
	}
	return out, nil
}

// Resolve probes the resolver with one identity observation.
// The resolver is built fresh and discarded, so probes never persist
// email-fallback pairs; only collector runs learn
func (s *Svc) Resolve(ctx context.Context, in domain.ResolveInput) (domain.ResolveOutput, error) {
	if in.Source == "" {
		return domain.ResolveOutput{}, perr.InvalidArgf("source is required")
	}
	if in.LocalID == "" && in.Email == "" {
		return domain.ResolveOutput{}, perr.InvalidArgf("local_id or email is required")
	}

	r, err := s.resolve.Resolver(ctx)
	if err != nil {
		return domain.ResolveOutput{}, err
	}

	if in.LocalID != "" {
		if m, ok := r.Resolve(in.Source, in.LocalID); ok {
			return domain.ResolveOutput{MemberID: m, Resolved: true, Via: "identifier"}, nil
		}
	}
	if in.Email != "" {
		if m, ok := r.ResolveWithEmail(in.Source, in.LocalID, in.Email); ok {
			return domain.ResolveOutput{MemberID: m, Resolved: true, Via: "email"}, nil
		}
	}
	return domain.ResolveOutput{}, nil
}
