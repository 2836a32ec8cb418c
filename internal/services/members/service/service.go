// Package service provides the members service implementation
package service

import (
	"context"

	"teampulse/internal/modkit/repokit"
	perr "teampulse/internal/platform/errors"
	"teampulse/internal/services/members/domain"
	"teampulse/internal/services/members/repo"
)

// Svc implements domain.Ports
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[repo.Storage]
}

// Compile-time assertion: Svc implements the full members surface
var _ domain.Ports = (*Svc)(nil)

// New constructs the members service
func New(db repokit.TxRunner, binder repokit.Binder[repo.Storage]) *Svc {
	if db == nil {
		panic("members.Service requires a non-nil TxRunner")
	}
	if binder == nil {
		panic("members.Service requires a non-nil Repo binder")
	}
	return &Svc{db: db, binder: binder}
}

// Sync pushes a loaded registry into the store.
//
// Append-only: new identifiers are inserted, stored rows are never repointed.
// Any repoint attempt aborts the whole transaction and surfaces as a conflict
// error so the operator resolves the file by hand. Orphaned activity owners
// ride along in the report as warnings, they never fail the sync
func (s *Svc) Sync(
	ctx context.Context,
	members []domain.Member,
	ids []domain.Identifier,
) (domain.SyncReport, error) {
	var report domain.SyncReport

	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		st := s.binder.Bind(q)

		conflicts, err := st.ConflictingIdentifiers(ctx, ids)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			report.Conflicts = conflicts
			return perr.Conflictf("registry repoints %d stored identifier(s)", len(conflicts))
		}

		if err := st.UpsertMembers(ctx, members); err != nil {
			return err
		}
		report.Members = len(members)

		inserted, err := st.InsertIdentifiers(ctx, ids)
		if err != nil {
			return err
		}
		report.IdentifiersInserted = inserted
		report.IdentifiersKept = len(ids) - inserted

		known := make([]string, len(members))
		for i, m := range members {
			known[i] = m.ID
		}
		orphans, err := st.OrphanOwners(ctx, known)
		if err != nil {
			return err
		}
		report.Orphans = orphans
		return nil
	})

	return report, err
}

// ListMembers implements domain.ReadPort
func (s *Svc) ListMembers(ctx context.Context) ([]domain.Member, error) {
	var out []domain.Member
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.binder.Bind(q).ListMembers(ctx)
		return err
	})
	return out, err
}

// ListIdentifiers implements domain.ReadPort
func (s *Svc) ListIdentifiers(ctx context.Context) ([]domain.Identifier, error) {
	var out []domain.Identifier
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		out, err = s.binder.Bind(q).ListIdentifiers(ctx)
		return err
	})
	return out, err
}

// Resolver loads the identifier index into an immutable in-memory resolver
func (s *Svc) Resolver(ctx context.Context) (*domain.Resolver, error) {
	var members []domain.Member
	var ids []domain.Identifier

	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		st := s.binder.Bind(q)
		var err error
		if members, err = st.ListMembers(ctx); err != nil {
			return err
		}
		ids, err = st.ListIdentifiers(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return domain.NewResolver(members, ids), nil
}

// Learn persists email-fallback pairs observed during a run.
// Insert-or-ignore: a pair that raced with a registry claim is dropped
func (s *Svc) Learn(ctx context.Context, pairs []domain.LearnedPair) (int, error) {
	if len(pairs) == 0 {
		return 0, nil
	}

	ids := make([]domain.Identifier, len(pairs))
	for i, p := range pairs {
		ids[i] = domain.Identifier{Source: p.Source, LocalID: p.LocalID, MemberID: p.MemberID}
	}

	var inserted int
	err := s.db.Tx(ctx, func(q repokit.Queryer) error {
		var err error
		inserted, err = s.binder.Bind(q).InsertIdentifiers(ctx, ids)
		return err
	})
	return inserted, err
}
