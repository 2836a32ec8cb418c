// Package repo provides Postgres bindings for the members service
package repo

import (
	"context"
	"fmt"
	"strings"

	"teampulse/internal/modkit/repokit"
	"teampulse/internal/services/members/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage defines the members repository
type Storage interface {
	UpsertMembers(ctx context.Context, xs []domain.Member) error
	InsertIdentifiers(ctx context.Context, xs []domain.Identifier) (int, error)
	ConflictingIdentifiers(ctx context.Context, claims []domain.Identifier) ([]domain.Conflict, error)
	ListMembers(ctx context.Context) ([]domain.Member, error)
	ListIdentifiers(ctx context.Context) ([]domain.Identifier, error)
	OrphanOwners(ctx context.Context, knownIDs []string) ([]domain.Orphan, error)
}

// UpsertMembers writes registry members; display name and email follow the file
func (s *pg) UpsertMembers(ctx context.Context, xs []domain.Member) error {
	if len(xs) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO members (id, display_name, email) VALUES `)

	args := make([]any, 0, len(xs)*3)
	for i, m := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*3 + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d)", base, base+1, base+2)
		args = append(args, m.ID, m.DisplayName, nullIfEmpty(m.Email))
	}
	sb.WriteString(` ON CONFLICT (id) DO UPDATE
		SET display_name = EXCLUDED.display_name, email = EXCLUDED.email`)

	_, err := s.q.Exec(ctx, sb.String(), args...)
	return err
}

// InsertIdentifiers appends new identifier rows and reports how many landed.
// Existing rows are left exactly as they are
func (s *pg) InsertIdentifiers(ctx context.Context, xs []domain.Identifier) (int, error) {
	if len(xs) == 0 {
		return 0, nil
	}

	var sb strings.Builder
	sb.WriteString(`INSERT INTO member_identifiers (source, local_id, member_id) VALUES `)

	args := make([]any, 0, len(xs)*3)
	for i, id := range xs {
		if i > 0 {
			sb.WriteByte(',')
		}
		base := i*3 + 1
		fmt.Fprintf(&sb, "($%d,$%d,$%d)", base, base+1, base+2)
		args = append(args, id.Source, id.LocalID, id.MemberID)
	}
	sb.WriteString(` ON CONFLICT (source, local_id) DO NOTHING`)

	tag, err := s.q.Exec(ctx, sb.String(), args...)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// ConflictingIdentifiers returns stored rows the claims would repoint
func (s *pg) ConflictingIdentifiers(
	ctx context.Context,
	claims []domain.Identifier,
) ([]domain.Conflict, error) {
	if len(claims) == 0 {
		return nil, nil
	}

	sources := make([]string, len(claims))
	locals := make([]string, len(claims))
	members := make([]string, len(claims))
	for i, c := range claims {
		sources[i], locals[i], members[i] = c.Source, c.LocalID, c.MemberID
	}

	rows, err := s.q.Query(ctx, `
		SELECT i.source, i.local_id, i.member_id::text, c.member_id
		FROM member_identifiers i
		JOIN unnest($1::text[], $2::text[], $3::text[]) AS c(source, local_id, member_id)
			ON i.source = c.source AND i.local_id = c.local_id
		WHERE i.member_id::text <> c.member_id
		ORDER BY i.source, i.local_id
	`, sources, locals, members)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Conflict
	for rows.Next() {
		var c domain.Conflict
		if err := rows.Scan(&c.Source, &c.LocalID, &c.StoredID, &c.ClaimID); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ListMembers implements Storage
func (s *pg) ListMembers(ctx context.Context) ([]domain.Member, error) {
	rows, err := s.q.Query(ctx, `
		SELECT id::text, display_name, COALESCE(email, ''), created_at
		FROM members
		ORDER BY display_name, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Member
	for rows.Next() {
		var m domain.Member
		if err := rows.Scan(&m.ID, &m.DisplayName, &m.Email, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ListIdentifiers implements Storage
func (s *pg) ListIdentifiers(ctx context.Context) ([]domain.Identifier, error) {
	rows, err := s.q.Query(ctx, `
		SELECT source, local_id, member_id::text
		FROM member_identifiers
		ORDER BY source, local_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Identifier
	for rows.Next() {
		var id domain.Identifier
		if err := rows.Scan(&id.Source, &id.LocalID, &id.MemberID); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// OrphanOwners returns activity owners missing from the registry
func (s *pg) OrphanOwners(ctx context.Context, knownIDs []string) ([]domain.Orphan, error) {
	rows, err := s.q.Query(ctx, `
		SELECT member_id::text, COUNT(*) AS n
		FROM activities
		WHERE member_id IS NOT NULL
			AND member_id::text <> ALL($1::text[])
		GROUP BY member_id
		ORDER BY n DESC, member_id
	`, knownIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Orphan
	for rows.Next() {
		var o domain.Orphan
		if err := rows.Scan(&o.MemberID, &o.Activities); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
