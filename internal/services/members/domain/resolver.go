package domain

import (
	"sort"
	"sync"

	"teampulse/internal/core/canon"
)

// Resolver maps source-local identities onto member ids.
//
// It is built once per run from the store and never touches I/O afterwards.
// Exact identifier matches win; email equality is the fallback. Email hits
// are memoized so the collector can persist them after the run.
type Resolver struct {
	byKey   map[string]string // source\x00local_id -> member uuid
	byEmail map[string]string // canonical email -> member uuid

	mu      sync.Mutex
	learned map[string]LearnedPair
}

func key(source, localID string) string { return source + "\x00" + localID }

// NewResolver indexes members and identifiers into an immutable lookup.
// Inputs are canonical already; probes are canonicalized on the way in.
// An email claimed by more than one member resolves nothing
func NewResolver(members []Member, ids []Identifier) *Resolver {
	r := &Resolver{
		byKey:   make(map[string]string, len(ids)),
		byEmail: make(map[string]string, len(members)),
		learned: make(map[string]LearnedPair),
	}

	ambiguous := make(map[string]struct{})
	for _, m := range members {
		if m.Email == "" {
			continue
		}
		if prev, dup := r.byEmail[m.Email]; dup && prev != m.ID {
			ambiguous[m.Email] = struct{}{}
			continue
		}
		r.byEmail[m.Email] = m.ID
	}
	for e := range ambiguous {
		delete(r.byEmail, e)
	}

	for _, id := range ids {
		r.byKey[key(id.Source, id.LocalID)] = id.MemberID
	}
	return r
}

// Resolve returns the member owning (source, localID)
func (r *Resolver) Resolve(source, localID string) (string, bool) {
	localID = canon.Key(localID)
	if localID == "" {
		return "", false
	}
	k := key(source, localID)
	if m, ok := r.byKey[k]; ok {
		return m, true
	}

	r.mu.Lock()
	p, ok := r.learned[k]
	r.mu.Unlock()
	if ok {
		return p.MemberID, true
	}
	return "", false
}

// ResolveWithEmail resolves by identifier first, then by email equality.
// An email hit with a usable localID is recorded for later persistence
func (r *Resolver) ResolveWithEmail(source, localID, email string) (string, bool) {
	if m, ok := r.Resolve(source, localID); ok {
		return m, true
	}

	email = canon.Email(email)
	if email == "" {
		return "", false
	}
	m, ok := r.byEmail[email]
	if !ok {
		return "", false
	}

	if localID = canon.Key(localID); localID != "" {
		k := key(source, localID)
		r.mu.Lock()
		if _, seen := r.learned[k]; !seen {
			r.learned[k] = LearnedPair{Source: source, LocalID: localID, MemberID: m}
		}
		r.mu.Unlock()
	}
	return m, true
}

// Learned returns the email-fallback pairs observed so far, in stable order
func (r *Resolver) Learned() []LearnedPair {
	r.mu.Lock()
	out := make([]LearnedPair, 0, len(r.learned))
	for _, p := range r.learned {
		out = append(out, p)
	}
	r.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Source != out[j].Source {
			return out[i].Source < out[j].Source
		}
		return out[i].LocalID < out[j].LocalID
	})
	return out
}

// Size reports how many identifiers the immutable index holds
func (r *Resolver) Size() int { return len(r.byKey) }
