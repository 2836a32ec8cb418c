package domain

import "context"

// SyncPort pushes a loaded registry into the store
type SyncPort interface {
	// Sync is append-only: new identifiers are inserted, existing ones are
	// never repointed. Any conflict fails the whole sync
	Sync(ctx context.Context, members []Member, ids []Identifier) (SyncReport, error)
}

// ReadPort serves the query surface
type ReadPort interface {
	ListMembers(ctx context.Context) ([]Member, error)
	ListIdentifiers(ctx context.Context) ([]Identifier, error)
}

// ResolverPort builds a point-in-time resolver from the store
type ResolverPort interface {
	Resolver(ctx context.Context) (*Resolver, error)
}

// LearnPort persists email-fallback hits observed during a run
type LearnPort interface {
	Learn(ctx context.Context, pairs []LearnedPair) (int, error)
}

// Ports is the full members surface
type Ports interface {
	SyncPort
	ReadPort
	ResolverPort
	LearnPort
}
