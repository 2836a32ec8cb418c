// Package domain defines the types and interfaces for the members service
package domain

import "time"

// Member is a registry entry with its canonical id
type Member struct {
	ID          string // uuid
	DisplayName string
	Email       string // canonical, may be empty
	CreatedAt   time.Time
}

// Identifier binds one source-local handle to a member.
// Source and LocalID are canonical at this point
type Identifier struct {
	Source   string
	LocalID  string
	MemberID string // uuid
}

// Conflict is a stored identifier the registry file tried to repoint.
// Repoints never happen silently; a conflict fails the sync
type Conflict struct {
	Source   string
	LocalID  string
	StoredID string // uuid currently holding the identifier
	ClaimID  string // uuid the file wants
}

// Orphan is an activity owner absent from the registry
type Orphan struct {
	MemberID   string // uuid
	Activities int64
}

// SyncReport summarizes one registry sync
type SyncReport struct {
	Members             int
	IdentifiersInserted int
	IdentifiersKept     int
	Conflicts           []Conflict
	Orphans             []Orphan
}

// LearnedPair is an email-fallback hit the collector persists after a run
type LearnedPair struct {
	Source   string
	LocalID  string
	MemberID string // uuid
}
