// Package domain defines the types and interfaces for the activities service
package domain

import "time"

// Activity is one unified activity row.
// ActivityID is the lowercase hex sha256 of "<source>:<native_id>" computed at
// normalization; it is the sole dedup key
type Activity struct {
	ActivityID   string
	MemberID     string // uuid, empty while unresolved
	Source       string
	ActivityType string
	OccurredAt   time.Time
	ActorLocalID string
	Counterparts []string // resolved counterpart member uuids
	Meta         map[string]any
}

// InsertOutcome reports what a batch insert actually did
type InsertOutcome struct {
	Inserted int
	Ignored  int
	// InsertedIDs lists the activity ids that landed, for the archive mirror
	InsertedIDs []string
}

// Filters narrows a query; zero values mean "no constraint"
type Filters struct {
	MemberID     string // uuid
	Source       string
	ActivityType string
	Since        time.Time
	Until        time.Time
}

// AfterKey is the keyset cursor: strictly after (occurred_at, activity_id)
type AfterKey struct {
	OccurredAt time.Time
	ActivityID string
}

// Page is one query result slice plus the cursor to continue from
type Page struct {
	Rows []Activity
	Next AfterKey
}
