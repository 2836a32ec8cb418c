// Package domain defines the types and interfaces for the graph service
package domain

import (
	"time"

	"teampulse/internal/core/week"
)

// Edge is one ranked collaborator from the queried member's point of view.
// Derived on demand, never persisted
type Edge struct {
	Counterpart  string // member uuid
	Score        float64
	Interactions int64
	First        time.Time
	Last         time.Time
	Breakdown    map[string]Contribution // keyed "source.activity_type"
}

// Contribution is the per-(source,type) slice of an edge
type Contribution struct {
	Score float64
	Count int64
}

// Params shape one Collaborations call
type Params struct {
	MemberID string // uuid
	Window   week.Window
	Limit    int
	MinScore float64
}

// Row is the windowed activity slice the engine scores.
// Counterparts hold resolved member uuids only
type Row struct {
	ActivityID   string
	MemberID     string // owner uuid, never empty here
	Source       string
	ActivityType string
	OccurredAt   time.Time
	Counterparts []string
}

// AfterKey is the keyset cursor for draining a window
type AfterKey struct {
	OccurredAt time.Time
	ActivityID string
}
