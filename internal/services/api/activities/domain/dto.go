// Package domain holds DTOs for the activities http surface
package domain

import "time"

// QueryInput filters the activity log
// Times are RFC3339; both bounds inclusive
type QueryInput struct {
	MemberID string `json:"member_id,omitempty" validate:"omitempty,uuid" example:"5e0cf273-5e5e-53d8-8d6a-7f1e4c5d9b01"`
	Source   string `json:"source,omitempty" validate:"omitempty,min=1,max=40" example:"github"`
	Type     string `json:"type,omitempty" validate:"omitempty,min=1,max=64" example:"pr_review"`
	Since    string `json:"since,omitempty" validate:"omitempty" example:"2025-11-07T00:00:00Z"`
	Until    string `json:"until,omitempty" validate:"omitempty" example:"2025-11-13T23:59:59Z"`
	Cursor   string `json:"cursor,omitempty" example:"MjAyNS0xMS0xMFQwOTowMDowMFp8MWYwZQ"`
	Limit    int    `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"100"`
}

// ActivityRow is one activity in a page
type ActivityRow struct {
	ActivityID   string         `json:"activity_id" example:"1f0e7c6b"`
	MemberID     string         `json:"member_id,omitempty" example:"5e0cf273-5e5e-53d8-8d6a-7f1e4c5d9b01"`
	Source       string         `json:"source" example:"github"`
	Type         string         `json:"activity_type" example:"pr_review"`
	OccurredAt   time.Time      `json:"occurred_at"`
	ActorLocalID string         `json:"actor_local_id" example:"octocat"`
	Counterparts []string       `json:"counterpart_ids,omitempty"`
	Meta         map[string]any `json:"meta,omitempty"`
}

// QueryOutput is one page plus the cursor that resumes after it
// an empty rows array means the log is drained
type QueryOutput struct {
	Rows []ActivityRow `json:"rows"`
	Next string        `json:"next_cursor,omitempty"`
}
