// Package domain holds DTOs for the collaboration graph http surface
package domain

import "time"

// CollaborationsInput selects a member and a scoring window.
// An empty window selector means a trailing lookback of the configured
// default day count
type CollaborationsInput struct {
	MemberID string   `json:"member_id" validate:"required,uuid" example:"5e0cf273-5e5e-53d8-8d6a-7f1e4c5d9b01"`
	Window   string   `json:"window,omitempty" validate:"omitempty,oneof=current last days" example:"current"`
	Days     int      `json:"days,omitempty" validate:"omitempty,min=1,max=365" example:"30"`
	Limit    int      `json:"limit,omitempty" validate:"omitempty,min=1,max=100" example:"10"`
	MinScore *float64 `json:"min_score,omitempty" example:"0.5"`
}

// WindowEcho reports the resolved scoring window
type WindowEcho struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Closed bool      `json:"closed" example:"true"`
}

// BreakdownCell is the per-(source,type) slice of an edge
type BreakdownCell struct {
	Score float64 `json:"score" example:"6.0"`
	Count int64   `json:"count" example:"2"`
}

// EdgeRow is one ranked collaboration edge
type EdgeRow struct {
	Counterpart  string                   `json:"counterpart_id" example:"9c1ad7e2-1044-5fd1-b018-1d2f5c6a7b02"`
	Score        float64                  `json:"score" example:"12.5"`
	Interactions int64                    `json:"interactions" example:"7"`
	First        time.Time                `json:"first_interaction"`
	Last         time.Time                `json:"last_interaction"`
	Breakdown    map[string]BreakdownCell `json:"breakdown,omitempty"`
}

// CollaborationsOutput is the ranked edge list with its window
type CollaborationsOutput struct {
	MemberID string     `json:"member_id"`
	Window   WindowEcho `json:"window"`
	Edges    []EdgeRow  `json:"edges"`
}
