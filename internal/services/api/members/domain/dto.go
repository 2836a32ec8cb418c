// Package domain holds DTOs for the member registry http surface
package domain

import "time"

// IdentifierRow is one source-local handle bound to a member
type IdentifierRow struct {
	Source  string `json:"source" example:"github"`
	LocalID string `json:"local_id" example:"octocat"`
}

// MemberRow is one registry entry with its bound identifiers
type MemberRow struct {
	ID          string          `json:"id" example:"5e0cf273-5e5e-53d8-8d6a-7f1e4c5d9b01"`
	DisplayName string          `json:"display_name" example:"Dana Kim"`
	Email       string          `json:"email,omitempty" example:"dana@acme.io"`
	CreatedAt   time.Time       `json:"created_at"`
	Identifiers []IdentifierRow `json:"identifiers,omitempty"`
}

// ListOutput is the registry listing
type ListOutput struct {
	Members []MemberRow `json:"members"`
}

// ResolveInput probes the resolver with one identity observation.
// Source is required; at least one of local_id and email must be set
type ResolveInput struct {
	Source  string `json:"source" validate:"required,min=1,max=40" example:"slack"`
	LocalID string `json:"local_id,omitempty" validate:"omitempty,max=200" example:"U02ABCDEF"`
	Email   string `json:"email,omitempty" validate:"omitempty,email" example:"dana@acme.io"`
}

// ResolveOutput reports whether the probe resolved and through which path
type ResolveOutput struct {
	MemberID string `json:"member_id,omitempty" example:"5e0cf273-5e5e-53d8-8d6a-7f1e4c5d9b01"`
	Resolved bool   `json:"resolved" example:"true"`
	Via      string `json:"via,omitempty" example:"identifier"`
}
