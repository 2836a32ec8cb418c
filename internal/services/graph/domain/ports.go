package domain

import "context"

// QueryPort ranks a member's collaborators inside a window
type QueryPort interface {
	// Collaborations scores every windowed interaction touching the member and
	// returns edges sorted by score desc, interactions desc, counterpart asc.
	// An empty result is a valid answer
	Collaborations(ctx context.Context, p Params) ([]Edge, error)
}
