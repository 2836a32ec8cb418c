package domain

import "context"

// ServicePort is the graph http service surface
type ServicePort interface {
	// Collaborations resolves the window selector and returns ranked edges
	Collaborations(ctx context.Context, in CollaborationsInput) (CollaborationsOutput, error)
}
