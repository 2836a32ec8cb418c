package domain

import "context"

// ServicePort is the member registry http service surface
type ServicePort interface {
	List(ctx context.Context) (ListOutput, error)
	Resolve(ctx context.Context, in ResolveInput) (ResolveOutput, error)
}
