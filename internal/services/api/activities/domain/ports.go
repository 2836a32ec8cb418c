package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Query(ctx context.Context, in QueryInput) (QueryOutput, error)
}
