package module

import (
	"context"

	"teampulse/internal/services/api/activities/domain"
	asvc "teampulse/internal/services/api/activities/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptPort exposes service methods as module ports for cross-module usage
type adaptPort struct{ svc asvc.Service }

func (a adaptPort) Query(ctx context.Context, in domain.QueryInput) (domain.QueryOutput, error) {
	return a.svc.Query(ctx, in)
}
