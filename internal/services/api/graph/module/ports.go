package module

import (
	"context"

	"teampulse/internal/services/api/graph/domain"
	gsvc "teampulse/internal/services/api/graph/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptPort exposes service methods as module ports for cross-module usage
type adaptPort struct{ svc gsvc.Service }

func (a adaptPort) Collaborations(ctx context.Context, in domain.CollaborationsInput) (domain.CollaborationsOutput, error) {
	return a.svc.Collaborations(ctx, in)
}
