package module

import (
	"context"

	"teampulse/internal/services/api/members/domain"
	msvc "teampulse/internal/services/api/members/service"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptPort exposes service methods as module ports for cross-module usage
type adaptPort struct{ svc msvc.Service }

func (a adaptPort) List(ctx context.Context) (domain.ListOutput, error) {
	return a.svc.List(ctx)
}

func (a adaptPort) Resolve(ctx context.Context, in domain.ResolveInput) (domain.ResolveOutput, error) {
	return a.svc.Resolve(ctx, in)
}
