// Package module implements the graph service module
package module

import (
	"teampulse/internal/modkit"
	"teampulse/internal/modkit/httpkit"
	"teampulse/internal/services/graph/domain"
	"teampulse/internal/services/graph/repo"
	"teampulse/internal/services/graph/service"
)

// Ports exposed by the graph module
type Ports struct {
	Query domain.QueryPort
}

// Module implements the graph service module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new graph module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(deps.PG, repo.NewPG(), service.Config{
		Weights:  opts.Weights,
		Decay:    opts.Decay,
		PageSize: opts.PageSize,
	})

	m := &Module{deps: deps}
	m.ports = Ports{Query: svc}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "graph" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
