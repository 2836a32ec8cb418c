// Package module implements the activities service module
package module

import (
	"teampulse/internal/modkit"
	"teampulse/internal/modkit/httpkit"
	"teampulse/internal/services/activities/domain"
	"teampulse/internal/services/activities/repo"
	"teampulse/internal/services/activities/service"
)

// Ports exposed by the activities module
type Ports struct {
	Writer domain.WriterPort
	Query  domain.QueryPort
}

// Module implements the activities service module
type Module struct {
	deps  modkit.Deps
	ports Ports
	svc   *service.Service
}

// New constructs a new activities module.
// The archive mirror engages only when deps carry a ClickHouse seam
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(deps.PG, repo.NewPG(), repo.NewArchive(deps.CH), service.Config{
		HardLimit: opts.HardLimit,
	})

	m := &Module{deps: deps, svc: svc}
	m.ports = Ports{
		Writer: svc,
		Query:  svc,
	}
	return m
}

// Archive exposes the mirror for bootstrap and operational reads
func (m *Module) Archive() *repo.Archive { return m.svc.Archive() }

// Name satisfies modkit.Module
func (m *Module) Name() string { return "activities" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
