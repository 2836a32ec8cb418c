// Package module implements the members service module
package module

import (
	"teampulse/internal/modkit"
	"teampulse/internal/modkit/httpkit"
	"teampulse/internal/services/members/domain"
	"teampulse/internal/services/members/repo"
	"teampulse/internal/services/members/service"
)

// Ports exposed by the members module
type Ports struct {
	Sync    domain.SyncPort
	Read    domain.ReadPort
	Resolve domain.ResolverPort
	Learn   domain.LearnPort
}

// Module implements the members service module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

// New constructs a new members module
func New(deps modkit.Deps) *Module {
	opts := FromConfig(deps.Cfg)

	svc := service.New(deps.PG, repo.NewPG())

	m := &Module{deps: deps, opts: opts}
	m.ports = Ports{
		Sync:    svc,
		Read:    svc,
		Resolve: svc,
		Learn:   svc,
	}
	return m
}

// RegistryPath returns the configured registry file location
func (m *Module) RegistryPath() string { return m.opts.RegistryPath }

// Name satisfies modkit.Module
func (m *Module) Name() string { return "members" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
