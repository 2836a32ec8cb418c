// Package module implements the collector service module
package module

import (
	"teampulse/internal/adapters/sources"
	"teampulse/internal/adapters/sources/calendar"
	"teampulse/internal/adapters/sources/drive"
	"teampulse/internal/adapters/sources/github"
	"teampulse/internal/adapters/sources/notion"
	"teampulse/internal/adapters/sources/slack"
	"teampulse/internal/modkit"
	"teampulse/internal/modkit/httpkit"
	"teampulse/internal/services/collector/domain"
	"teampulse/internal/services/collector/repo"
	"teampulse/internal/services/collector/service"
)

// Ports exposed by the collector module
type Ports struct {
	Runner domain.RunnerPort
	Ledger domain.LedgerPort
}

// Module implements the collector module
type Module struct {
	deps  modkit.Deps
	ports Ports
	opts  Options
}

// New constructs a collector wired to every known source normalizer.
// Cross-service dependencies arrive via WithPorts(collector/domain.Ports)
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("collector"),
	}, opts...)...)

	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("collector module: expected WithPorts(collector/domain.Ports)")
	}
	if ports.Resolver == nil || ports.Learner == nil || ports.Writer == nil {
		panic("collector module: Ports missing Resolver, Learner or Writer")
	}

	o := FromConfig(deps.Cfg)

	registry := sources.NewRegistry(
		github.New(),
		slack.New(),
		notion.New(),
		drive.New(),
		calendar.New(),
	)

	svc := service.New(
		deps.PG, repo.NewPG(), registry,
		ports.Resolver, ports.Learner, ports.Writer,
		o.Weeks,
		service.Config{
			Workers:     o.Workers,
			InsertChunk: o.InsertChunk,
			MaxRetries:  o.MaxRetries,
			RetryBase:   o.RetryBase,
		},
	)

	m := &Module{deps: deps, opts: o}
	m.ports = Ports{Runner: svc, Ledger: svc}
	return m
}

// SpoolDir returns the configured spool directory
func (m *Module) SpoolDir() string { return m.opts.SpoolDir }

// Name satisfies modkit.Module
func (m *Module) Name() string { return "collector" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }

// Prefix satisfies modkit.Module
func (m *Module) Prefix() string { return "" }

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(r httpkit.Router) {}
