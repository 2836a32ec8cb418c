// Package module wires the member registry into the API using modkit
package module

import (
	"net/http"

	modkit "teampulse/internal/modkit"
	"teampulse/internal/modkit/httpkit"
	str "teampulse/internal/platform/strings"
	mhttp "teampulse/internal/services/api/members/http"
	msvc "teampulse/internal/services/api/members/service"
	memdom "teampulse/internal/services/members/domain"
)

// Ports declares the injected core surface this API module serves
type Ports struct {
	Read    memdom.ReadPort
	Resolve memdom.ResolverPort
}

// Module implements the members API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc msvc.Service
}

// New constructs the members API module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("members"),
		modkit.WithPrefix("/members"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Read == nil || injected.Resolve == nil {
		panic("members API module requires the core read and resolver ports")
	}

	svc := msvc.New(injected.Read, injected.Resolve)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = adaptPort{svc: svc}

	external := b.Register
	m.register = func(r httpkit.Router) {
		mhttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
