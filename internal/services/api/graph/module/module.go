// Package module wires the collaboration graph into the API using modkit
package module

import (
	"net/http"

	modkit "teampulse/internal/modkit"
	"teampulse/internal/modkit/httpkit"
	str "teampulse/internal/platform/strings"
	ghttp "teampulse/internal/services/api/graph/http"
	gsvc "teampulse/internal/services/api/graph/service"
	graphdom "teampulse/internal/services/graph/domain"
)

// Ports declares the injected core port this API module serves
type Ports struct {
	Query graphdom.QueryPort
}

// Module implements the graph API module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc gsvc.Service
}

// New constructs the graph API module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("graph"),
		modkit.WithPrefix("/graph"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}
	if injected.Query == nil {
		panic("graph API module requires the core Query port")
	}

	o := FromConfig(deps.Cfg)
	svc := gsvc.New(injected.Query, o.Weeks, o.Defaults)

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
		ghttp.Register(r, m.svc)
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
