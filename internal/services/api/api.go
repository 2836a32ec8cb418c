// Package api provides the HTTP API for the application
package api

import (
	"teampulse/internal/platform/config"
	"teampulse/internal/platform/logger"
	phttp "teampulse/internal/platform/net/http"
	"teampulse/internal/platform/store"

	"teampulse/internal/modkit"
	"teampulse/internal/modkit/httpkit"
	"teampulse/internal/modkit/module"
	"teampulse/internal/modkit/swaggerkit"

	apiact "teampulse/internal/services/api/activities/module"
	apigraph "teampulse/internal/services/api/graph/module"
	apimembers "teampulse/internal/services/api/members/module"
	metamod "teampulse/internal/services/api/meta/module"

	actmod "teampulse/internal/services/activities/module"
	collrepo "teampulse/internal/services/collector/repo"
	collsvc "teampulse/internal/services/collector/service"
	graphmod "teampulse/internal/services/graph/module"
	membersmod "teampulse/internal/services/members/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
		CH:  opt.Store.CH,
	}

	// Core modules own the domain logic; API modules borrow their ports
	members := membersmod.New(deps)
	activities := actmod.New(deps)
	graph := graphmod.New(deps)

	memPorts := module.MustPortsOf[membersmod.Ports](members)
	actPorts := module.MustPortsOf[actmod.Ports](activities)
	graphPorts := module.MustPortsOf[graphmod.Ports](graph)

	// The run ledger is read-only here; collection happens in its own binary
	ledger := collsvc.NewLedger(deps.PG, collrepo.NewPG())

	mods := []module.Module{
		members,
		activities,
		graph,
		metamod.New(deps, modkit.WithPorts(metamod.Ports{
			Ledger: ledger,
		})),
		apiact.New(deps, modkit.WithPorts(apiact.Ports{
			Query: actPorts.Query,
		})),
		apigraph.New(deps, modkit.WithPorts(apigraph.Ports{
			Query: graphPorts.Query,
		})),
		apimembers.New(deps, modkit.WithPorts(apimembers.Ports{
			Read:    memPorts.Read,
			Resolve: memPorts.Resolve,
		})),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
