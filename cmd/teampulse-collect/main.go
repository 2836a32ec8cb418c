package main

import (
	"context"
	"flag"
	"os"
	"strconv"

	"teampulse/internal/modkit"
	"teampulse/internal/modkit/module"
	"teampulse/internal/platform/config"
	"teampulse/internal/platform/logger"
	"teampulse/internal/platform/store"

	actmod "teampulse/internal/services/activities/module"
	colldom "teampulse/internal/services/collector/domain"
	collmod "teampulse/internal/services/collector/module"
	membersmod "teampulse/internal/services/members/module"
	"teampulse/internal/services/members/registry"
)

func mustSetEnv(key, val string) {
	if val != "" {
		_ = os.Setenv(key, val)
	}
}

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	l := logger.Get()

	// the archive mirror is optional; no CH url means postgres only
	chURL := chCfg.MayString("DBURL", "")

	st, err := store.Open(context.Background(), store.Config{
		AppName: "teampulse-collect",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", true),
		},
		CH: store.CHConfig{
			Enabled: chURL != "",
			URL:     chURL,
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	// Fail before the run starts if a configured backend is unreachable
	if err := st.Guard(context.Background()); err != nil {
		l.Panic().Err(err).Msg("store guard failed")
	}

	var (
		fSpool    = flag.String("spool", "", "spool directory override (default CORE_COLLECT_SPOOL_DIR)")
		fRegistry = flag.String("registry", "", "registry file override (default CORE_MEMBERS_REGISTRY)")
		fWorkers  = flag.Int("workers", 0, "concurrent source batches override")
		fSkipSync = flag.Bool("skip-sync", false, "collect without syncing the registry first")
	)
	flag.Parse()

	// Surface opts to modules that read FromConfig
	mustSetEnv("CORE_COLLECT_SPOOL_DIR", *fSpool)
	mustSetEnv("CORE_MEMBERS_REGISTRY", *fRegistry)
	if *fWorkers > 0 {
		mustSetEnv("CORE_COLLECT_WORKERS", strconv.Itoa(*fWorkers))
	}

	// Shared deps for modules
	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		CH:  st.CH,
		Log: *l,
	}

	members := membersmod.New(deps)
	activities := actmod.New(deps)
	memPorts := module.MustPortsOf[membersmod.Ports](members)

	collector := collmod.New(
		deps,
		modkit.WithPorts(colldom.Ports{
			Resolver: memPorts.Resolve,
			Learner:  memPorts.Learn,
			Writer:   module.MustPortsOf[actmod.Ports](activities).Writer,
		}),
	)
	module.Register(members.Name(), members.Ports())
	module.Register(activities.Name(), activities.Ports())
	module.Register(collector.Name(), collector.Ports())

	ctx := context.Background()

	// archive schema rides along when the mirror is configured
	arch := activities.Archive()
	if arch.Enabled() {
		if err := arch.EnsureSchema(ctx); err != nil {
			l.Panic().Err(err).Msg("archive schema bootstrap failed")
		}
	}

	if !*fSkipSync {
		reg, err := registry.Load(members.RegistryPath())
		if err != nil {
			l.Panic().Err(err).Msg("registry load failed")
		}
		rep, err := memPorts.Sync.Sync(ctx, reg.Members, reg.Identifiers)
		if err != nil {
			l.Fatal().Err(err).Msg("registry sync failed")
		}
		l.Info().
			Int("members", rep.Members).
			Int("inserted", rep.IdentifiersInserted).
			Int("kept", rep.IdentifiersKept).
			Msg("registry synced")
		for _, o := range rep.Orphans {
			l.Warn().
				Str("member_id", o.MemberID).
				Int64("activities", o.Activities).
				Msg("activity owner missing from registry")
		}
	}

	sum, err := collector.Ports().(collmod.Ports).Runner.Run(ctx, collector.SpoolDir())
	if err != nil {
		l.Fatal().Err(err).Str("run_id", sum.RunID).Str("note", sum.Note).Msg("collection failed")
	}
	l.Info().
		Str("run_id", sum.RunID).
		Int("inserted", sum.Inserted).
		Int("ignored", sum.Ignored).
		Int("rejected", sum.Rejected).
		Int("unresolved", sum.Unresolved).
		Int("learned", sum.Learned).
		Msg("collection complete")

	if arch.Enabled() {
		if total, err := arch.Count(ctx); err != nil {
			l.Warn().Err(err).Msg("archive count unavailable")
		} else {
			l.Info().Uint64("rows", total).Msg("archive total")
		}
	}
}
