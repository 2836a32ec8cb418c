package main

import (
	"context"
	"flag"
	"os"

	"teampulse/internal/modkit"
	"teampulse/internal/modkit/module"
	"teampulse/internal/platform/config"
	"teampulse/internal/platform/logger"
	"teampulse/internal/platform/store"

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
	l := logger.Get()

	var (
		fRegistry = flag.String("registry", "", "registry file override (default CORE_MEMBERS_REGISTRY)")
		fCheck    = flag.Bool("check", false, "validate the registry file and exit without touching the store")
	)
	flag.Parse()

	mustSetEnv("CORE_MEMBERS_REGISTRY", *fRegistry)
	path := root.Prefix("CORE_MEMBERS_").MayString("REGISTRY", "members.yaml")

	// load first so -check works with no database around
	reg, err := registry.Load(path)
	if err != nil {
		l.Fatal().Err(err).Str("path", path).Msg("registry invalid")
	}
	l.Info().
		Str("path", path).
		Int("members", len(reg.Members)).
		Int("identifiers", len(reg.Identifiers)).
		Msg("registry valid")

	if *fCheck {
		return
	}

	pgCfg := root.Prefix("SERVICE_PGSQL_")
	st, err := store.Open(context.Background(), store.Config{
		AppName: "teampulse-members",
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", true),
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

	deps := modkit.Deps{
		Cfg: root,
		PG:  st.PG,
		Log: *l,
	}

	members := membersmod.New(deps)
	module.Register(members.Name(), members.Ports())

	ctx := context.Background()
	rep, err := module.MustPortsOf[membersmod.Ports](members).Sync.Sync(ctx, reg.Members, reg.Identifiers)
	if err != nil {
		for _, c := range rep.Conflicts {
			l.Error().
				Str("source", c.Source).
				Str("local_id", c.LocalID).
				Str("stored", c.StoredID).
				Str("claim", c.ClaimID).
				Msg("identifier repoint rejected")
		}
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
