// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"strings"
	"time"

	"teampulse/internal/core/version"
	"teampulse/internal/core/week"
	"teampulse/internal/modkit/httpkit"
	perr "teampulse/internal/platform/errors"
	colldom "teampulse/internal/services/collector/domain"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	PG          any
	CH          any
	Weeks       week.Config
	Ledger      colldom.LedgerPort
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d}

	// mount routes
	httpkit.Get(r, "/healthz", h.health)
	httpkit.Get(r, "/readyz", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/window", h.window)
	httpkit.Get(r, "/runs", h.runs)
}

//
// Swagger DTOs and route docs
//

// HealthResponse is the health payload
// swagger:model
type HealthResponse struct {
	OK      bool   `json:"ok"       example:"true"`
	Service string `json:"service"  example:"teampulse-api"`
	Started string `json:"started"  example:"2025-11-07T13:00:00Z"`
	Now     string `json:"now"      example:"2025-11-07T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"pg"`
	Status string `json:"status" example:"ok"` // ok fail skipped unknown
	Error  string `json:"error,omitempty" example:"dial tcp 127.0.0.1:5432 connect: connection refused"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2025-11-07T13:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"    example:"teampulse-api"`
	Started string `json:"started" example:"2025-11-07T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// WindowEdge is one window boundary pair
type WindowEdge struct {
	Start  string `json:"start"  example:"2025-10-30T15:00:00Z"`
	End    string `json:"end"    example:"2025-11-06T14:59:59.999999Z"`
	Closed bool   `json:"closed" example:"true"`
}

// WindowResponse echoes the configured reporting cycle
type WindowResponse struct {
	Anchor  string     `json:"anchor" example:"friday"`
	TZ      string     `json:"tz"     example:"KST"`
	Current WindowEdge `json:"current"`
	Last    WindowEdge `json:"last"`
	Now     string     `json:"now"    example:"2025-11-07T13:05:00Z"`
}

// RunRow is one collector run as persisted in the ledger
type RunRow struct {
	RunID      string     `json:"run_id"`
	Status     string     `json:"status" example:"ok"`
	Started    string     `json:"started"`
	Finished   string     `json:"finished"`
	Window     WindowEdge `json:"window"`
	Sources    []string   `json:"sources"`
	Inserted   int        `json:"inserted"`
	Ignored    int        `json:"ignored"`
	Rejected   int        `json:"rejected"`
	Unresolved int        `json:"unresolved"`
	Note       string     `json:"note,omitempty"`
}

// RunsResponse lists recent collector runs, newest first
type RunsResponse struct {
	Runs []RunRow `json:"runs"`
}

// swagger:route GET /meta/healthz Meta metaHealth
// @Summary Health check
// @Tags Meta
// @Produce json
// @Success 200 type HealthResponse ok
// @Router /meta/healthz [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Now:     time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/readyz Meta metaReady
// @Summary Readiness probe with dependency checks
// @Tags Meta
// @Produce json
// @Success 200 type ReadyResponse ok
// @Router /meta/readyz [get]
func (h *handlers) ready(_ *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 2*time.Second)
	defer cancel()

	check := func(name string, c any) ReadyCheck {
		if c == nil {
			return ReadyCheck{Name: name, Status: "skipped"}
		}
		if p, ok := c.(Pinger); ok {
			if err := p.Ping(ctx); err != nil {
				return ReadyCheck{Name: name, Status: "fail", Error: err.Error()}
			}
			return ReadyCheck{Name: name, Status: "ok"}
		}
		return ReadyCheck{Name: name, Status: "unknown"}
	}

	pg := check("pg", h.deps.PG)
	ch := check("ch", h.deps.CH)

	overall := "ok"
	if pg.Status != "ok" || ch.Status != "ok" {
		overall = "degraded"
		if pg.Status == "fail" || ch.Status == "fail" {
			overall = "fail"
		}
	}

	return ReadyResponse{
		Status: overall,
		Checks: []ReadyCheck{pg, ch},
		Now:    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/version Meta metaVersion
// @Summary Build and version info
// @Tags Meta
// @Produce json
// @Success 200 type version.BuildInfo ok
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(h.deps.ServiceName), nil
}

// swagger:route GET /meta/service Meta metaService
// @Summary Service info and uptime
// @Tags Meta
// @Produce json
// @Success 200 type ServiceResponse ok
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	uptime := time.Since(h.deps.StartedAt)
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: h.deps.StartedAt.UTC().Format(time.RFC3339),
		Uptime:  int64(uptime / time.Second),
	}, nil
}

// swagger:route GET /meta/window Meta metaWindow
// @Summary Resolved current and last reporting windows
// @Tags Meta
// @Produce json
// @Success 200 type WindowResponse ok
// @Router /meta/window [get]
func (h *handlers) window(_ *http.Request) (any, error) {
	now := time.Now().UTC()
	return WindowResponse{
		Anchor:  strings.ToLower(h.deps.Weeks.Anchor.String()),
		TZ:      h.deps.Weeks.Location().String(),
		Current: edge(h.deps.Weeks.Current(now)),
		Last:    edge(h.deps.Weeks.Last(now)),
		Now:     now.Format(time.RFC3339),
	}, nil
}

// swagger:route GET /meta/runs Meta metaRuns
// @Summary Recent collector runs from the ledger
// @Tags Meta
// @Produce json
// @Success 200 type RunsResponse ok
// @Router /meta/runs [get]
func (h *handlers) runs(r *http.Request) (any, error) {
	if h.deps.Ledger == nil {
		return nil, perr.Unavailablef("run ledger not wired")
	}

	rows, err := h.deps.Ledger.Runs(r.Context(), 0)
	if err != nil {
		return nil, err
	}

	out := RunsResponse{Runs: make([]RunRow, 0, len(rows))}
	for _, s := range rows {
		out.Runs = append(out.Runs, RunRow{
			RunID:      s.RunID,
			Status:     s.Status,
			Started:    s.StartedAt.UTC().Format(time.RFC3339),
			Finished:   s.FinishedAt.UTC().Format(time.RFC3339),
			Window:     edge(s.Window),
			Sources:    s.SourceTags(),
			Inserted:   s.Inserted,
			Ignored:    s.Ignored,
			Rejected:   s.Rejected,
			Unresolved: s.Unresolved,
			Note:       s.Note,
		})
	}
	return out, nil
}

func edge(w week.Window) WindowEdge {
	return WindowEdge{
		Start:  w.Start.UTC().Format(time.RFC3339Nano),
		End:    w.End.UTC().Format(time.RFC3339Nano),
		Closed: w.Closed(),
	}
}
