// Package http provides http transport for the member registry
package http

import (
	stdhttp "net/http"

	"teampulse/internal/modkit/httpkit"
	"teampulse/internal/services/api/members/domain"
	svc "teampulse/internal/services/api/members/service"
)

// Register mounts member registry endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/", h.list)
	httpkit.PostJSON[domain.ResolveInput](r, "/resolve", h.resolve)
}

type handlers struct{ svc svc.Service }

// swagger:route GET /members Members membersList
// @Summary List registry members with their identifiers
// @Tags Members
// @Produce json
// @Success 200 {object} domain.ListOutput "ok"
// @Router /members [get]
func (h *handlers) list(r *stdhttp.Request) (any, error) {
	return h.svc.List(r.Context())
}

// swagger:route POST /members/resolve Members membersResolve
// @Summary Probe the identity resolver
// @Tags Members
// @Accept json
// @Produce json
// @Param payload body domain.ResolveInput true "Identity observation"
// @Success 200 {object} domain.ResolveOutput "ok"
// @Router /members/resolve [post]
func (h *handlers) resolve(r *stdhttp.Request, in domain.ResolveInput) (any, error) {
	return h.svc.Resolve(r.Context(), in)
}
