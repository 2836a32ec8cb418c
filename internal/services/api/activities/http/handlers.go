// Package http provides http transport for the activity log
package http

import (
	stdhttp "net/http"

	"teampulse/internal/modkit/httpkit"
	"teampulse/internal/services/api/activities/domain"
	svc "teampulse/internal/services/api/activities/service"
)

// Register mounts activity endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.QueryInput](r, "/query", h.query)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /activities/query Activities activitiesQuery
// @Summary Page through the activity log
// @Tags Activities
// @Accept json
// @Produce json
// @Param payload body domain.QueryInput true "Filters and cursor"
// @Success 200 {object} domain.QueryOutput "ok"
// @Router /activities/query [post]
func (h *handlers) query(r *stdhttp.Request, in domain.QueryInput) (any, error) {
	return h.svc.Query(r.Context(), in)
}
