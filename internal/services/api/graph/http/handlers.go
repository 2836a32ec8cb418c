// Package http provides http transport for the collaboration graph
package http

import (
	stdhttp "net/http"

	"teampulse/internal/modkit/httpkit"
	"teampulse/internal/services/api/graph/domain"
	svc "teampulse/internal/services/api/graph/service"
)

// Register mounts graph endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.CollaborationsInput](r, "/collaborations", h.collaborations)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /graph/collaborations Graph graphCollaborations
// @Summary Rank a member's collaborators over a window
// @Tags Graph
// @Accept json
// @Produce json
// @Param payload body domain.CollaborationsInput true "Member and window selector"
// @Success 200 {object} domain.CollaborationsOutput "ok"
// @Router /graph/collaborations [post]
func (h *handlers) collaborations(r *stdhttp.Request, in domain.CollaborationsInput) (any, error) {
	return h.svc.Collaborations(r.Context(), in)
}
