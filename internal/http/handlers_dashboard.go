package httpx

import (
	"net/http"

	"github.com/fincompass/console/internal/service"
)

// DashboardHandlers serves the aggregated record counts.
type DashboardHandlers struct {
	Dashboard *service.DashboardService
}

// Stats handles GET /api/dashboard/stats.
func (h *DashboardHandlers) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Dashboard.Stats(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}
