package handler

import (
	"net/http"

	"github.com/pharmtrack/pharmtrack-backend/internal/inventory/service"
	"github.com/pharmtrack/pharmtrack-backend/pkg/httputil"
	"github.com/pharmtrack/pharmtrack-backend/pkg/logger"
)

// DashboardHandler serves the dashboard aggregation endpoints
type DashboardHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(svc *service.InventoryService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: svc,
		logger:  log,
	}
}

// Stats returns the inventory summary
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, stats)
}

// Criticality returns all medicines partitioned by attention level
func (h *DashboardHandler) Criticality(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.Criticality(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, report)
}
