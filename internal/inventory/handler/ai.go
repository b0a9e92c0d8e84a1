package handler

import (
	"net/http"

	"github.com/pharmtrack/pharmtrack-backend/internal/ai"
	"github.com/pharmtrack/pharmtrack-backend/internal/inventory/service"
	"github.com/pharmtrack/pharmtrack-backend/pkg/httputil"
	"github.com/pharmtrack/pharmtrack-backend/pkg/logger"
)

// AIHandler serves the AI insight endpoints
type AIHandler struct {
	insights *ai.InsightService
	service  *service.InventoryService
	logger   *logger.Logger
}

// NewAIHandler creates a new AI handler
func NewAIHandler(insights *ai.InsightService, svc *service.InventoryService, log *logger.Logger) *AIHandler {
	return &AIHandler{
		insights: insights,
		service:  svc,
		logger:   log,
	}
}

type insightResponse struct {
	Insight string `json:"insight"`
}

type medicineInfoRequest struct {
	MedicineName string `json:"medicine_name" validate:"required,max=255,medicine_name"`
}

// MedicineInfo returns reference information about a medicine
func (h *AIHandler) MedicineInfo(w http.ResponseWriter, r *http.Request) {
	var req medicineInfoRequest
	if err := decodeAndValidate(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	insight, err := h.insights.MedicineInfo(r.Context(), req.MedicineName)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, insightResponse{Insight: insight})
}

type interactionsRequest struct {
	Medications []string `json:"medications" validate:"required,min=2,max=20,dive,required,max=255"`
}

// Interactions analyzes a medication list for drug interactions
func (h *AIHandler) Interactions(w http.ResponseWriter, r *http.Request) {
	var req interactionsRequest
	if err := decodeAndValidate(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	insight, err := h.insights.DrugInteractions(r.Context(), req.Medications)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, insightResponse{Insight: insight})
}

// Recommendations asks the model for stocking advice over the current inventory
func (h *AIHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListMedicines(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	items := make([]ai.InventoryItem, 0, len(views))
	for _, v := range views {
		item := ai.InventoryItem{
			Name:         v.Name,
			CurrentStock: v.CurrentStock,
			ReorderPoint: v.ReorderPoint,
			UnitPrice:    v.UnitPrice.String(),
		}
		if v.Category != nil {
			item.Category = *v.Category
		}
		if v.Supplier != nil {
			item.Supplier = *v.Supplier
		}
		items = append(items, item)
	}

	insight, err := h.insights.InventoryRecommendations(r.Context(), items)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, insightResponse{Insight: insight})
}

// Trends analyzes recent stock history and forecasts demand
func (h *AIHandler) Trends(w http.ResponseWriter, r *http.Request) {
	history, err := h.service.StockHistory(r.Context(), nil, 100)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	insight, err := h.insights.TrendAnalysis(r.Context(), history)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, insightResponse{Insight: insight})
}

type alternativesRequest struct {
	MedicineName string `json:"medicine_name" validate:"required,max=255,medicine_name"`
	Reason       string `json:"reason" validate:"omitempty,max=255"`
}

// Alternatives suggests substitute medicines
func (h *AIHandler) Alternatives(w http.ResponseWriter, r *http.Request) {
	var req alternativesRequest
	if err := decodeAndValidate(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	insight, err := h.insights.MedicineAlternatives(r.Context(), req.MedicineName, req.Reason)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, insightResponse{Insight: insight})
}

func decodeAndValidate(r *http.Request, v interface{}) error {
	if err := httputil.DecodeJSON(r, v); err != nil {
		return err
	}
	return httputil.Validate(v)
}
