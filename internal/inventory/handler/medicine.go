package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pharmtrack/pharmtrack-backend/internal/inventory/classify"
	"github.com/pharmtrack/pharmtrack-backend/internal/inventory/repository"
	"github.com/pharmtrack/pharmtrack-backend/internal/inventory/service"
	"github.com/pharmtrack/pharmtrack-backend/pkg/errors"
	"github.com/pharmtrack/pharmtrack-backend/pkg/httputil"
	"github.com/pharmtrack/pharmtrack-backend/pkg/logger"
)

// MedicineHandler handles medicine endpoints
type MedicineHandler struct {
	service *service.InventoryService
	logger  *logger.Logger
}

// NewMedicineHandler creates a new medicine handler
func NewMedicineHandler(svc *service.InventoryService, log *logger.Logger) *MedicineHandler {
	return &MedicineHandler{
		service: svc,
		logger:  log,
	}
}

// maxUnitPrice is a sanity bound on entered prices
var maxUnitPrice = decimal.NewFromInt(10000)

type medicineRequest struct {
	Name         string          `json:"name" validate:"required,min=2,max=255,medicine_name"`
	CurrentStock int             `json:"current_stock" validate:"gte=0,lte=1000000"`
	ReorderPoint int             `json:"reorder_point" validate:"gte=0,lte=1000000"`
	ExpiryDate   string          `json:"expiry_date" validate:"omitempty"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	BatchNumber  *string         `json:"batch_number" validate:"omitempty,max=50,batch_number"`
	Supplier     *string         `json:"supplier" validate:"omitempty,max=255"`
	Category     *string         `json:"category" validate:"omitempty,max=255"`
	Location     *string         `json:"location" validate:"omitempty,max=255"`
}

// toMedicine validates the request and converts it to a repository model.
// An empty expiry date means the expiry is unknown; a malformed one is an
// error, never treated as expiring today.
func (req *medicineRequest) toMedicine(id string) (*repository.Medicine, error) {
	if err := httputil.Validate(req); err != nil {
		return nil, err
	}
	if req.UnitPrice.IsNegative() || req.UnitPrice.GreaterThan(maxUnitPrice) {
		return nil, errors.BadRequest("unit_price must be between 0 and 10000")
	}

	var expiry *time.Time
	if req.ExpiryDate != "" {
		t, err := classify.ParseExpiry(req.ExpiryDate)
		if err != nil {
			return nil, errors.BadRequest(err.Error())
		}
		expiry = &t
	}

	return &repository.Medicine{
		ID:           id,
		Name:         req.Name,
		CurrentStock: req.CurrentStock,
		ReorderPoint: req.ReorderPoint,
		ExpiryDate:   expiry,
		UnitPrice:    req.UnitPrice,
		BatchNumber:  req.BatchNumber,
		Supplier:     req.Supplier,
		Category:     req.Category,
		Location:     req.Location,
	}, nil
}

// Create adds a new medicine
func (h *MedicineHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req medicineRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	m, err := req.toMedicine("")
	if err != nil {
		httputil.Error(w, err)
		return
	}

	view, err := h.service.CreateMedicine(r.Context(), m)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.Created(w, view)
}

// Get returns a single medicine
func (h *MedicineHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.GetMedicine(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, view)
}

// List returns all medicines
func (h *MedicineHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.ListMedicines(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, views)
}

// Update edits a medicine's descriptive fields
func (h *MedicineHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req medicineRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	m, err := req.toMedicine(chi.URLParam(r, "id"))
	if err != nil {
		httputil.Error(w, err)
		return
	}

	view, err := h.service.UpdateMedicine(r.Context(), m)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, view)
}

// Delete removes a medicine and its stock history
func (h *MedicineHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMedicine(r.Context(), chi.URLParam(r, "id")); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

type updateStockRequest struct {
	NewStock *int   `json:"new_stock" validate:"required,gte=0,lte=1000000"`
	Reason   string `json:"reason" validate:"omitempty,max=500"`
}

type updateStockResponse struct {
	Medicine *service.MedicineView         `json:"medicine"`
	Change   *repository.StockHistoryEntry `json:"change"`
}

// UpdateStock sets a new stock level and records the change
func (h *MedicineHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var req updateStockRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	view, entry, err := h.service.UpdateStock(r.Context(), chi.URLParam(r, "id"), *req.NewStock, req.Reason)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, updateStockResponse{Medicine: view, Change: entry})
}

// LowStock returns medicines at or below their reorder point
func (h *MedicineHandler) LowStock(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.LowStockMedicines(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, views)
}

// Expiring returns medicines expiring within N days (default 30)
func (h *MedicineHandler) Expiring(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	if days <= 0 {
		days = 30
	}

	views, err := h.service.ExpiringMedicines(r.Context(), days)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, views)
}

// Search returns medicines matching a name or category term
func (h *MedicineHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.URL.Query().Get("q")
	if term == "" {
		httputil.Error(w, errors.BadRequest("query parameter 'q' is required"))
		return
	}

	views, err := h.service.SearchMedicines(r.Context(), term)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, views)
}

// History returns stock changes for one medicine
func (h *MedicineHandler) History(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.service.StockHistory(r.Context(), &id, limit)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, entries)
}

// AllHistory returns recent stock changes across the whole inventory
func (h *MedicineHandler) AllHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.service.StockHistory(r.Context(), nil, limit)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, entries)
}

// ReorderSuggestion recommends an order quantity for a medicine
func (h *MedicineHandler) ReorderSuggestion(w http.ResponseWriter, r *http.Request) {
	var avgDailyUsage *float64
	if raw := r.URL.Query().Get("avg_daily_usage"); raw != "" {
		usage, err := strconv.ParseFloat(raw, 64)
		if err != nil || usage < 0 {
			httputil.Error(w, errors.BadRequest("avg_daily_usage must be a non-negative number"))
			return
		}
		avgDailyUsage = &usage
	}

	leadTimeDays, _ := strconv.Atoi(r.URL.Query().Get("lead_time_days"))

	suggestion, err := h.service.SuggestReorder(r.Context(), chi.URLParam(r, "id"), avgDailyUsage, leadTimeDays)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, suggestion)
}
