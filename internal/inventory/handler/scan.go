package handler

import (
	"net/http"
	"time"

	"github.com/pharmtrack/pharmtrack-backend/internal/barcode"
	"github.com/pharmtrack/pharmtrack-backend/pkg/httputil"
	"github.com/pharmtrack/pharmtrack-backend/pkg/logger"
)

// ScanHandler resolves scanned barcodes into medicine suggestions
type ScanHandler struct {
	resolver *barcode.Resolver
	sessions *barcode.SessionHistories
	logger   *logger.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(resolver *barcode.Resolver, sessions *barcode.SessionHistories, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		resolver: resolver,
		sessions: sessions,
		logger:   log,
	}
}

type scanRequest struct {
	Barcode string `json:"barcode" validate:"required,min=4,max=64"`
}

type scanResponse struct {
	Result      *barcode.Result      `json:"result"`
	Suggestions *barcode.Suggestions `json:"suggestions,omitempty"`
}

// Scan resolves one barcode. Unidentifiable codes are a not_found result,
// not an HTTP error; the dashboard offers manual entry in that case.
func (h *ScanHandler) Scan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}
	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	result := h.resolver.Resolve(r.Context(), req.Barcode)

	resp := scanResponse{Result: result}
	if result.Kind != barcode.ResultNotFound {
		suggestions := barcode.SuggestMedicineData(result.Details)
		resp.Suggestions = &suggestions

		h.sessions.For(httputil.GetSessionID(r.Context())).Add(barcode.ScanEntry{
			Barcode:     req.Barcode,
			Result:      result,
			Suggestions: suggestions,
			ScannedAt:   time.Now().UTC(),
		})
	}

	h.logger.Info().
		Str("barcode", req.Barcode).
		Str("result", string(result.Kind)).
		Msg("barcode scanned")

	httputil.JSON(w, http.StatusOK, resp)
}

// Recent returns the session's remembered scans, newest first
func (h *ScanHandler) Recent(w http.ResponseWriter, r *http.Request) {
	entries := h.sessions.For(httputil.GetSessionID(r.Context())).Recent()
	httputil.JSON(w, http.StatusOK, entries)
}
