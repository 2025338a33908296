package handlers

import (
	"net/http"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api/response"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/report"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/service"
)

// HoldingsHandler handles HTTP requests for computed holdings.
type HoldingsHandler struct {
	holdingsService *service.HoldingsService
}

// NewHoldingsHandler creates a new HoldingsHandler.
func NewHoldingsHandler(holdingsService *service.HoldingsService) *HoldingsHandler {
	return &HoldingsHandler{
		holdingsService: holdingsService,
	}
}

// Holdings handles GET requests for valued holding rows and their summary.
//
// Endpoint: GET /api/holdings
// Query: account_id, asset_id (repeatable), asset_type, volatility, consolidated=true
// Response: 200 OK with service.Holdings
// Error: 400 Bad Request for malformed ids or unknown enum values
// Error: 500 Internal Server Error if computation fails
func (h *HoldingsHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	result, ok := h.load(w, r)
	if !ok {
		return
	}
	response.RespondJSON(w, http.StatusOK, result)
}

// Summary handles GET requests for the holdings summary only.
//
// Endpoint: GET /api/holdings/summary
// Query: same as /api/holdings
// Response: 200 OK with model.HoldingsSummary
func (h *HoldingsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	result, ok := h.load(w, r)
	if !ok {
		return
	}
	response.RespondJSON(w, http.StatusOK, result.Summary)
}

// Report handles GET requests for a markdown rendering of the holdings.
//
// Endpoint: GET /api/holdings/report
// Query: same as /api/holdings
// Response: 200 OK with text/markdown
func (h *HoldingsHandler) Report(w http.ResponseWriter, r *http.Request) {
	result, ok := h.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(report.HoldingsMarkdown("Holdings", result.Rows, result.Summary)))
}

func (h *HoldingsHandler) load(w http.ResponseWriter, r *http.Request) (service.Holdings, bool) {
	filter, err := holdingsFilterFromQuery(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return service.Holdings{}, false
	}
	consolidated, err := queryBool(r, "consolidated")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return service.Holdings{}, false
	}

	var result service.Holdings
	if consolidated {
		result, err = h.holdingsService.ConsolidatedHoldings(r.Context(), filter)
	} else {
		result, err = h.holdingsService.ComputeHoldings(r.Context(), filter)
	}
	if err != nil {
		response.RespondServiceError(w, apperrors.ErrFailedToComputeHoldings.Error(), err)
		return service.Holdings{}, false
	}
	if result.Rows == nil {
		result.Rows = []model.HoldingRow{}
	}
	return result, true
}
