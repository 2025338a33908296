package handlers

import (
	"net/http"
	"time"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api/response"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/service"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/validation"
)

// SnapshotHandler handles HTTP requests for stored holdings snapshots.
type SnapshotHandler struct {
	snapshotService *service.SnapshotService
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(snapshotService *service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{
		snapshotService: snapshotService,
	}
}

// TakeSnapshot handles POST requests that store a snapshot immediately,
// outside the cron schedule.
//
// Endpoint: POST /api/snapshots
// Response: 201 Created with array of HoldingsSnapshot, portfolio-wide first
// Error: 500 Internal Server Error if computation or storage fails
func (h *SnapshotHandler) TakeSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshots, err := h.snapshotService.TakeSnapshots(r.Context())
	if err != nil {
		response.RespondServiceError(w, apperrors.ErrFailedToTakeSnapshot.Error(), err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, snapshots)
}

// LatestSnapshot handles GET requests for the most recent snapshot.
//
// Endpoint: GET /api/snapshots/latest
// Query: account_id (omit for the portfolio-wide snapshot)
// Response: 200 OK with HoldingsSnapshot
// Error: 404 Not Found if no snapshot has been taken
func (h *SnapshotHandler) LatestSnapshot(w http.ResponseWriter, r *http.Request) {
	accountID, ok := snapshotAccount(w, r)
	if !ok {
		return
	}

	snapshot, err := h.snapshotService.GetLatestSnapshot(r.Context(), accountID)
	if err != nil {
		response.RespondServiceError(w, "failed to retrieve snapshot", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshot)
}

// SnapshotHistory handles GET requests for snapshots within a time range.
//
// Endpoint: GET /api/snapshots
// Query: account_id, start, end (RFC3339 or YYYY-MM-DD; end defaults to now)
// Response: 200 OK with array of HoldingsSnapshot in chronological order
// Error: 400 Bad Request for malformed parameters or start after end
func (h *SnapshotHandler) SnapshotHistory(w http.ResponseWriter, r *http.Request) {
	accountID, ok := snapshotAccount(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	var start time.Time
	end := time.Now().UTC()
	if raw := q.Get("start"); raw != "" {
		parsed, err := validation.ParseDateTime(raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
			return
		}
		start = parsed
	}
	if raw := q.Get("end"); raw != "" {
		parsed, err := validation.ParseDateTime(raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
			return
		}
		end = parsed
	}
	if start.After(end) {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", "start must not be after end")
		return
	}

	history, err := h.snapshotService.GetSnapshotHistory(r.Context(), accountID, start, end)
	if err != nil {
		response.RespondServiceError(w, "failed to retrieve snapshots", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, history)
}

func snapshotAccount(w http.ResponseWriter, r *http.Request) (string, bool) {
	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		return "", true
	}
	if err := validation.ValidateUUID(accountID); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return "", false
	}
	return accountID, true
}
