package handlers

import (
	"net/http"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api/request"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api/response"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/service"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/validation"
)

// SettingsHandler handles HTTP requests for app-level settings.
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// Settings handles GET requests for the effective settings.
//
// Endpoint: GET /api/settings
// Response: 200 OK with Settings
func (h *SettingsHandler) Settings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.GetSettings(r.Context())
	if err != nil {
		response.RespondServiceError(w, apperrors.ErrFailedToRetrieveSettings.Error(), err)
		return
	}

	response.RespondJSON(w, http.StatusOK, settings)
}

// UpdateSettings handles PUT requests that change one or more settings.
//
// Endpoint: PUT /api/settings
// Request Body: UpdateSettingsRequest (all fields optional)
// Response: 200 OK with the effective Settings
// Error: 400 Bad Request if validation fails
func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateSettingsRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateSettings(req); err != nil {
		response.RespondServiceError(w, "failed to update settings", err)
		return
	}

	settings, err := h.settingsService.UpdateSettings(r.Context(), req)
	if err != nil {
		response.RespondServiceError(w, "failed to update settings", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, settings)
}
