package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api/request"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api/response"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/service"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/validation"
)

// AssetHandler handles HTTP requests for asset endpoints.
type AssetHandler struct {
	assetService *service.AssetService
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetService *service.AssetService) *AssetHandler {
	return &AssetHandler{
		assetService: assetService,
	}
}

// Assets handles GET requests to list assets with their resolved prices.
//
// Endpoint: GET /api/assets
// Query: asset_id (repeatable), asset_type, volatility
// Response: 200 OK with array of AssetWithQuote
func (h *AssetHandler) Assets(w http.ResponseWriter, r *http.Request) {
	filter, err := holdingsFilterFromQuery(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	assets, err := h.assetService.GetAssets(r.Context(), filter.AssetFilter())
	if err != nil {
		response.RespondServiceError(w, apperrors.ErrFailedToRetrieveAssets.Error(), err)
		return
	}

	response.RespondJSON(w, http.StatusOK, assets)
}

// GetAsset handles GET requests for one asset and its resolved price.
//
// Endpoint: GET /api/assets/{uuid}
// Response: 200 OK with AssetWithQuote
// Error: 404 Not Found if the asset does not exist
func (h *AssetHandler) GetAsset(w http.ResponseWriter, r *http.Request) {
	asset, err := h.assetService.GetAsset(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		response.RespondServiceError(w, "failed to retrieve asset", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, asset)
}

// CreateAsset handles POST requests to register an asset.
//
// Endpoint: POST /api/assets
// Request Body: CreateAssetRequest
// Response: 201 Created with Asset
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if the symbol already exists
func (h *AssetHandler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateAssetRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateAsset(req); err != nil {
		response.RespondServiceError(w, "failed to create asset", err)
		return
	}

	asset, err := h.assetService.CreateAsset(r.Context(), req)
	if err != nil {
		response.RespondServiceError(w, "failed to create asset", err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, asset)
}

// SetManualPrice handles PUT requests that set the pricing mode and the
// operator price of an asset. A null manualPrice clears it.
//
// Endpoint: PUT /api/assets/{uuid}/manual-price
// Request Body: SetManualPriceRequest
// Response: 200 OK with AssetWithQuote
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the asset does not exist
func (h *AssetHandler) SetManualPrice(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SetManualPriceRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSetManualPrice(req); err != nil {
		response.RespondServiceError(w, "failed to set manual price", err)
		return
	}

	asset, err := h.assetService.SetManualPrice(r.Context(), chi.URLParam(r, "uuid"), req)
	if err != nil {
		response.RespondServiceError(w, "failed to set manual price", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, asset)
}

// RecordPrice handles POST requests that append a fetched price record.
//
// Endpoint: POST /api/assets/{uuid}/prices
// Request Body: RecordPriceRequest
// Response: 201 Created with PriceRecord
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the asset does not exist
func (h *AssetHandler) RecordPrice(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.RecordPriceRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateRecordPrice(req); err != nil {
		response.RespondServiceError(w, "failed to record price", err)
		return
	}

	record, err := h.assetService.RecordPrice(r.Context(), chi.URLParam(r, "uuid"), req)
	if err != nil {
		response.RespondServiceError(w, "failed to record price", err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, record)
}

