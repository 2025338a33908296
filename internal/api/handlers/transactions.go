package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api/request"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/api/response"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/model"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/service"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/validation"
)

// TransactionHandler handles HTTP requests for transaction endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the transactionService.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// Transactions handles GET requests to list ledger transactions in replay order.
//
// Endpoint: GET /api/transactions
// Query: account_id, asset_id (repeatable), type (repeatable), asset_type, volatility
// Response: 200 OK with array of TransactionResponse
// Error: 400 Bad Request for malformed ids or unknown types
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	holdingsFilter, err := holdingsFilterFromQuery(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	filter := model.TransactionFilter{
		AccountIDs:       holdingsFilter.AccountIDs,
		AssetIDs:         holdingsFilter.AssetIDs,
		AssetType:        holdingsFilter.AssetType,
		VolatilityBucket: holdingsFilter.VolatilityBucket,
	}
	for _, raw := range queryList(r, "type") {
		txType, err := model.ParseTxType(raw)
		if err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
			return
		}
		filter.Types = append(filter.Types, txType)
	}

	transactions, err := h.transactionService.GetTransactions(r.Context(), filter)
	if err != nil {
		response.RespondServiceError(w, apperrors.ErrFailedToRetrieveTransactions.Error(), err)
		return
	}
	if transactions == nil {
		transactions = []model.TransactionResponse{}
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// GetTransaction handles GET requests to retrieve a single transaction by ID.
//
// Endpoint: GET /api/transactions/{uuid}
// Response: 200 OK with TransactionResponse
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware)
// Error: 404 Not Found if transaction not found
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	transaction, err := h.transactionService.GetTransaction(r.Context(), transactionID)
	if err != nil {
		response.RespondServiceError(w, "failed to retrieve transaction", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// CreateTransaction handles POST requests to append a transaction to the ledger.
//
// Endpoint: POST /api/transactions
// Request Body: CreateTransactionRequest
// Response: 201 Created with Transaction
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the account or asset does not exist
// Error: 500 Internal Server Error if creation fails
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	req.Type = strings.ToUpper(strings.TrimSpace(req.Type))

	if err := validation.ValidateCreateTransaction(req); err != nil {
		response.RespondServiceError(w, "failed to create transaction", err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(r.Context(), req)
	if err != nil {
		response.RespondServiceError(w, "failed to create transaction", err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// DeleteTransaction handles DELETE requests to remove a transaction.
//
// Endpoint: DELETE /api/transactions/{uuid}
// Response: 204 No Content
// Error: 404 Not Found if transaction not found
// Error: 500 Internal Server Error if deletion fails
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	if err := h.transactionService.DeleteTransaction(r.Context(), transactionID); err != nil {
		response.RespondServiceError(w, "failed to delete transaction", err)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
