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

// AccountHandler handles HTTP requests for account endpoints.
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// Accounts handles GET requests to list accounts.
//
// Endpoint: GET /api/accounts
// Query: include_archived=true
// Response: 200 OK with array of Account
func (h *AccountHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	includeArchived, err := queryBool(r, "include_archived")
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid query parameters", err.Error())
		return
	}

	accounts, err := h.accountService.GetAccounts(r.Context(), includeArchived)
	if err != nil {
		response.RespondServiceError(w, apperrors.ErrFailedToRetrieveAccounts.Error(), err)
		return
	}

	response.RespondJSON(w, http.StatusOK, accounts)
}

// GetAccount handles GET requests for a single account.
//
// Endpoint: GET /api/accounts/{uuid}
// Response: 200 OK with Account
// Error: 404 Not Found if the account does not exist
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountService.GetAccount(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		response.RespondServiceError(w, "failed to retrieve account", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, account)
}

// CreateAccount handles POST requests to create an account.
//
// Endpoint: POST /api/accounts
// Request Body: CreateAccountRequest
// Response: 201 Created with Account
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if the name is taken
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateAccountRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateAccount(req); err != nil {
		response.RespondServiceError(w, "failed to create account", err)
		return
	}

	account, err := h.accountService.CreateAccount(r.Context(), req)
	if err != nil {
		response.RespondServiceError(w, "failed to create account", err)
		return
	}

	response.RespondJSON(w, http.StatusCreated, account)
}

// ArchiveAccount handles PUT requests that archive or unarchive an account.
// Archived accounts keep their holdings; they are only hidden from lists.
//
// Endpoint: PUT /api/accounts/{uuid}/archive
// Request Body: ArchiveAccountRequest
// Response: 200 OK with Account
func (h *AccountHandler) ArchiveAccount(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.ArchiveAccountRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateArchiveAccount(req); err != nil {
		response.RespondServiceError(w, "failed to archive account", err)
		return
	}

	account, err := h.accountService.SetArchived(r.Context(), chi.URLParam(r, "uuid"), *req.IsArchived)
	if err != nil {
		response.RespondServiceError(w, "failed to archive account", err)
		return
	}

	response.RespondJSON(w, http.StatusOK, account)
}
