// Package response provides utilities for sending consistent HTTP responses.
// It includes helpers for JSON responses and standardized error responses.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/apperrors"
	"github.com/ndewijer/Portfolio-Holdings-Tracker/internal/validation"
	"github.com/rs/zerolog/log"
)

// ErrorResponse represents a structured error response returned by the API.
// The Details field is optional and can contain additional context about the error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Sets the Content-Type header to application/json and writes the status code.
// If data is nil, only the status code is sent (useful for 204 No Content).
// Logs encoding errors but does not fail the response.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error().Err(err).Msg("failed to encode JSON response")
		}
	}
}

// RespondError sends a structured error response with the given status code.
// The message should be a user-friendly error description.
// The details parameter can be an error string, additional context, or nil.
//
// Example:
//
//	response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
//	response.RespondError(w, http.StatusNotFound, "resource not found", "")
func RespondError(w http.ResponseWriter, status int, message string, details any) {
	response := ErrorResponse{
		Error:   message,
		Details: details,
	}
	RespondJSON(w, status, response)
}

// RespondServiceError maps an error returned by the service layer to a status
// code and sends it. message is used for errors that map to 500.
//
//   - validation failures and invalid input: 400
//   - missing entities: 404
//   - duplicates and dangling references: 409
//   - anything else: 500
func RespondServiceError(w http.ResponseWriter, message string, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, validation.ErrInvalidUUID),
		errors.Is(err, validation.ErrEmptySlice),
		errors.Is(err, apperrors.ErrInvalidFilter),
		errors.Is(err, apperrors.ErrInvalidTransactionType),
		errors.Is(err, apperrors.ErrInvalidDecimal),
		errors.Is(err, apperrors.ErrNegativePrice),
		errors.Is(err, apperrors.ErrMissingRequiredField):
		RespondError(w, http.StatusBadRequest, "invalid request", err.Error())
	case errors.Is(err, apperrors.ErrAccountNotFound),
		errors.Is(err, apperrors.ErrAssetNotFound),
		errors.Is(err, apperrors.ErrTransactionNotFound),
		errors.Is(err, apperrors.ErrSnapshotNotFound):
		RespondError(w, http.StatusNotFound, rootMessage(err), err.Error())
	case errors.Is(err, apperrors.ErrDuplicateEntry),
		errors.Is(err, apperrors.ErrDataInconsistency):
		RespondError(w, http.StatusConflict, rootMessage(err), err.Error())
	default:
		log.Error().Err(err).Msg(message)
		RespondError(w, http.StatusInternalServerError, message, err.Error())
	}
}

// rootMessage returns the sentinel text for well-known errors so clients get a
// stable "error" field while "details" carries the wrapped context.
func rootMessage(err error) string {
	for _, sentinel := range []error{
		apperrors.ErrAccountNotFound,
		apperrors.ErrAssetNotFound,
		apperrors.ErrTransactionNotFound,
		apperrors.ErrSnapshotNotFound,
		apperrors.ErrDuplicateEntry,
		apperrors.ErrDataInconsistency,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
