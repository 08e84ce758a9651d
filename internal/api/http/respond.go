package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"sarpras-backend/internal/domain"
	"sarpras-backend/internal/logger"
	"sarpras-backend/internal/service"
)

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

// respondError maps domain errors onto HTTP statuses. The typed stock and
// state errors carry their figures through so clients can render them.
func respondError(w http.ResponseWriter, err error) {
	var (
		validationErr *domain.ValidationError
		stockErr      *domain.StockInsufficientError
		stateErr      *domain.InvalidStateError
		qtyErr        *domain.QuantityMismatchError
	)

	switch {
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusBadRequest, errorBody{Error: validationErr.Error(), Code: "VALIDATION"})
	case errors.As(err, &qtyErr):
		respondJSON(w, http.StatusBadRequest, errorBody{Error: qtyErr.Error(), Code: "QUANTITY_MISMATCH"})
	case errors.As(err, &stockErr):
		respondJSON(w, http.StatusConflict, errorBody{Error: stockErr.Error(), Code: "STOCK_INSUFFICIENT"})
	case errors.As(err, &stateErr):
		respondJSON(w, http.StatusConflict, errorBody{Error: stateErr.Error(), Code: "INVALID_STATE"})
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, domain.ErrForbidden):
		respondJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
	case errors.Is(err, service.ErrInvalidCredentials):
		respondJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
	default:
		logger.Error("Internal error", "error", err)
		respondJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &domain.ValidationError{Field: "body", Reason: "malformed JSON"}
	}
	return nil
}
