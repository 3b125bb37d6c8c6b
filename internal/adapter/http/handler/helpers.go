package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/iho/bookledger/internal/adapter/http/dto"
	"github.com/iho/bookledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrCustomerNotFound),
		errors.Is(err, domain.ErrAgreementNotFound),
		errors.Is(err, domain.ErrEventNotFound),
		errors.Is(err, domain.ErrTypeNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAlreadyProcessed),
		errors.Is(err, domain.ErrAlreadyReversed),
		errors.Is(err, domain.ErrNotProcessed),
		errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusConflict
	case errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrInvalidAmountType),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrAmbiguousAccount),
		errors.Is(err, domain.ErrEntryTypeMismatch),
		errors.Is(err, domain.ErrNoApplicableRule),
		errors.Is(err, domain.ErrInvalidRuleConfiguration),
		errors.Is(err, domain.ErrAdjustmentCycle):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}

	return i
}

// parseTimeQuery parses an RFC 3339 query parameter, nil when absent.
func parseTimeQuery(r *http.Request, key string) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil, err
	}

	return &t, nil
}
