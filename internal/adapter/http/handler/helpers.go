package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/finbooks/erpledger/internal/adapter/http/dto"
	"github.com/finbooks/erpledger/internal/domain"
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
		errors.Is(err, domain.ErrTransactionNotFound),
		errors.Is(err, domain.ErrPeriodNotFound),
		errors.Is(err, domain.ErrSequenceNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrClosedPeriod):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDuplicateCode):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnbalancedTransaction),
		errors.Is(err, domain.ErrNoEntries),
		errors.Is(err, domain.ErrMissingAccountCode),
		errors.Is(err, domain.ErrNonPositiveAmount),
		errors.Is(err, domain.ErrInvalidEntryType),
		errors.Is(err, domain.ErrInvalidPeriodRange):
		return http.StatusBadRequest
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

// parseDateQuery parses a required YYYY-MM-DD query parameter, writing
// the error response itself when the parameter is missing or malformed.
func parseDateQuery(w http.ResponseWriter, r *http.Request, key string) (time.Time, bool) {
	val := r.URL.Query().Get(key)
	if val == "" {
		writeError(w, http.StatusBadRequest, "missing '"+key+"' parameter", "")
		return time.Time{}, false
	}

	parsed, err := dto.ParseDate(val)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid '"+key+"' parameter", err.Error())
		return time.Time{}, false
	}

	return parsed, true
}
