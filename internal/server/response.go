package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mstannard/houseledger/internal/common"
	"github.com/mstannard/houseledger/internal/storage"
)

// errorResponse is the uniform error payload. Fields is only populated for
// validation failures and maps field names to messages.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			slog.Error("failed to encode response", "error", err)
		}
	}
}

// writeError maps business errors onto HTTP status codes. Validation
// failures, unknown accounts, and duplicates are client errors; a missing
// URL-addressed resource is a 404; anything else is a 500 and gets logged.
func writeError(w http.ResponseWriter, err error) {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, common.ErrAccountNotFound),
		errors.Is(err, common.ErrDuplicateTransaction),
		errors.Is(err, common.ErrDuplicateEntry),
		errors.Is(err, storage.ErrEmptyString),
		errors.Is(err, storage.ErrInvalidID),
		errors.Is(err, storage.ErrNilParameter),
		errors.Is(err, storage.ErrInvalidTransaction):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, common.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	default:
		slog.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
