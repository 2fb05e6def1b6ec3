package server

import (
	"net/http"
	"strconv"
)

// handleListBalances lists balance snapshots, optionally filtered to one
// account with ?accountId=.
func (s *Server) handleListBalances(w http.ResponseWriter, r *http.Request) {
	var accountID int64
	if raw := r.URL.Query().Get("accountId"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid accountId"})
			return
		}
		accountID = parsed
	}

	balances, err := s.store.ListBalances(r.Context(), accountID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balances)
}
