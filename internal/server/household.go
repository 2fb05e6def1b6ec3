package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/mstannard/houseledger/internal/model"
)

// handleRenewHouseThing replaces a house thing: the old row is soft-deleted
// and the replacement from the body is inserted with the same history id.
func (s *Server) handleRenewHouseThing(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var replacement model.HouseThing
	if !decodeBody(w, r, &replacement) {
		return
	}

	if err := s.store.RenewHouseThing(r.Context(), id, &replacement); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, replacement)
}

// handleHouseThingHistory returns the full replacement chain for a history
// id, soft-deleted predecessors included, oldest first.
func (s *Server) handleHouseThingHistory(w http.ResponseWriter, r *http.Request) {
	historyID, err := uuid.Parse(mux.Vars(r)["historyId"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid history id"})
		return
	}

	things, err := s.store.ListHouseThingHistory(r.Context(), historyID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, things)
}
