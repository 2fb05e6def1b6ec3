package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// crudRoutes registers the five uniform routes every entity shares.
func crudRoutes[T any](r *mux.Router, prefix string,
	create func(context.Context, *T) error,
	get func(context.Context, int64) (*T, error),
	list func(context.Context) ([]T, error),
	update func(context.Context, *T) error,
	soft, hard func(context.Context, int64) error,
	setID func(*T, int64),
) {
	r.HandleFunc(prefix, handleCreate(create)).Methods(http.MethodPost)
	r.HandleFunc(prefix, handleList(list)).Methods(http.MethodGet)
	r.HandleFunc(prefix+"/{id}", handleGet(get)).Methods(http.MethodGet)
	r.HandleFunc(prefix+"/{id}", handleUpdate(update, setID)).Methods(http.MethodPut)
	r.HandleFunc(prefix+"/{id}", handleDelete(soft, hard)).Methods(http.MethodDelete)
}

// pathID extracts and validates the {id} route variable. On failure it
// writes the 400 itself and returns false.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

// The handlers below cover the uniform CRUD surface every entity shares.
// Entities with extra behavior (transactions, house things) add their own
// handlers on top.

func handleCreate[T any](create func(context.Context, *T) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var entity T
		if !decodeBody(w, r, &entity) {
			return
		}
		if err := create(r.Context(), &entity); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, entity)
	}
}

func handleGet[T any](get func(context.Context, int64) (*T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		entity, err := get(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entity)
	}
}

func handleList[T any](list func(context.Context) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entities, err := list(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entities)
	}
}

// handleUpdate decodes the body and forces the entity's id to the one in the
// URL, so the path always wins over the payload.
func handleUpdate[T any](update func(context.Context, *T) error, setID func(*T, int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		var entity T
		if !decodeBody(w, r, &entity) {
			return
		}
		setID(&entity, id)
		if err := update(r.Context(), &entity); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, entity)
	}
}

// handleDelete soft-deletes by default; ?permanent=true removes the row for
// good.
func handleDelete(soft, hard func(context.Context, int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		del := soft
		if r.URL.Query().Get("permanent") == "true" {
			del = hard
		}
		if err := del(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
