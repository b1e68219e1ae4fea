package audit

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// maxPageSize caps the number of entries a single listing returns.
const maxPageSize = 200

// RegisterRoutes mounts the audit trail under /api/admin/audit.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/api/admin/audit", func(r chi.Router) {
		r.Get("/", handleList(store))
		r.Get("/options/{name}", handleOptionHistory(store))
		r.Get("/{id}", handleGetByID(store))
	})
}

// parseFilter reads list parameters. Malformed values are rejected rather
// than ignored so a typo never widens the result set.
func parseFilter(r *http.Request) (QueryFilter, error) {
	q := r.URL.Query()
	filter := QueryFilter{
		ActorType: ActorType(q.Get("actor_type")),
		ActorID:   q.Get("actor"),
		Scope:     Scope(q.Get("scope")),
		ScopeID:   q.Get("scope_id"),
		Action:    Action(q.Get("action")),
		Limit:     50,
	}

	if v := q.Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return filter, fmt.Errorf("since must be an RFC 3339 time")
		}
		filter.Since = &t
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return filter, fmt.Errorf("limit must be a positive integer")
		}
		filter.Limit = min(n, maxPageSize)
	}
	if v := q.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, fmt.Errorf("offset must be a non-negative integer")
		}
		filter.Offset = n
	}
	return filter, nil
}

func handleList(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFilter(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeEntries(w, r, store, filter)
	}
}

// handleOptionHistory lists the changes made to one storefront option,
// such as quick_view_trigger.
func handleOptionHistory(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, err := parseFilter(r)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		filter.Scope = ScopeOption
		filter.ScopeID = chi.URLParam(r, "name")
		writeEntries(w, r, store, filter)
	}
}

func writeEntries(w http.ResponseWriter, r *http.Request, store *Store, filter QueryFilter) {
	entries, err := store.Query(r.Context(), filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func handleGetByID(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entry, err := store.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if entry == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "audit entry not found"})
			return
		}
		writeJSON(w, http.StatusOK, entry)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
