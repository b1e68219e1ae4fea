package settings

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/quickview/internal/audit"
	"github.com/ziadkadry99/quickview/internal/i18n"
)

// RegisterRoutes mounts the settings endpoints under /api/admin/settings.
func RegisterRoutes(r chi.Router, panel *Panel) {
	r.Route("/api/admin/settings", func(r chi.Router) {
		r.Get("/general", handleGet(panel))
		r.Post("/general", handleSave(panel))
	})
}

type pageResponse struct {
	Fields []Field           `json:"fields"`
	Values map[string]string `json:"values"`
}

func handleGet(panel *Panel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p := i18n.Printer(i18n.Match(r.Header.Get("Accept-Language")))
		fields := panel.Fields(p)

		values, err := panel.Values(r.Context(), fields)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, pageResponse{Fields: fields, Values: values})
	}
}

func handleSave(panel *Panel) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var values map[string]string
		if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
			return
		}

		actorID := r.Header.Get("X-Actor-ID")
		if actorID == "" {
			actorID = "admin"
		}
		p := i18n.Printer(i18n.Match(r.Header.Get("Accept-Language")))

		changed, err := panel.Save(r.Context(), audit.ActorUser, actorID, p, values)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Error()})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if changed == nil {
			changed = []string{}
		}

		writeJSON(w, http.StatusOK, map[string][]string{"changed": changed})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
