package storefront

import (
	"html/template"
	"log/slog"
	"net/http"
)

// Response is the result of a wc-api handler.
type Response interface {
	isResponse()
}

// Fragment is bare markup written as the whole response body. No page
// stages run around it.
type Fragment struct {
	HTML template.HTML
}

// Empty ends the request with an empty body.
type Empty struct{}

// Failure ends the request with an error status.
type Failure struct {
	Status int
	Err    error
}

func (Fragment) isResponse() {}
func (Empty) isResponse()    {}
func (Failure) isResponse()  {}

func writeResponse(w http.ResponseWriter, r *http.Request, resp Response) {
	switch v := resp.(type) {
	case Fragment:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(v.HTML))
	case Failure:
		status := v.Status
		if status == 0 {
			status = http.StatusInternalServerError
		}
		slog.ErrorContext(r.Context(), "wc-api request failed", "path", r.URL.Path, "status", status, "error", v.Err)
		http.Error(w, http.StatusText(status), status)
	default:
		w.WriteHeader(http.StatusOK)
	}
}
