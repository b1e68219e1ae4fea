package storefront

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/quickview/internal/catalog"
	"github.com/ziadkadry99/quickview/internal/i18n"
	"github.com/ziadkadry99/quickview/internal/tmpl"
)

// RegisterRoutes mounts the shop pages, the wc-api dispatcher, extension
// static files and the admin listing endpoints.
func (h *Host) RegisterRoutes(r chi.Router) {
	r.Get("/", h.handleHome)
	r.Get("/shop", h.handleShop)
	r.Get("/product/{id}", h.handleProduct)
	r.HandleFunc("/wc-api/{name}", func(w http.ResponseWriter, r *http.Request) {
		h.dispatchAPI(w, r, chi.URLParam(r, "name"))
	})

	h.mu.RLock()
	for _, m := range h.static {
		r.Handle(m.prefix+"*", http.StripPrefix(m.prefix, http.FileServer(http.FS(m.fsys))))
	}
	h.mu.RUnlock()

	r.Get("/api/admin/extensions", h.handleExtensions)
	r.Get("/api/admin/templates", h.handleTemplates)
}

func (h *Host) handleHome(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("wc-api"); name != "" {
		h.dispatchAPI(w, r, name)
		return
	}
	h.handleShop(w, r)
}

func (h *Host) dispatchAPI(w http.ResponseWriter, r *http.Request, name string) {
	fn, ok := h.API(name)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("-1"))
		return
	}

	page, err := h.NewPage(r)
	if err != nil {
		writeResponse(w, r, Failure{Status: http.StatusInternalServerError, Err: err})
		return
	}
	writeResponse(w, r, fn(page))
}

type shopItem struct {
	*ProductView
	After template.HTML
}

type shopData struct {
	Title string
	Items []shopItem
	Page  *Page
}

// T translates a message key into the page language.
func (d shopData) T(key string) string { return d.Page.Printer.Sprintf(key) }

func (h *Host) handleShop(w http.ResponseWriter, r *http.Request) {
	page, err := h.NewPage(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.renderDocument(w, page, page.Printer.Sprintf("Shop"), func() (template.HTML, error) {
		products, err := h.catalog.List(r.Context(), catalog.ListFilter{})
		if err != nil {
			return "", err
		}

		data := shopData{Title: page.Printer.Sprintf("Shop"), Page: page}
		for i := range products {
			p := &products[i]
			view, err := h.ProductView(page, p)
			if err != nil {
				return "", err
			}
			item := &LoopItem{Page: page, Product: p}
			page.AfterShopLoopItem.Do(item)
			data.Items = append(data.Items, shopItem{ProductView: view, After: item.HTML()})
		}
		return h.renderHTML("shop.html", data)
	})
}

func (h *Host) handleProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return
	}
	p, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if p == nil {
		http.NotFound(w, r)
		return
	}

	page, err := h.NewPage(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.renderDocument(w, page, p.Name, func() (template.HTML, error) {
		view, err := h.ProductView(page, p)
		if err != nil {
			return "", err
		}
		return h.renderHTML("single-product.html", view)
	})
}

type layoutData struct {
	Title   string
	Lang    string
	HomeURL string
	Styles  template.HTML
	Scripts template.HTML
	Body    template.HTML
}

// renderDocument runs the full page lifecycle: enqueue stage, body, then
// the layout with the page's asset tags in header and footer.
func (h *Host) renderDocument(w http.ResponseWriter, page *Page, title string, body func() (template.HTML, error)) {
	r := page.Request

	h.EnqueueScripts.Do(page)

	content, err := body()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	styles, err := page.Assets.StyleTags()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	scripts, err := page.Assets.ScriptTags()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	out, err := h.renderHTML("layout.html", layoutData{
		Title:   title,
		Lang:    page.Lang.String(),
		HomeURL: h.cfg.HomeURL,
		Styles:  styles,
		Scripts: scripts,
		Body:    content,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(out))
}

func (h *Host) renderHTML(name string, data any) (template.HTML, error) {
	var buf bytes.Buffer
	if err := h.templates.Render(&buf, name, data); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func (h *Host) fail(w http.ResponseWriter, r *http.Request, err error) {
	slog.ErrorContext(r.Context(), "storefront request failed", "path", r.URL.Path, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (h *Host) handleExtensions(w http.ResponseWriter, r *http.Request) {
	p := i18n.Printer(i18n.Match(r.Header.Get("Accept-Language")))

	exts := h.Extensions()
	for i := range exts {
		links := make([]Link, len(exts[i].Links))
		for j, l := range exts[i].Links {
			links[j] = Link{Label: p.Sprintf(l.Label), URL: l.URL}
		}
		exts[i].Links = links
	}
	if exts == nil {
		exts = []Extension{}
	}
	writeJSON(w, http.StatusOK, exts)
}

func (h *Host) handleTemplates(w http.ResponseWriter, r *http.Request) {
	sets := map[string]*tmpl.Loader{"storefront": h.templates}
	for _, ext := range h.Extensions() {
		if ext.Templates != nil {
			sets[ext.ID] = ext.Templates
		}
	}

	out := make(map[string][]tmpl.Entry, len(sets))
	for name, loader := range sets {
		entries, err := loader.Entries()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": fmt.Sprintf("%s: %v", name, err)})
			return
		}
		out[name] = entries
	}
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
