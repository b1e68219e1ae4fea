// Package storefront is the shop host that extensions plug into. It owns
// the catalog pages, template resolution with theme overrides, per-page
// asset registries and the wc-api endpoint dispatcher.
package storefront

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/ziadkadry99/quickview/internal/assets"
	"github.com/ziadkadry99/quickview/internal/catalog"
	"github.com/ziadkadry99/quickview/internal/hooks"
	"github.com/ziadkadry99/quickview/internal/options"
	"github.com/ziadkadry99/quickview/internal/tmpl"
)

//go:embed templates
var templateFS embed.FS

// Config holds host settings.
type Config struct {
	HomeURL        string // absolute URL of the shop root, "http://localhost:8080/"
	AssetsURL      string // base URL of the bundled front-end libraries
	Version        string // appended to asset URLs
	CurrencySymbol string
	Enabled        bool   // commerce features active
	AjaxAddToCart  bool   // initial value of the ajax add-to-cart option
	ThemeDir       string // optional directory holding theme overrides
	DevTemplates   bool   // re-read templates on every render
}

// APIHandler serves a wc-api endpoint. The page it receives has no
// enqueue, header or footer stages run on it.
type APIHandler func(page *Page) Response

// Link is a labelled URL shown next to an extension. Label is a message key
// translated when the list is served.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Extension describes an installed extension.
type Extension struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Version     string       `json:"version"`
	Description string       `json:"description"`
	Links       []Link       `json:"links"`
	Templates   *tmpl.Loader `json:"-"`
}

type staticMount struct {
	prefix string
	fsys   fs.FS
}

// Host is the storefront.
type Host struct {
	cfg       Config
	catalog   *catalog.Store
	options   *options.Store
	templates *tmpl.Loader

	// EnqueueScripts fires once per storefront page before the body is
	// rendered. The host registers its own assets at the default priority.
	EnqueueScripts *hooks.Action[*Page]

	mu         sync.RWMutex
	apis       map[string]APIHandler
	extensions []Extension
	static     []staticMount
}

// New creates a host. Theme overrides for host templates are read from
// <ThemeDir>/woocommerce.
func New(cfg Config, catalogStore *catalog.Store, opts *options.Store) *Host {
	if cfg.HomeURL == "" {
		cfg.HomeURL = "/"
	}
	if !strings.HasSuffix(cfg.HomeURL, "/") {
		cfg.HomeURL += "/"
	}
	cfg.AssetsURL = strings.TrimSuffix(cfg.AssetsURL, "/")

	embedded, _ := fs.Sub(templateFS, "templates")
	sources := []tmpl.Source{{Name: "storefront", FS: embedded}}
	if theme, ok := themeSource(cfg.ThemeDir, "woocommerce"); ok {
		sources = append([]tmpl.Source{theme}, sources...)
	}

	h := &Host{
		cfg:            cfg,
		catalog:        catalogStore,
		options:        opts,
		templates:      tmpl.NewLoader(nil, !cfg.DevTemplates, sources...),
		EnqueueScripts: hooks.NewAction[*Page]("wp_enqueue_scripts"),
		apis:           make(map[string]APIHandler),
	}
	h.EnqueueScripts.Add(hooks.DefaultPriority, h.enqueueHostAssets)
	return h
}

func themeSource(themeDir, sub string) (tmpl.Source, bool) {
	if themeDir == "" {
		return tmpl.Source{}, false
	}
	return tmpl.DirSource("theme", filepath.Join(themeDir, sub)), true
}

// Init stores option defaults the host relies on.
func (h *Host) Init(ctx context.Context) error {
	def := "no"
	if h.cfg.AjaxAddToCart {
		def = "yes"
	}
	if _, err := h.options.Add(ctx, options.AjaxAddToCart, def); err != nil {
		return fmt.Errorf("initialising storefront options: %w", err)
	}
	return nil
}

// CommerceActive reports whether commerce features are enabled.
func (h *Host) CommerceActive() bool { return h.cfg.Enabled }

// Version returns the host version used for asset cache busting.
func (h *Host) Version() string { return h.cfg.Version }

// AssetURL returns the URL of a bundled front-end asset.
func (h *Host) AssetURL(path string) string {
	return h.cfg.AssetsURL + "/" + strings.TrimPrefix(path, "/")
}

// HomeURL returns the shop root URL, always ending in a slash.
func (h *Host) HomeURL() string { return h.cfg.HomeURL }

// ProductURL returns the permalink of p.
func (h *Host) ProductURL(p *catalog.Product) string {
	return h.cfg.HomeURL + "product/" + strconv.FormatInt(p.ID, 10)
}

// Catalog returns the product store.
func (h *Host) Catalog() *catalog.Store { return h.catalog }

// Options returns the options store.
func (h *Host) Options() *options.Store { return h.options }

// Templates returns the loader for host templates.
func (h *Host) Templates() *tmpl.Loader { return h.templates }

// ThemeSource returns the theme override directory for an extension.
func (h *Host) ThemeSource(sub string) (tmpl.Source, bool) {
	return themeSource(h.cfg.ThemeDir, sub)
}

// RegisterAPI routes /?wc-api=name and /wc-api/name to fn. Names are
// case-insensitive.
func (h *Host) RegisterAPI(name string, fn APIHandler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.apis[strings.ToLower(name)] = fn
}

// API returns the handler registered under name.
func (h *Host) API(name string) (APIHandler, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	fn, ok := h.apis[strings.ToLower(name)]
	return fn, ok
}

// AddExtension publishes extension metadata.
func (h *Host) AddExtension(ext Extension) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.extensions = append(h.extensions, ext)
}

// Extensions returns the installed extensions.
func (h *Host) Extensions() []Extension {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]Extension(nil), h.extensions...)
}

// Static serves fsys under prefix. Mounts must be added before
// RegisterRoutes is called.
func (h *Host) Static(prefix string, fsys fs.FS) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.static = append(h.static, staticMount{prefix: "/" + strings.Trim(prefix, "/") + "/", fsys: fsys})
}

// AddQueryArgs returns base with args merged into its query string.
func AddQueryArgs(base string, args url.Values) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	for k, vs := range args {
		q.Del(k)
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func (h *Host) enqueueHostAssets(page *Page) {
	page.Assets.RegisterScript(assets.Script{
		Handle:  "jquery",
		Src:     h.AssetURL("js/jquery/jquery.min.js"),
		Version: h.cfg.Version,
	})
	page.Assets.RegisterScript(assets.Script{
		Handle:  "wc-add-to-cart-variation",
		Src:     h.AssetURL("js/frontend/add-to-cart-variation.min.js"),
		Deps:    []string{"jquery"},
		Version: h.cfg.Version,
	})
	page.Assets.EnqueueScript(assets.Script{Handle: "jquery"})
	if page.AjaxAddToCart {
		page.Assets.EnqueueScript(assets.Script{
			Handle:  "wc-add-to-cart",
			Src:     h.AssetURL("js/frontend/add-to-cart.min.js"),
			Deps:    []string{"jquery"},
			Version: h.cfg.Version,
		})
	}
	page.Assets.EnqueueStyle(assets.Style{
		Handle:  "woocommerce-general",
		Src:     h.AssetURL("css/woocommerce.css"),
		Version: h.cfg.Version,
	})
}
