// Package quickview lets shoppers preview a product in an overlay from the
// catalog listing without leaving the page.
package quickview

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net/url"

	"golang.org/x/text/message"

	"github.com/ziadkadry99/quickview/internal/audit"
	"github.com/ziadkadry99/quickview/internal/catalog"
	"github.com/ziadkadry99/quickview/internal/hooks"
	"github.com/ziadkadry99/quickview/internal/settings"
	"github.com/ziadkadry99/quickview/internal/storefront"
	"github.com/ziadkadry99/quickview/internal/tmpl"
)

//go:embed templates
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

const (
	// APIName is the wc-api endpoint serving previews.
	APIName = "quick_view"
	// legacyAPIName keeps links built by older releases working.
	legacyAPIName = "WC_Quick_View"

	// EnqueuePriority runs the injector after the host registered its own
	// scripts at the default priority.
	EnqueuePriority = 11

	// ThemeDir is the theme subdirectory that may override the templates.
	ThemeDir = "woocommerce-quick-view"

	// StylePath is where the overlay stylesheet is served.
	StylePath = "/quick-view/assets/style.css"
)

// ErrHostInactive is returned by Register when commerce features are off.
var ErrHostInactive = errors.New("quickview: commerce host is not active")

// Options configures the plugin.
type Options struct {
	TriggerDefault settings.TriggerMode
	Version        string
	Audit          *audit.Store
}

// Plugin is a registered quick view extension.
type Plugin struct {
	// EnqueueAssets fires before the overlay assets are enqueued so other
	// code can add assets they depend on.
	EnqueueAssets *hooks.Action[AssetSink]
	// Selector may replace the click target selector.
	Selector *hooks.Filter[string]
	// LinkArgs may rewrite the query arguments of preview URLs.
	LinkArgs *hooks.ScopedFilter[url.Values, *catalog.Product]

	host      *storefront.Host
	trigger   *settings.Trigger
	urls      *URLBuilder
	injector  *Injector
	renderer  *Renderer
	templates *tmpl.Loader
}

// Register installs quick view on host and panel. Nothing is touched when
// the host has commerce disabled.
func Register(ctx context.Context, host *storefront.Host, panel *settings.Panel, opts Options) (*Plugin, error) {
	if !host.CommerceActive() {
		return nil, ErrHostInactive
	}
	if opts.TriggerDefault == "" {
		opts.TriggerDefault = settings.TriggerButton
	}

	trigger := settings.NewTrigger(host.Options(), opts.Audit)
	if err := trigger.EnsureDefault(ctx, opts.TriggerDefault); err != nil {
		return nil, fmt.Errorf("registering quick view: %w", err)
	}

	templates, _ := fs.Sub(templateFS, "templates")
	sources := []tmpl.Source{{Name: "quick-view", FS: templates}}
	if theme, ok := host.ThemeSource(ThemeDir); ok {
		sources = append(sources, theme)
	}

	p := &Plugin{
		EnqueueAssets: hooks.NewAction[AssetSink]("wc_quick_view_enqueue_scripts"),
		Selector:      hooks.NewFilter[string]("quick_view_selector"),
		LinkArgs:      hooks.NewScopedFilter[url.Values, *catalog.Product]("woocommerce_loop_quick_view_link_args"),
		host:          host,
		trigger:       trigger,
		templates:     host.Templates().Overlay(sources...),
	}
	p.urls = NewURLBuilder(host.HomeURL(), p.LinkArgs)
	p.injector = NewInjector(host, p.urls, p.templates, StylePath, p.EnqueueAssets, p.Selector)
	p.renderer = NewRenderer(host, host.Catalog(), p.templates)

	host.EnqueueScripts.Add(EnqueuePriority, func(page *storefront.Page) {
		p.injector.Inject(page, page.Assets, p.trigger.Mode(page.Context()))
	})
	host.RegisterAPI(APIName, p.renderer.Serve)
	host.RegisterAPI(legacyAPIName, p.renderer.Serve)

	panel.General.Add(hooks.DefaultPriority, func(fields []settings.Field, pr *message.Printer) []settings.Field {
		return append(fields, settings.Contribution(pr)...)
	})

	static, _ := fs.Sub(assetFS, "assets")
	host.Static("/quick-view/assets", static)

	host.AddExtension(storefront.Extension{
		ID:          "woocommerce-quick-view",
		Name:        "Quick View",
		Version:     opts.Version,
		Description: "Let customers quick view products and add them to their cart from a lightbox. Supports variations.",
		Links: []storefront.Link{
			{Label: "Support", URL: "https://docs.woocommerce.com/"},
			{Label: "Docs", URL: "https://docs.woocommerce.com/document/woocommerce-quick-view/"},
		},
		Templates: p.templates,
	})
	return p, nil
}

// URLs returns the preview URL builder.
func (p *Plugin) URLs() *URLBuilder { return p.urls }

// Trigger returns the trigger preference.
func (p *Plugin) Trigger() *settings.Trigger { return p.trigger }

// Templates returns the loader used for quick view templates.
func (p *Plugin) Templates() *tmpl.Loader { return p.templates }
