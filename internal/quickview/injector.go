package quickview

import (
	"bytes"
	"html/template"
	"log/slog"

	"github.com/ziadkadry99/quickview/internal/assets"
	"github.com/ziadkadry99/quickview/internal/catalog"
	"github.com/ziadkadry99/quickview/internal/hooks"
	"github.com/ziadkadry99/quickview/internal/settings"
	"github.com/ziadkadry99/quickview/internal/storefront"
	"github.com/ziadkadry99/quickview/internal/tmpl"
)

// Click target selectors.
const (
	SelectorButton    = "a.quick-view-button"
	SelectorNonAjax   = ".product a.button:not(.add_to_cart_button):not(.ajax_add_to_cart)"
	SelectorAnyButton = ".product a.button"
)

const (
	// ButtonPriority places the button before other after-item content.
	ButtonPriority = 5
	// LateRewritePriority is used for bundle and composite URLs, which
	// their own extensions filter at the default priority.
	LateRewritePriority = 11
)

// AssetSink receives the assets the injector needs on a page.
type AssetSink interface {
	EnqueueScript(s assets.Script)
	EnqueueStyle(s assets.Style)
	AddInlineScript(handle, code string)
}

// jsQueue is implemented by sinks that collect page-ready code into a
// single block.
type jsQueue interface {
	EnqueueJS(code string)
}

// Injector adds the overlay assets, trigger wiring and behaviour script to
// storefront pages.
type Injector struct {
	host      *storefront.Host
	urls      *URLBuilder
	templates *tmpl.Loader
	styleURL  string

	enqueueAssets *hooks.Action[AssetSink]
	selector      *hooks.Filter[string]
}

// NewInjector creates an injector. enqueueAssets fires before any asset is
// enqueued and selector may replace the click target selector.
func NewInjector(host *storefront.Host, urls *URLBuilder, templates *tmpl.Loader, styleURL string,
	enqueueAssets *hooks.Action[AssetSink], selector *hooks.Filter[string]) *Injector {
	return &Injector{
		host:          host,
		urls:          urls,
		templates:     templates,
		styleURL:      styleURL,
		enqueueAssets: enqueueAssets,
		selector:      selector,
	}
}

// Inject prepares page for mode and returns the selector that opens the
// overlay.
func (in *Injector) Inject(page *storefront.Page, sink AssetSink, mode settings.TriggerMode) string {
	in.enqueueAssets.Do(sink)

	version := in.host.Version()
	for _, s := range []assets.Script{
		{Handle: "prettyPhoto", Src: in.host.AssetURL("js/prettyPhoto/jquery.prettyPhoto.min.js")},
		{Handle: "flexslider", Src: in.host.AssetURL("js/flexslider/jquery.flexslider.min.js")},
		{Handle: "zoom", Src: in.host.AssetURL("js/zoom/jquery.zoom.min.js")},
	} {
		s.Deps = []string{"jquery"}
		s.Version = version
		sink.EnqueueScript(s)
	}
	sink.EnqueueScript(assets.Script{Handle: "wc-add-to-cart-variation"})
	sink.EnqueueStyle(assets.Style{
		Handle:  "woocommerce_prettyPhoto_css",
		Src:     in.host.AssetURL("css/prettyPhoto.css"),
		Version: version,
	})
	sink.EnqueueStyle(assets.Style{Handle: "wc_quick_view", Src: in.styleURL})

	var selector string
	switch mode {
	case settings.TriggerNonAjax:
		if page.AjaxAddToCart {
			selector = SelectorNonAjax
		} else {
			selector = SelectorAnyButton
			in.rewriteAddToCartURLs(page)
		}
	default:
		selector = SelectorButton
		page.AfterShopLoopItem.Add(ButtonPriority, in.button)
	}
	selector = in.selector.Apply(selector)

	js := BehaviourScript(selector)
	if q, ok := sink.(jsQueue); ok {
		q.EnqueueJS(js)
	} else {
		sink.AddInlineScript("jquery", "jQuery(function($) {\n"+js+"\n});")
	}
	return selector
}

func (in *Injector) rewriteAddToCartURLs(page *storefront.Page) {
	for _, kind := range catalog.CartKinds {
		priority := hooks.DefaultPriority
		if kind == catalog.CartBundle || kind == catalog.CartComposite {
			priority = LateRewritePriority
		}
		page.AddToCartURL[kind].Add(priority, in.urls.RewriteURL)
	}
	page.ProductAddToCartURL.Add(hooks.DefaultPriority, in.urls.RewriteURL)
}

type buttonData struct {
	Link    string
	Label   string
	Product *catalog.Product
}

func (in *Injector) button(item *storefront.LoopItem) {
	var buf bytes.Buffer
	err := in.templates.Render(&buf, "loop/quick-view-button.html", buttonData{
		Link:    in.urls.URL(item.Product),
		Label:   item.Page.Printer.Sprintf("Quick View"),
		Product: item.Product,
	})
	if err != nil {
		slog.ErrorContext(item.Page.Context(), "rendering quick view button", "product", item.Product.ID, "error", err)
		return
	}
	item.Echo(template.HTML(buf.String()))
}
