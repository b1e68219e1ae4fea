package storefront

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ziadkadry99/quickview/internal/assets"
	"github.com/ziadkadry99/quickview/internal/catalog"
	"github.com/ziadkadry99/quickview/internal/hooks"
	"github.com/ziadkadry99/quickview/internal/i18n"
	"github.com/ziadkadry99/quickview/internal/options"
)

// Page is the state of one storefront request. Callbacks registered on a
// page's hooks live only as long as the page.
type Page struct {
	Request       *http.Request
	Lang          language.Tag
	Printer       *message.Printer
	Assets        *assets.Registry
	AjaxAddToCart bool

	// AfterShopLoopItem fires after each listing item is rendered. The host
	// prints the add-to-cart button at the default priority.
	AfterShopLoopItem *hooks.Action[*LoopItem]

	// AddToCartURL filters listing add-to-cart URLs per cart kind.
	AddToCartURL map[catalog.CartKind]*hooks.ScopedFilter[string, *catalog.Product]

	// ProductAddToCartURL runs after the per-kind filter for every product.
	ProductAddToCartURL *hooks.ScopedFilter[string, *catalog.Product]

	host *Host
}

// NewPage creates the page for r.
func (h *Host) NewPage(r *http.Request) (*Page, error) {
	ajax, err := h.options.Enabled(r.Context(), options.AjaxAddToCart)
	if err != nil {
		return nil, fmt.Errorf("reading ajax add to cart option: %w", err)
	}

	lang := i18n.Match(r.Header.Get("Accept-Language"))
	page := &Page{
		Request:             r,
		Lang:                lang,
		Printer:             i18n.Printer(lang),
		Assets:              assets.NewRegistry(),
		AjaxAddToCart:       ajax,
		AfterShopLoopItem:   hooks.NewAction[*LoopItem]("woocommerce_after_shop_loop_item"),
		AddToCartURL:        make(map[catalog.CartKind]*hooks.ScopedFilter[string, *catalog.Product], len(catalog.CartKinds)),
		ProductAddToCartURL: hooks.NewScopedFilter[string, *catalog.Product]("woocommerce_product_add_to_cart_url"),
		host:                h,
	}
	for _, kind := range catalog.CartKinds {
		page.AddToCartURL[kind] = hooks.NewScopedFilter[string, *catalog.Product](string(kind))
	}
	page.AfterShopLoopItem.Add(hooks.DefaultPriority, h.loopAddToCart)
	return page, nil
}

// Context returns the request context.
func (p *Page) Context() context.Context { return p.Request.Context() }

// Host returns the storefront the page belongs to.
func (p *Page) Host() *Host { return p.host }

// AddToCartURLFor returns the listing add-to-cart URL of prod after the
// per-kind and per-product filters.
func (p *Page) AddToCartURLFor(prod *catalog.Product) string {
	u := p.host.defaultAddToCartURL(prod)
	if f, ok := p.AddToCartURL[prod.CartKind()]; ok {
		u = f.Apply(u, prod)
	}
	return p.ProductAddToCartURL.Apply(u, prod)
}

// LoopItem is a listing entry being rendered. Callbacks on
// AfterShopLoopItem append markup to it.
type LoopItem struct {
	Page    *Page
	Product *catalog.Product
	buf     bytes.Buffer
}

// Echo appends markup after the item.
func (it *LoopItem) Echo(html template.HTML) {
	it.buf.WriteString(string(html))
}

// HTML returns the markup appended so far.
func (it *LoopItem) HTML() template.HTML {
	return template.HTML(it.buf.String())
}

func (h *Host) defaultAddToCartURL(p *catalog.Product) string {
	switch {
	case p.CartKind() == catalog.CartExternal && p.ExternalURL != "":
		return p.ExternalURL
	case p.SupportsAjaxAddToCart():
		return AddQueryArgs(h.cfg.HomeURL, url.Values{"add-to-cart": {strconv.FormatInt(p.ID, 10)}})
	default:
		return h.ProductURL(p)
	}
}

func addToCartText(pr *message.Printer, p *catalog.Product) string {
	switch p.CartKind() {
	case catalog.CartSimple:
		if p.InStock {
			return pr.Sprintf("Add to cart")
		}
		return pr.Sprintf("Read more")
	case catalog.CartExternal:
		if p.ButtonText != "" {
			return p.ButtonText
		}
		return pr.Sprintf("Buy product")
	case catalog.CartGrouped:
		return pr.Sprintf("View products")
	case catalog.CartNotPurchasable:
		return pr.Sprintf("Read more")
	default:
		return pr.Sprintf("Select options")
	}
}

type loopButton struct {
	URL       string
	Text      string
	Class     string
	ProductID int64
	SKU       string
}

func (h *Host) loopAddToCart(item *LoopItem) {
	p := item.Product
	class := "button product_type_" + string(p.Type)
	if p.SupportsAjaxAddToCart() {
		class += " add_to_cart_button"
		if item.Page.AjaxAddToCart {
			class += " ajax_add_to_cart"
		}
	}

	var buf bytes.Buffer
	err := h.templates.Render(&buf, "loop/add-to-cart.html", loopButton{
		URL:       item.Page.AddToCartURLFor(p),
		Text:      addToCartText(item.Page.Printer, p),
		Class:     class,
		ProductID: p.ID,
		SKU:       p.SKU,
	})
	if err != nil {
		slog.ErrorContext(item.Page.Context(), "rendering add to cart button", "product", p.ID, "error", err)
		return
	}
	item.Echo(template.HTML(buf.String()))
}
