package quickview

import (
	"net/url"
	"strconv"

	"github.com/ziadkadry99/quickview/internal/catalog"
	"github.com/ziadkadry99/quickview/internal/hooks"
	"github.com/ziadkadry99/quickview/internal/storefront"
)

// URLBuilder builds preview endpoint URLs.
type URLBuilder struct {
	home string
	args *hooks.ScopedFilter[url.Values, *catalog.Product]
}

// NewURLBuilder creates a builder for URLs under home. args may rewrite
// the query arguments before they are encoded.
func NewURLBuilder(home string, args *hooks.ScopedFilter[url.Values, *catalog.Product]) *URLBuilder {
	return &URLBuilder{home: home, args: args}
}

// URL returns the preview URL of p.
func (b *URLBuilder) URL(p *catalog.Product) string {
	args := url.Values{
		"wc-api":  {APIName},
		"product": {strconv.FormatInt(p.ID, 10)},
		"width":   {"90%"},
		"height":  {"90%"},
		"ajax":    {"true"},
	}
	if b.args != nil {
		args = b.args.Apply(args, p)
	}
	return storefront.AddQueryArgs(b.home, args)
}

// RewriteURL has the shape of an add-to-cart URL filter and replaces the
// URL with the preview URL of p.
func (b *URLBuilder) RewriteURL(_ string, p *catalog.Product) string {
	return b.URL(p)
}
