package quickview

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/ziadkadry99/quickview/internal/catalog"
	"github.com/ziadkadry99/quickview/internal/storefront"
	"github.com/ziadkadry99/quickview/internal/tmpl"
)

// ProductSource looks up catalog products. Get returns nil for unknown ids.
type ProductSource interface {
	Get(ctx context.Context, id int64) (*catalog.Product, error)
}

// Renderer serves the preview fragment.
type Renderer struct {
	host      *storefront.Host
	products  ProductSource
	templates *tmpl.Loader
}

// NewRenderer creates a renderer.
func NewRenderer(host *storefront.Host, products ProductSource, templates *tmpl.Loader) *Renderer {
	return &Renderer{host: host, products: products, templates: templates}
}

// Serve renders the product named by the product query parameter. Unknown
// or missing products produce an empty response.
func (rd *Renderer) Serve(page *storefront.Page) storefront.Response {
	id := ProductID(page.Request.URL.Query().Get("product"))
	if id == 0 {
		return storefront.Empty{}
	}

	p, err := rd.products.Get(page.Context(), id)
	if err != nil {
		return storefront.Failure{Status: http.StatusInternalServerError, Err: err}
	}
	if p == nil {
		return storefront.Empty{}
	}

	view, err := rd.host.ProductView(page, p)
	if err != nil {
		return storefront.Failure{Status: http.StatusInternalServerError, Err: err}
	}

	var buf bytes.Buffer
	if err := rd.templates.Render(&buf, "quick-view.html", view); err != nil {
		return storefront.Failure{Status: http.StatusInternalServerError, Err: fmt.Errorf("rendering quick view of product %d: %w", id, err)}
	}
	return storefront.Fragment{HTML: template.HTML(buf.String())}
}

// ProductID converts a query value to a non-negative id: the leading
// integer of the value, made positive, so "1e3" is 1. Values without a
// leading integer, or too large to represent, yield 0.
func ProductID(raw string) int64 {
	s := strings.TrimLeft(raw, " \t\n\r\v\f")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil || n == math.MinInt64 {
		return 0
	}
	if n < 0 {
		n = -n
	}
	return n
}
