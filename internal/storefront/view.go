package storefront

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/ziadkadry99/quickview/internal/catalog"
)

// markdown renders short descriptions. Raw HTML in the source is escaped.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// ProductView is the data every product template receives. Templates read
// the product from here rather than from any request-wide state.
type ProductView struct {
	Page             *Page
	Product          *catalog.Product
	URL              string
	Images           []catalog.Image
	Placeholder      string
	ShortDescription template.HTML
	Attributes       []AttributeView
	VariationsJSON   string
	currency         string
}

// AttributeView is a variation attribute select.
type AttributeView struct {
	Label   string
	Field   string
	Options []string
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// AttributeField returns the form field name for an attribute label.
func AttributeField(name string) string {
	return "attribute_" + strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

// ProductView builds the template data for p.
func (h *Host) ProductView(page *Page, p *catalog.Product) (*ProductView, error) {
	var desc bytes.Buffer
	if err := markdown.Convert([]byte(p.ShortDescription), &desc); err != nil {
		return nil, fmt.Errorf("rendering short description of product %d: %w", p.ID, err)
	}

	v := &ProductView{
		Page:             page,
		Product:          p,
		URL:              h.ProductURL(p),
		Images:           p.Gallery(),
		Placeholder:      h.AssetURL("images/placeholder.png"),
		ShortDescription: template.HTML(desc.String()),
		currency:         h.cfg.CurrencySymbol,
	}

	if p.Type == catalog.TypeVariable {
		for _, a := range p.Attributes {
			v.Attributes = append(v.Attributes, AttributeView{
				Label:   a.Name,
				Field:   AttributeField(a.Name),
				Options: a.Options,
			})
		}
		variations := make([]catalog.Variation, 0, len(p.Variations))
		for _, vr := range p.Variations {
			attrs := make(map[string]string, len(vr.Attributes))
			for name, value := range vr.Attributes {
				attrs[AttributeField(name)] = value
			}
			vr.Attributes = attrs
			variations = append(variations, vr)
		}
		data, err := json.Marshal(variations)
		if err != nil {
			return nil, fmt.Errorf("encoding variations of product %d: %w", p.ID, err)
		}
		v.VariationsJSON = string(data)
	}
	return v, nil
}

// T translates a message key into the page language.
func (v *ProductView) T(key string) string {
	return v.Page.Printer.Sprintf(key)
}

// Money formats a decimal price string.
func (v *ProductView) Money(amount string) string {
	if amount == "" {
		return ""
	}
	return v.currency + amount
}

// PriceHTML renders the current price, striking through the regular price
// while on sale.
func (v *ProductView) PriceHTML() template.HTML {
	p := v.Product
	if p.OnSale() {
		return template.HTML(fmt.Sprintf(`<del>%s</del> <ins>%s</ins>`,
			template.HTMLEscapeString(v.Money(p.RegularPrice)),
			template.HTMLEscapeString(v.Money(p.SalePrice))))
	}
	return template.HTML(template.HTMLEscapeString(v.Money(p.Price)))
}
