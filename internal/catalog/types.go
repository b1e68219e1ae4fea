// Package catalog holds the storefront's product catalog.
package catalog

import (
	"slices"
	"strconv"
	"time"
)

// ProductType identifies how a product is sold.
type ProductType string

const (
	TypeSimple    ProductType = "simple"
	TypeVariable  ProductType = "variable"
	TypeGrouped   ProductType = "grouped"
	TypeExternal  ProductType = "external"
	TypeBundle    ProductType = "bundle"
	TypeComposite ProductType = "composite"
)

var validTypes = map[ProductType]bool{
	TypeSimple:    true,
	TypeVariable:  true,
	TypeGrouped:   true,
	TypeExternal:  true,
	TypeBundle:    true,
	TypeComposite: true,
}

// Valid reports whether t is a known product type.
func (t ProductType) Valid() bool { return validTypes[t] }

// CartKind selects which add-to-cart URL extension point applies to a
// listing item.
type CartKind string

const (
	CartSimple         CartKind = "add_to_cart_url"
	CartAddons         CartKind = "addons_add_to_cart_url"
	CartVariable       CartKind = "variable_add_to_cart_url"
	CartGrouped        CartKind = "grouped_add_to_cart_url"
	CartExternal       CartKind = "external_add_to_cart_url"
	CartBundle         CartKind = "bundle_add_to_cart_url"
	CartComposite      CartKind = "composite_add_to_cart_url"
	CartNotPurchasable CartKind = "not_purchasable_url"
)

// CartKinds lists every add-to-cart extension point.
var CartKinds = []CartKind{
	CartSimple,
	CartAddons,
	CartVariable,
	CartGrouped,
	CartExternal,
	CartBundle,
	CartComposite,
	CartNotPurchasable,
}

// Image is a product gallery image.
type Image struct {
	ID       int64  `json:"id" yaml:"id"`
	Src      string `json:"src" yaml:"src"`
	Alt      string `json:"alt" yaml:"alt"`
	Position int    `json:"position" yaml:"position"`
}

// Attribute is a selectable product attribute such as "Size".
type Attribute struct {
	Name    string   `json:"name" yaml:"name"`
	Options []string `json:"options" yaml:"options"`
}

// Variation is one purchasable combination of attribute values.
type Variation struct {
	ID         int64             `json:"variation_id" yaml:"id"`
	Attributes map[string]string `json:"attributes" yaml:"attributes"`
	Price      string            `json:"display_price" yaml:"price"`
	ImageSrc   string            `json:"image_src,omitempty" yaml:"image"`
	InStock    bool              `json:"is_in_stock" yaml:"-"`
}

// Product is a catalog entry.
type Product struct {
	ID               int64       `json:"id" yaml:"id"`
	Type             ProductType `json:"type" yaml:"type"`
	Name             string      `json:"name" yaml:"name"`
	Slug             string      `json:"slug" yaml:"slug"`
	SKU              string      `json:"sku" yaml:"sku"`
	Price            string      `json:"price" yaml:"price"` // decimal string, "19.99"
	RegularPrice     string      `json:"regular_price" yaml:"regular_price"`
	SalePrice        string      `json:"sale_price" yaml:"sale_price"`
	ShortDescription string      `json:"short_description" yaml:"short_description"` // markdown
	Description      string      `json:"description" yaml:"description"`
	Purchasable      bool        `json:"purchasable" yaml:"-"`
	InStock          bool        `json:"in_stock" yaml:"-"`
	HasAddons        bool        `json:"has_addons" yaml:"has_addons"`
	ExternalURL      string      `json:"external_url,omitempty" yaml:"external_url"`
	ButtonText       string      `json:"button_text,omitempty" yaml:"button_text"`
	MenuOrder        int         `json:"menu_order" yaml:"menu_order"`
	Images           []Image     `json:"images" yaml:"images"`
	Attributes       []Attribute `json:"attributes" yaml:"attributes"`
	Variations       []Variation `json:"variations" yaml:"-"`
	CreatedAt        time.Time   `json:"created_at" yaml:"-"`
	UpdatedAt        time.Time   `json:"updated_at" yaml:"-"`
}

// CartKind returns the add-to-cart extension point for the product.
// Availability is checked before type: a product that cannot be bought
// always uses CartNotPurchasable.
func (p *Product) CartKind() CartKind {
	if !p.Purchasable {
		return CartNotPurchasable
	}
	if p.HasAddons {
		return CartAddons
	}
	switch p.Type {
	case TypeVariable:
		return CartVariable
	case TypeGrouped:
		return CartGrouped
	case TypeExternal:
		return CartExternal
	case TypeBundle:
		return CartBundle
	case TypeComposite:
		return CartComposite
	default:
		return CartSimple
	}
}

// SupportsAjaxAddToCart reports whether the listing button can add the
// product to the cart without navigating.
func (p *Product) SupportsAjaxAddToCart() bool {
	return p.Type == TypeSimple && p.Purchasable && p.InStock && !p.HasAddons
}

// OnSale reports whether a sale price below the regular price is set.
func (p *Product) OnSale() bool {
	if p.SalePrice == "" || p.RegularPrice == "" {
		return false
	}
	sale, err1 := strconv.ParseFloat(p.SalePrice, 64)
	regular, err2 := strconv.ParseFloat(p.RegularPrice, 64)
	return err1 == nil && err2 == nil && sale < regular
}

// Gallery returns the images ordered by position.
func (p *Product) Gallery() []Image {
	imgs := slices.Clone(p.Images)
	slices.SortStableFunc(imgs, func(a, b Image) int { return a.Position - b.Position })
	return imgs
}

// ListFilter controls which products List returns.
type ListFilter struct {
	Type   ProductType
	Limit  int
	Offset int
}
