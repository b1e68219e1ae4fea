package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/quickview/internal/catalog"
	"github.com/ziadkadry99/quickview/internal/db"
	"github.com/ziadkadry99/quickview/internal/hooks"
	"github.com/ziadkadry99/quickview/internal/options"
)

func testConfig() Config {
	return Config{
		HomeURL:        "http://shop.test",
		AssetsURL:      "/wc/assets/",
		Version:        "8.0.0",
		CurrencySymbol: "$",
		Enabled:        true,
		AjaxAddToCart:  true,
	}
}

func setupHost(t *testing.T, cfg Config) *Host {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	ctx := context.Background()
	store := catalog.NewStore(database)
	for _, p := range []catalog.Product{
		{ID: 12, Type: catalog.TypeSimple, Name: "Beanie", Price: "18.00", RegularPrice: "20.00", SalePrice: "18.00",
			ShortDescription: "A **warm** beanie.", Purchasable: true, InStock: true, SKU: "woo-beanie",
			Images: []catalog.Image{{Src: "/uploads/beanie.jpg", Alt: "Beanie"}}},
		{ID: 15, Type: catalog.TypeVariable, Name: "Hoodie", Price: "45.00", Purchasable: true, InStock: true,
			Attributes: []catalog.Attribute{{Name: "Color", Options: []string{"Blue", "Green"}}},
			Variations: []catalog.Variation{{ID: 151, Attributes: map[string]string{"Color": "Blue"}, Price: "45.00", InStock: true}}},
		{ID: 31, Type: catalog.TypeExternal, Name: "Pennant", Price: "11.05", Purchasable: true, InStock: true,
			ExternalURL: "https://example.com/pennant", ButtonText: "Buy elsewhere"},
	} {
		if err := store.Upsert(ctx, p); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	h := New(cfg, store, options.NewStore(database))
	if err := h.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return h
}

func routes(h *Host) chi.Router {
	r := chi.NewRouter()
	h.RegisterRoutes(r)
	return r
}

func get(t *testing.T, r http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestNewNormalisesConfig(t *testing.T) {
	h := setupHost(t, testConfig())
	if h.HomeURL() != "http://shop.test/" {
		t.Errorf("HomeURL = %q", h.HomeURL())
	}
	if got := h.AssetURL("/js/zoom.js"); got != "/wc/assets/js/zoom.js" {
		t.Errorf("AssetURL = %q", got)
	}
	if got := h.ProductURL(&catalog.Product{ID: 12}); got != "http://shop.test/product/12" {
		t.Errorf("ProductURL = %q", got)
	}
}

func TestShopPage(t *testing.T) {
	h := setupHost(t, testConfig())
	w := get(t, routes(h), "/shop")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	for _, want := range []string{
		"<header",
		"<footer",
		`<h2 class="woocommerce-loop-product__title">Beanie</h2>`,
		`class="button product_type_simple add_to_cart_button ajax_add_to_cart"`,
		`href="http://shop.test/?add-to-cart=12"`,
		`class="button product_type_variable"`,
		`href="http://shop.test/product/15"`,
		`href="https://example.com/pennant"`,
		">Buy elsewhere</a>",
		">Select options</a>",
		`<del>$20.00</del> <ins>$18.00</ins>`,
		`src="/wc/assets/js/jquery/jquery.min.js?ver=8.0.0"`,
		`id="wc-add-to-cart-js"`,
		`id="woocommerce-general-css"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("shop page missing %q", want)
		}
	}
}

func TestShopPageAjaxDisabled(t *testing.T) {
	h := setupHost(t, testConfig())
	if _, err := h.Options().Update(context.Background(), options.AjaxAddToCart, "no"); err != nil {
		t.Fatal(err)
	}

	body := get(t, routes(h), "/").Body.String()
	if strings.Contains(body, "ajax_add_to_cart") {
		t.Error("ajax marker rendered with ajax add to cart disabled")
	}
	if !strings.Contains(body, `class="button product_type_simple add_to_cart_button"`) {
		t.Error("expected add_to_cart_button marker on the simple product")
	}
	if strings.Contains(body, `id="wc-add-to-cart-js"`) {
		t.Error("ajax add to cart script enqueued while disabled")
	}
}

func TestProductPage(t *testing.T) {
	h := setupHost(t, testConfig())
	r := routes(h)

	w := get(t, r, "/product/15")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`<h1 class="product_title entry-title">Hoodie</h1>`,
		`class="variations_form cart"`,
		`name="attribute_color"`,
		`<option value="Green">Green</option>`,
		`data-product_variations="[{&#34;variation_id&#34;:151`,
		`woocommerce-product-gallery__image--placeholder`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("product page missing %q", want)
		}
	}

	w = get(t, r, "/product/12")
	if !strings.Contains(w.Body.String(), "<strong>warm</strong>") {
		t.Error("short description markdown not rendered")
	}

	if w := get(t, r, "/product/999"); w.Code != http.StatusNotFound {
		t.Errorf("missing product status = %d", w.Code)
	}
	if w := get(t, r, "/product/abc"); w.Code != http.StatusNotFound {
		t.Errorf("bad id status = %d", w.Code)
	}
}

func TestAPIDispatch(t *testing.T) {
	h := setupHost(t, testConfig())

	var enqueued int
	h.EnqueueScripts.Add(hooks.DefaultPriority, func(*Page) { enqueued++ })

	h.RegisterAPI("Echo_Fragment", func(page *Page) Response {
		return Fragment{HTML: template.HTML("<div>" + page.Request.URL.Query().Get("v") + "</div>")}
	})
	h.RegisterAPI("nothing", func(*Page) Response { return Empty{} })
	h.RegisterAPI("broken", func(*Page) Response {
		return Failure{Status: http.StatusInternalServerError, Err: errors.New("boom")}
	})
	r := routes(h)

	for _, target := range []string{"/?wc-api=echo_fragment&v=1", "/wc-api/ECHO_FRAGMENT?v=1"} {
		w := get(t, r, target)
		if w.Code != http.StatusOK || w.Body.String() != "<div>1</div>" {
			t.Errorf("%s: got %d %q", target, w.Code, w.Body.String())
		}
	}

	w := get(t, r, "/?wc-api=nothing")
	if w.Code != http.StatusOK || w.Body.Len() != 0 {
		t.Errorf("empty response: got %d %q", w.Code, w.Body.String())
	}

	w = get(t, r, "/?wc-api=broken")
	if w.Code != http.StatusInternalServerError {
		t.Errorf("failure status = %d", w.Code)
	}

	w = get(t, r, "/?wc-api=unknown")
	if w.Code != http.StatusBadRequest || w.Body.String() != "-1" {
		t.Errorf("unknown api: got %d %q", w.Code, w.Body.String())
	}

	if enqueued != 0 {
		t.Errorf("api requests ran the enqueue stage %d times", enqueued)
	}
	get(t, r, "/shop")
	if enqueued != 1 {
		t.Errorf("shop page ran the enqueue stage %d times, want 1", enqueued)
	}
}

func TestAddToCartFiltersArePerPage(t *testing.T) {
	h := setupHost(t, testConfig())
	hoodie := &catalog.Product{ID: 15, Type: catalog.TypeVariable, Purchasable: true, InStock: true}

	first, err := h.NewPage(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	first.AddToCartURL[catalog.CartVariable].Add(hooks.DefaultPriority, func(string, *catalog.Product) string {
		return "kind"
	})
	first.ProductAddToCartURL.Add(hooks.DefaultPriority, func(u string, p *catalog.Product) string {
		return u + "+product"
	})
	if got := first.AddToCartURLFor(hoodie); got != "kind+product" {
		t.Errorf("filtered URL = %q", got)
	}

	second, err := h.NewPage(httptest.NewRequest(http.MethodGet, "/", nil))
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	if got := second.AddToCartURLFor(hoodie); got != "http://shop.test/product/15" {
		t.Errorf("second page URL = %q", got)
	}
}

func TestAfterShopLoopItemOrder(t *testing.T) {
	h := setupHost(t, testConfig())
	h.EnqueueScripts.Add(11, func(page *Page) {
		page.AfterShopLoopItem.Add(5, func(item *LoopItem) {
			item.Echo(template.HTML(`<span class="early"></span>`))
		})
	})

	body := get(t, routes(h), "/shop").Body.String()
	early := strings.Index(body, `class="early"`)
	button := strings.Index(body, `data-product_id="12"`)
	if early < 0 || button < 0 || early > button {
		t.Errorf("priority 5 callback should print before the add to cart button")
	}
}

func TestThemeOverride(t *testing.T) {
	theme := t.TempDir()
	dir := filepath.Join(theme, "woocommerce", "single-product")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "title.html"), []byte(`<h1 class="themed">{{.Product.Name}}</h1>`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := testConfig()
	cfg.ThemeDir = theme
	h := setupHost(t, cfg)

	body := get(t, routes(h), "/product/12").Body.String()
	if !strings.Contains(body, `<h1 class="themed">Beanie</h1>`) {
		t.Error("theme override not used")
	}
	if src, ok := h.Templates().Locate("single-product/price.html"); !ok || src.Name != "storefront" {
		t.Errorf("price template should come from the storefront, got %v", src.Name)
	}
}

func TestExtensionsAndStatic(t *testing.T) {
	h := setupHost(t, testConfig())
	h.Static("/ext/assets", fstest.MapFS{"style.css": {Data: []byte(".x{}")}})
	h.AddExtension(Extension{
		ID:   "ext",
		Name: "Ext",
		Links: []Link{
			{Label: "Support", URL: "https://example.com/support"},
			{Label: "Docs", URL: "https://example.com/docs"},
		},
	})
	r := routes(h)

	w := get(t, r, "/ext/assets/style.css")
	if w.Code != http.StatusOK || w.Body.String() != ".x{}" {
		t.Errorf("static: got %d %q", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/extensions", nil)
	req.Header.Set("Accept-Language", "de")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var exts []Extension
	if err := json.Unmarshal(w.Body.Bytes(), &exts); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(exts) != 1 || exts[0].Links[0].Label != "Hilfe" || exts[0].Links[1].Label != "Dokumentation" {
		t.Errorf("extensions = %+v", exts)
	}

	w = get(t, r, "/api/admin/templates")
	var sets map[string][]struct {
		Name   string `json:"name"`
		Source string `json:"source"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &sets); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(sets["storefront"]) == 0 {
		t.Error("expected storefront templates")
	}
}

func TestAddQueryArgs(t *testing.T) {
	got := AddQueryArgs("http://shop.test/?a=1", url.Values{"a": {"2"}, "b": {"x y"}})
	if got != "http://shop.test/?a=2&b=x+y" {
		t.Errorf("AddQueryArgs = %q", got)
	}
}
