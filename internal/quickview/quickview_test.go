package quickview

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"

	"github.com/ziadkadry99/quickview/internal/assets"
	"github.com/ziadkadry99/quickview/internal/audit"
	"github.com/ziadkadry99/quickview/internal/catalog"
	"github.com/ziadkadry99/quickview/internal/db"
	"github.com/ziadkadry99/quickview/internal/hooks"
	"github.com/ziadkadry99/quickview/internal/i18n"
	"github.com/ziadkadry99/quickview/internal/options"
	"github.com/ziadkadry99/quickview/internal/settings"
	"github.com/ziadkadry99/quickview/internal/storefront"
)

var testProducts = []catalog.Product{
	{ID: 12, Type: catalog.TypeSimple, Name: "Beanie", Price: "18.00", Purchasable: true, InStock: true,
		ShortDescription: "A *warm* beanie.",
		Images: []catalog.Image{
			{Src: "/uploads/beanie.jpg", Alt: "Beanie"},
			{Src: "/uploads/beanie-back.jpg", Alt: "Back", Position: 1},
		}},
	{ID: 15, Type: catalog.TypeVariable, Name: "Hoodie", Price: "45.00", Purchasable: true, InStock: true,
		Images:     []catalog.Image{{Src: "/uploads/hoodie.jpg"}},
		Attributes: []catalog.Attribute{{Name: "Size", Options: []string{"S", "M"}}},
		Variations: []catalog.Variation{{ID: 151, Attributes: map[string]string{"Size": "S"}, Price: "45.00", InStock: true}}},
	{ID: 20, Type: catalog.TypeGrouped, Name: "Logo Collection", Purchasable: true, InStock: true},
	{ID: 31, Type: catalog.TypeExternal, Name: "Pennant", Price: "11.05", Purchasable: true, InStock: true,
		ExternalURL: "https://example.com/pennant"},
	{ID: 40, Type: catalog.TypeBundle, Name: "Winter Bundle", Price: "60.00", Purchasable: true, InStock: true},
	{ID: 41, Type: catalog.TypeComposite, Name: "Kit", Price: "80.00", Purchasable: true, InStock: true},
	{ID: 50, Type: catalog.TypeSimple, Name: "Mug", Price: "14.00", Purchasable: true, InStock: true, HasAddons: true},
	{ID: 60, Type: catalog.TypeSimple, Name: "Scarf", Price: "9.00"},
	{ID: 70, Type: catalog.TypeSimple, Name: "Socks", Price: "5.00", Purchasable: true},
}

type env struct {
	db      *db.DB
	host    *storefront.Host
	panel   *settings.Panel
	options *options.Store
	audit   *audit.Store
	plugin  *Plugin
	router  chi.Router
}

type envOption func(*storefront.Config)

func withCommerceDisabled(cfg *storefront.Config) { cfg.Enabled = false }
func withAjaxDisabled(cfg *storefront.Config)     { cfg.AjaxAddToCart = false }

func withTheme(dir string) envOption {
	return func(cfg *storefront.Config) { cfg.ThemeDir = dir }
}

func setup(t *testing.T, opts ...envOption) (*env, error) {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	ctx := context.Background()
	store := catalog.NewStore(database)
	for _, p := range testProducts {
		if err := store.Upsert(ctx, p); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	cfg := storefront.Config{
		HomeURL:        "http://shop.test/",
		AssetsURL:      "/wc/assets",
		Version:        "8.0.0",
		CurrencySymbol: "$",
		Enabled:        true,
		AjaxAddToCart:  true,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	e := &env{db: database, options: options.NewStore(database), audit: audit.NewStore(database)}
	e.host = storefront.New(cfg, store, e.options)
	if err := e.host.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	e.panel = settings.NewPanel(e.options, e.audit)

	e.plugin, err = Register(ctx, e.host, e.panel, Options{Version: "1.1.9", Audit: e.audit})

	e.router = chi.NewRouter()
	e.host.RegisterRoutes(e.router)
	return e, err
}

func mustSetup(t *testing.T, opts ...envOption) *env {
	t.Helper()
	e, err := setup(t, opts...)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return e
}

func (e *env) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *env) setTrigger(t *testing.T, v string) {
	t.Helper()
	if _, err := e.options.Update(context.Background(), settings.OptionTrigger, v); err != nil {
		t.Fatal(err)
	}
}

func (e *env) newPage(t *testing.T) *storefront.Page {
	t.Helper()
	page, err := e.host.NewPage(httptest.NewRequest(http.MethodGet, "/shop", nil))
	if err != nil {
		t.Fatalf("NewPage: %v", err)
	}
	return page
}

func product(id int64) *catalog.Product {
	for i := range testProducts {
		if testProducts[i].ID == id {
			return &testProducts[i]
		}
	}
	return nil
}

func TestRegisterInactiveHost(t *testing.T) {
	e, err := setup(t, withCommerceDisabled)
	if !errors.Is(err, ErrHostInactive) {
		t.Fatalf("Register err = %v, want ErrHostInactive", err)
	}
	if e.plugin != nil {
		t.Error("expected no plugin")
	}

	if _, ok, _ := e.options.Get(context.Background(), settings.OptionTrigger); ok {
		t.Error("trigger option created on an inactive host")
	}
	if _, ok := e.host.API(APIName); ok {
		t.Error("preview endpoint registered on an inactive host")
	}
	if len(e.host.Extensions()) != 0 {
		t.Error("extension metadata published on an inactive host")
	}
	for _, f := range e.panel.Fields(i18n.Printer(language.English)) {
		if f.ID == settings.OptionTrigger || f.ID == "wc_quick_view" {
			t.Errorf("settings contribution present: %+v", f)
		}
	}

	body := e.get(t, "/shop").Body.String()
	for _, handle := range []string{"prettyPhoto-js", "flexslider-js", "zoom-js", "wc-add-to-cart-variation-js", "wc_quick_view-css", "quick-view-button"} {
		if strings.Contains(body, handle) {
			t.Errorf("inactive host page contains %q", handle)
		}
	}
	if w := e.get(t, StylePath); w.Code != http.StatusNotFound {
		t.Errorf("stylesheet served on inactive host: %d", w.Code)
	}
	if w := e.get(t, "/?wc-api=quick_view&product=12"); w.Code != http.StatusBadRequest {
		t.Errorf("preview endpoint status on inactive host = %d", w.Code)
	}
}

func TestRegisterCreatesDefaultOnce(t *testing.T) {
	e := mustSetup(t)
	ctx := context.Background()

	v, ok, err := e.options.Get(ctx, settings.OptionTrigger)
	if err != nil || !ok || v != "button" {
		t.Fatalf("trigger option = %q, %v, %v", v, ok, err)
	}

	e.setTrigger(t, "non_ajax")
	if _, err := Register(ctx, e.host, e.panel, Options{}); err != nil {
		t.Fatalf("second Register: %v", err)
	}
	if got := e.plugin.Trigger().Mode(ctx); got != settings.TriggerNonAjax {
		t.Errorf("re-registering overwrote the preference: %q", got)
	}
}

func TestURLBuilder(t *testing.T) {
	b := NewURLBuilder("http://shop.test/", nil)

	for _, p := range testProducts {
		u, err := url.Parse(b.URL(&p))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		q := u.Query()
		if q.Get("product") != strconv.FormatInt(p.ID, 10) {
			t.Errorf("product = %q, want %d", q.Get("product"), p.ID)
		}
		if q.Get("wc-api") != APIName || q.Get("width") != "90%" || q.Get("height") != "90%" || q.Get("ajax") != "true" {
			t.Errorf("unexpected args %v", q)
		}
		if u.Host != "shop.test" || u.Path != "/" {
			t.Errorf("unexpected base %s", u)
		}
	}

	if got := b.RewriteURL("http://shop.test/?add-to-cart=12", product(12)); got != b.URL(product(12)) {
		t.Errorf("RewriteURL = %q", got)
	}
}

func TestURLBuilderLinkArgs(t *testing.T) {
	args := hooks.NewScopedFilter[url.Values, *catalog.Product]("link_args")
	args.Add(hooks.DefaultPriority, func(v url.Values, p *catalog.Product) url.Values {
		v.Set("width", "600")
		v.Set("sku", p.Name)
		return v
	})
	b := NewURLBuilder("http://shop.test/", args)

	u, _ := url.Parse(b.URL(product(15)))
	q := u.Query()
	if q.Get("width") != "600" || q.Get("height") != "90%" || q.Get("sku") != "Hoodie" || q.Get("product") != "15" {
		t.Errorf("args = %v", q)
	}
}

func TestProductID(t *testing.T) {
	tests := map[string]int64{
		"":                     0,
		"0":                    0,
		"12":                   12,
		"-12":                  12,
		"+7":                   7,
		"  42":                 42,
		"15abc":                15,
		"abc":                  0,
		"-":                    0,
		"3.9":                  3,
		"1e3":                  1,
		"-9223372036854775808": 0,
		"99999999999999999999": 0,
	}
	for in, want := range tests {
		if got := ProductID(in); got != want {
			t.Errorf("ProductID(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestBehaviourScript(t *testing.T) {
	js := BehaviourScript(`a[data-x="1"]`)
	for _, want := range []string{
		`$(document).on('click', "a[data-x=\"1\"]", function() {`,
		"$.prettyPhoto.open($(this).attr('href'));",
		"return false;",
		"wc_variation_form()",
		"controlNav: 'thumbnails'",
		"animation: 'slide'",
		"slideshow: false",
		"animationLoop: false",
		".zoom();",
		"trigger('zoom.destroy')",
		"jQuery('body').trigger('quick-view-displayed');",
	} {
		if !strings.Contains(js, want) {
			t.Errorf("script missing %q", want)
		}
	}
	if strings.Index(js, "zoom.destroy") > strings.Index(js, "quick-view-displayed") {
		t.Error("quick-view-displayed should fire last")
	}
}

func TestInjectButtonMode(t *testing.T) {
	e := mustSetup(t)
	page := e.newPage(t)

	selector := e.plugin.injector.Inject(page, page.Assets, settings.TriggerButton)
	if selector != SelectorButton {
		t.Errorf("selector = %q", selector)
	}
	for _, h := range []string{"prettyPhoto", "flexslider", "zoom", "wc-add-to-cart-variation"} {
		if !page.Assets.ScriptEnqueued(h) {
			t.Errorf("script %s not enqueued", h)
		}
	}
	for _, h := range []string{"woocommerce_prettyPhoto_css", "wc_quick_view"} {
		if !page.Assets.StyleEnqueued(h) {
			t.Errorf("style %s not enqueued", h)
		}
	}
	if page.AfterShopLoopItem.Len() != 2 {
		t.Errorf("after item callbacks = %d, want host button + quick view button", page.AfterShopLoopItem.Len())
	}
	for kind, f := range page.AddToCartURL {
		if f.Len() != 0 {
			t.Errorf("button mode registered a %s rewrite", kind)
		}
	}

	js := page.Assets.QueuedJS()
	if len(js) != 1 || !strings.Contains(js[0], `"a.quick-view-button"`) {
		t.Errorf("queued js = %v", js)
	}
	if len(page.Assets.InlineScripts("jquery")) != 0 {
		t.Error("inline fallback used although the registry queues JS")
	}
}

func TestInjectUnknownModeBehavesAsButton(t *testing.T) {
	e := mustSetup(t)
	e.setTrigger(t, "thumbnail")

	body := e.get(t, "/shop").Body.String()
	if !strings.Contains(body, `class="quick-view-button button"`) {
		t.Error("unknown trigger value should render quick view buttons")
	}
	if !strings.Contains(body, `"a.quick-view-button"`) {
		t.Error("unknown trigger value should bind the button selector")
	}
}

func TestInjectNonAjaxWithAjaxEnabled(t *testing.T) {
	e := mustSetup(t)
	page := e.newPage(t)

	selector := e.plugin.injector.Inject(page, page.Assets, settings.TriggerNonAjax)
	if selector != SelectorNonAjax {
		t.Errorf("selector = %q", selector)
	}
	if !strings.Contains(selector, ":not(.add_to_cart_button)") || !strings.Contains(selector, ":not(.ajax_add_to_cart)") {
		t.Error("selector must exclude both ajax markers")
	}
	if page.AfterShopLoopItem.Len() != 1 {
		t.Error("non_ajax mode must not add the quick view button")
	}
	for kind, f := range page.AddToCartURL {
		if f.Len() != 0 {
			t.Errorf("%s rewritten although ajax add to cart is enabled", kind)
		}
	}
	if page.ProductAddToCartURL.Len() != 0 {
		t.Error("catch-all URL rewritten although ajax add to cart is enabled")
	}
}

func TestNonAjaxSelectorSkipsAjaxButtons(t *testing.T) {
	e := mustSetup(t)
	e.setTrigger(t, "non_ajax")

	body := e.get(t, "/shop").Body.String()
	if !strings.Contains(body, `"`+SelectorNonAjax+`"`) {
		t.Errorf("page does not bind the non-ajax selector")
	}
	// The ajax-capable simple product carries both markers; the variable
	// product carries neither and is matched by the selector.
	if !strings.Contains(body, `class="button product_type_simple add_to_cart_button ajax_add_to_cart" data-product_id="12"`) {
		t.Error("ajax button markers missing")
	}
	if !strings.Contains(body, `class="button product_type_variable" data-product_id="15"`) {
		t.Error("non-ajax button should carry no ajax markers")
	}
}

func TestInjectNonAjaxWithAjaxDisabled(t *testing.T) {
	e := mustSetup(t, withAjaxDisabled)
	page := e.newPage(t)

	// Another extension filters bundle URLs at the default priority.
	page.AddToCartURL[catalog.CartBundle].Add(hooks.DefaultPriority, func(string, *catalog.Product) string {
		return "http://shop.test/bundle-builder"
	})

	selector := e.plugin.injector.Inject(page, page.Assets, settings.TriggerNonAjax)
	if selector != SelectorAnyButton {
		t.Errorf("selector = %q", selector)
	}

	urls := e.plugin.URLs()
	for i := range testProducts {
		p := &testProducts[i]
		if got, want := page.AddToCartURLFor(p), urls.URL(p); got != want {
			t.Errorf("product %d (%s): add to cart URL = %q, want %q", p.ID, p.CartKind(), got, want)
		}
	}
	for _, kind := range catalog.CartKinds {
		if got := page.AddToCartURL[kind].Apply("http://shop.test/original", product(40)); got != urls.URL(product(40)) {
			t.Errorf("%s filter result = %q", kind, got)
		}
	}
}

func TestSelectorFilter(t *testing.T) {
	e := mustSetup(t)
	e.plugin.Selector.Add(hooks.DefaultPriority, func(s string) string {
		return s + ", .custom-trigger"
	})
	page := e.newPage(t)

	selector := e.plugin.injector.Inject(page, page.Assets, settings.TriggerButton)
	if selector != "a.quick-view-button, .custom-trigger" {
		t.Errorf("selector = %q", selector)
	}
	if js := page.Assets.QueuedJS(); !strings.Contains(js[0], `"a.quick-view-button, .custom-trigger"`) {
		t.Error("filtered selector not used in the script")
	}
}

func TestEnqueueAssetsFiresFirst(t *testing.T) {
	e := mustSetup(t)
	page := e.newPage(t)

	var sawOwnAssets bool
	e.plugin.EnqueueAssets.Add(hooks.DefaultPriority, func(sink AssetSink) {
		sawOwnAssets = page.Assets.ScriptEnqueued("prettyPhoto") || page.Assets.StyleEnqueued("wc_quick_view")
		sink.EnqueueScript(assets.Script{Handle: "third-party", Src: "/third.js", Deps: []string{"jquery"}})
	})

	e.host.EnqueueScripts.Do(page)
	if sawOwnAssets {
		t.Error("EnqueueAssets fired after the overlay assets were enqueued")
	}
	scripts, err := page.Assets.Scripts()
	if err != nil {
		t.Fatalf("Scripts: %v", err)
	}
	var order []string
	for _, s := range scripts {
		order = append(order, s.Handle)
	}
	joined := strings.Join(order, ",")
	if !strings.HasPrefix(joined, "jquery,") || strings.Index(joined, "third-party") > strings.Index(joined, "prettyPhoto") {
		t.Errorf("script order = %s", joined)
	}
}

type inlineOnlySink struct {
	scripts []string
	styles  []string
	inline  map[string][]string
}

func (s *inlineOnlySink) EnqueueScript(sc assets.Script) { s.scripts = append(s.scripts, sc.Handle) }
func (s *inlineOnlySink) EnqueueStyle(st assets.Style)   { s.styles = append(s.styles, st.Handle) }
func (s *inlineOnlySink) AddInlineScript(handle, code string) {
	if s.inline == nil {
		s.inline = make(map[string][]string)
	}
	s.inline[handle] = append(s.inline[handle], code)
}

func TestInjectInlineFallback(t *testing.T) {
	e := mustSetup(t)
	page := e.newPage(t)
	sink := &inlineOnlySink{}

	e.plugin.injector.Inject(page, sink, settings.TriggerButton)

	if strings.Join(sink.scripts, ",") != "prettyPhoto,flexslider,zoom,wc-add-to-cart-variation" {
		t.Errorf("scripts = %v", sink.scripts)
	}
	if strings.Join(sink.styles, ",") != "woocommerce_prettyPhoto_css,wc_quick_view" {
		t.Errorf("styles = %v", sink.styles)
	}
	code := sink.inline["jquery"]
	if len(code) != 1 || !strings.HasPrefix(code[0], "jQuery(function($) {") || !strings.Contains(code[0], "quick-view-displayed") {
		t.Errorf("inline code = %v", code)
	}
}

type countingSource struct {
	calls int
	err   error
}

func (c *countingSource) Get(ctx context.Context, id int64) (*catalog.Product, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return nil, nil
}

func TestRendererZeroProductSkipsLookup(t *testing.T) {
	e := mustSetup(t)
	src := &countingSource{}
	rd := NewRenderer(e.host, src, e.plugin.Templates())

	for _, q := range []string{"", "?product=0", "?product=abc", "?product=-0"} {
		page, err := e.host.NewPage(httptest.NewRequest(http.MethodGet, "/"+q, nil))
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := rd.Serve(page).(storefront.Empty); !ok {
			t.Errorf("%q: expected empty response", q)
		}
	}
	if src.calls != 0 {
		t.Errorf("product source called %d times", src.calls)
	}
}

func TestRendererStoreError(t *testing.T) {
	e := mustSetup(t)
	rd := NewRenderer(e.host, &countingSource{err: errors.New("disk on fire")}, e.plugin.Templates())

	page, _ := e.host.NewPage(httptest.NewRequest(http.MethodGet, "/?product=12", nil))
	resp, ok := rd.Serve(page).(storefront.Failure)
	if !ok || resp.Status != http.StatusInternalServerError {
		t.Errorf("response = %#v", resp)
	}
}

func TestPreviewEndpoint(t *testing.T) {
	e := mustSetup(t)

	for _, target := range []string{
		"/?wc-api=quick_view",
		"/?wc-api=quick_view&product=0&width=90%25&height=90%25&ajax=true",
		"/?wc-api=quick_view&product=999",
	} {
		w := e.get(t, target)
		if w.Code != http.StatusOK || w.Body.Len() != 0 {
			t.Errorf("%s: got %d %q", target, w.Code, w.Body.String())
		}
	}

	w := e.get(t, "/?wc-api=quick_view&product=15&width=90%25&height=90%25&ajax=true")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{
		`class="quick-view-content"`,
		`class="woocommerce-product-gallery`,
		`data-thumb="/uploads/hoodie.jpg"`,
		`class="variations_form cart"`,
		`name="attribute_size"`,
		`single_add_to_cart_button`,
		`<h1 class="product_title entry-title">Hoodie</h1>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("fragment missing %q", want)
		}
	}
	for _, chrome := range []string{"<html", "<head", "<header", "<footer", "<script"} {
		if strings.Contains(body, chrome) {
			t.Errorf("fragment contains page chrome %q", chrome)
		}
	}

	simple := e.get(t, "/wc-api/wc_quick_view?product=12").Body.String()
	if !strings.Contains(simple, "<em>warm</em>") || !strings.Contains(simple, `name="add-to-cart" value="12"`) {
		t.Errorf("legacy endpoint fragment:\n%s", simple)
	}
}

func TestPreviewUsesThemePartials(t *testing.T) {
	theme := t.TempDir()
	for path, content := range map[string]string{
		"woocommerce/single-product/title.html":              `<h1 class="themed-title">{{.Product.Name}}</h1>`,
		"woocommerce-quick-view/loop/quick-view-button.html": `<a class="theme-button" href="{{.Link}}">peek</a>`,
		"woocommerce-quick-view/extra.html":                  `extra`,
	} {
		full := filepath.Join(theme, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	e := mustSetup(t, withTheme(theme))

	body := e.get(t, "/?wc-api=quick_view&product=12").Body.String()
	if !strings.Contains(body, `<h1 class="themed-title">Beanie</h1>`) {
		t.Error("theme partial not used inside the preview")
	}

	shop := e.get(t, "/shop").Body.String()
	if strings.Contains(shop, "theme-button") || !strings.Contains(shop, "quick-view-button") {
		t.Error("the extension's own button template should take precedence")
	}

	src, ok := e.plugin.Templates().Locate("extra.html")
	if !ok || src.Name != "theme" {
		t.Errorf("extra.html resolved to %v, %v", src.Name, ok)
	}
}

func TestScenarioDefaultButton(t *testing.T) {
	e := mustSetup(t)
	ctx := context.Background()

	if got := e.plugin.Trigger().Mode(ctx); got != settings.TriggerButton {
		t.Fatalf("default mode = %q", got)
	}

	shop := e.get(t, "/shop").Body.String()
	for _, p := range testProducts {
		link := e.plugin.URLs().URL(&p)
		want := `<a href="` + strings.ReplaceAll(link, "&", "&amp;") + `" title="` + p.Name + `" class="quick-view-button button">`
		if !strings.Contains(shop, want) {
			t.Errorf("missing quick view button for product %d: %s", p.ID, want)
		}
	}
	for _, want := range []string{`id="prettyPhoto-js"`, `id="flexslider-js"`, `id="zoom-js"`, `id="wc-add-to-cart-variation-js"`, `id="wc_quick_view-css"`, `id="woocommerce_prettyPhoto_css-css"`} {
		if !strings.Contains(shop, want) {
			t.Errorf("shop page missing %s", want)
		}
	}

	// Follow the button of the hoodie.
	u, err := url.Parse(e.plugin.URLs().URL(product(15)))
	if err != nil {
		t.Fatal(err)
	}
	fragment := e.get(t, u.RequestURI()).Body.String()
	if !strings.Contains(fragment, `id="product-15"`) {
		t.Errorf("preview of clicked product not served:\n%s", fragment)
	}
}

func TestPluginSurface(t *testing.T) {
	e := mustSetup(t)

	w := e.get(t, StylePath)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "a.quick-view-button") {
		t.Errorf("stylesheet: %d", w.Code)
	}

	exts := e.host.Extensions()
	if len(exts) != 1 || exts[0].ID != "woocommerce-quick-view" || len(exts[0].Links) != 2 {
		t.Fatalf("extensions = %+v", exts)
	}
	if exts[0].Links[0].Label != "Support" || exts[0].Links[1].Label != "Docs" {
		t.Errorf("links = %+v", exts[0].Links)
	}

	var found bool
	for _, f := range e.panel.Fields(i18n.Printer(language.English)) {
		if f.ID == settings.OptionTrigger && f.Type == settings.FieldSelect {
			found = true
		}
	}
	if !found {
		t.Error("trigger field not contributed to the general settings")
	}

	entries, err := e.audit.Query(context.Background(), audit.QueryFilter{ScopeID: settings.OptionTrigger})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Action != audit.ActionOptionAdded {
		t.Errorf("audit entries = %+v", entries)
	}
}
