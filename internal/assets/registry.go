// Package assets tracks the scripts and styles a storefront page needs and
// renders them as HTML tags in dependency order.
package assets

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"sync"
)

// Script is a registered JavaScript asset.
type Script struct {
	Handle  string
	Src     string
	Deps    []string
	Version string
}

// Style is a registered stylesheet.
type Style struct {
	Handle  string
	Src     string
	Deps    []string
	Version string
}

// Registry collects the assets of a single page render. A Registry is safe
// for concurrent use, though pages normally use it from one goroutine.
type Registry struct {
	mu          sync.Mutex
	scripts     map[string]Script
	styles      map[string]Style
	scriptQueue []string
	styleQueue  []string
	inline      map[string][]string
	queuedJS    []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		scripts: make(map[string]Script),
		styles:  make(map[string]Style),
		inline:  make(map[string][]string),
	}
}

// RegisterScript makes a script available for enqueueing. Registering an
// existing handle is a no-op.
func (r *Registry) RegisterScript(s Script) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.scripts[s.Handle]; !ok {
		r.scripts[s.Handle] = s
	}
}

// RegisterStyle makes a stylesheet available for enqueueing.
func (r *Registry) RegisterStyle(s Style) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.styles[s.Handle]; !ok {
		r.styles[s.Handle] = s
	}
}

// EnqueueScript queues a script for output. When s.Src is empty the handle
// must refer to an already registered script.
func (r *Registry) EnqueueScript(s Script) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.scripts[s.Handle]; !ok && s.Src != "" {
		r.scripts[s.Handle] = s
	}
	r.scriptQueue = appendUnique(r.scriptQueue, s.Handle)
}

// EnqueueStyle queues a stylesheet for output.
func (r *Registry) EnqueueStyle(s Style) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.styles[s.Handle]; !ok && s.Src != "" {
		r.styles[s.Handle] = s
	}
	r.styleQueue = appendUnique(r.styleQueue, s.Handle)
}

// AddInlineScript attaches code that is printed right after the script
// with the given handle.
func (r *Registry) AddInlineScript(handle, code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.inline[handle] = append(r.inline[handle], code)
}

// EnqueueJS queues code for the page's single document-ready block.
func (r *Registry) EnqueueJS(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queuedJS = append(r.queuedJS, code)
}

// ScriptEnqueued reports whether handle is queued for output.
func (r *Registry) ScriptEnqueued(handle string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.scriptQueue {
		if h == handle {
			return true
		}
	}
	return false
}

// StyleEnqueued reports whether handle is queued for output.
func (r *Registry) StyleEnqueued(handle string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.styleQueue {
		if h == handle {
			return true
		}
	}
	return false
}

// InlineScripts returns the inline code attached to handle.
func (r *Registry) InlineScripts(handle string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.inline[handle]...)
}

// QueuedJS returns the code queued with EnqueueJS.
func (r *Registry) QueuedJS() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queuedJS...)
}

// Scripts returns the queued scripts and their dependencies, dependencies
// first.
func (r *Registry) Scripts() ([]Script, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, err := resolve(r.scriptQueue, func(h string) ([]string, bool) {
		s, ok := r.scripts[h]
		return s.Deps, ok
	})
	if err != nil {
		return nil, fmt.Errorf("resolving scripts: %w", err)
	}
	out := make([]Script, len(order))
	for i, h := range order {
		out[i] = r.scripts[h]
	}
	return out, nil
}

// Styles returns the queued stylesheets and their dependencies,
// dependencies first.
func (r *Registry) Styles() ([]Style, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, err := resolve(r.styleQueue, func(h string) ([]string, bool) {
		s, ok := r.styles[h]
		return s.Deps, ok
	})
	if err != nil {
		return nil, fmt.Errorf("resolving styles: %w", err)
	}
	out := make([]Style, len(order))
	for i, h := range order {
		out[i] = r.styles[h]
	}
	return out, nil
}

// resolve orders handles so every dependency precedes its dependents.
func resolve(queue []string, deps func(string) ([]string, bool)) ([]string, error) {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int)
	var order []string

	var visit func(h string, from string) error
	visit = func(h string, from string) error {
		switch state[h] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("dependency cycle at %q", h)
		}
		d, ok := deps(h)
		if !ok {
			if from == "" {
				return fmt.Errorf("%q is not registered", h)
			}
			return fmt.Errorf("%q depends on unregistered %q", from, h)
		}
		state[h] = visiting
		for _, dep := range d {
			if err := visit(dep, h); err != nil {
				return err
			}
		}
		state[h] = done
		order = append(order, h)
		return nil
	}

	for _, h := range queue {
		if err := visit(h, ""); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}

// versioned appends a ver query parameter to src.
func versioned(src, version string) string {
	if version == "" {
		return src
	}
	u, err := url.Parse(src)
	if err != nil {
		return src
	}
	q := u.Query()
	q.Set("ver", version)
	u.RawQuery = q.Encode()
	return u.String()
}

var (
	styleTmpl = template.Must(template.New("styles").Parse(
		`{{range .}}<link rel="stylesheet" id="{{.ID}}" href="{{.Href}}" media="all">
{{end}}`))

	scriptTmpl = template.Must(template.New("scripts").Parse(
		`{{range .Tags}}{{if .Src}}<script id="{{.ID}}" src="{{.Src}}"></script>
{{end}}{{range .Inline}}<script>{{.}}</script>
{{end}}{{end}}{{if .Ready}}<script>jQuery(function($) {
{{.Ready}}
});</script>
{{end}}`))
)

// StyleTags renders <link> tags for the queued stylesheets.
func (r *Registry) StyleTags() (template.HTML, error) {
	styles, err := r.Styles()
	if err != nil {
		return "", err
	}
	type tag struct{ ID, Href string }
	tags := make([]tag, 0, len(styles))
	for _, s := range styles {
		if s.Src == "" {
			continue
		}
		tags = append(tags, tag{ID: s.Handle + "-css", Href: versioned(s.Src, s.Version)})
	}
	var buf bytes.Buffer
	if err := styleTmpl.Execute(&buf, tags); err != nil {
		return "", fmt.Errorf("rendering styles: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// ScriptTags renders <script> tags for the queued scripts, each followed by
// its inline code, then the document-ready block built from EnqueueJS.
func (r *Registry) ScriptTags() (template.HTML, error) {
	scripts, err := r.Scripts()
	if err != nil {
		return "", err
	}
	type tag struct {
		ID, Src string
		Inline  []template.JS
	}
	var data struct {
		Tags  []tag
		Ready template.JS
	}
	for _, s := range scripts {
		t := tag{ID: s.Handle + "-js"}
		if s.Src != "" {
			t.Src = versioned(s.Src, s.Version)
		}
		for _, code := range r.InlineScripts(s.Handle) {
			t.Inline = append(t.Inline, template.JS(code))
		}
		data.Tags = append(data.Tags, t)
	}
	if js := r.QueuedJS(); len(js) > 0 {
		data.Ready = template.JS(strings.Join(js, "\n"))
	}

	var buf bytes.Buffer
	if err := scriptTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering scripts: %w", err)
	}
	return template.HTML(buf.String()), nil
}
