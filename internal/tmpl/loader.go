// Package tmpl resolves HTML templates from an ordered list of sources so
// themes and extensions can override the storefront's markup file by file.
package tmpl

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
)

// Pattern selects template files inside a source.
const Pattern = "**/*.html"

// Source is a named filesystem that may provide templates.
type Source struct {
	Name string
	FS   fs.FS
}

// DirSource returns a source backed by dir. A missing directory provides no
// templates.
func DirSource(name, dir string) Source {
	return Source{Name: name, FS: os.DirFS(dir)}
}

// Loader resolves template names against its sources; the first source
// holding a file wins.
type Loader struct {
	sources []Source
	funcs   template.FuncMap
	cache   bool

	mu  sync.Mutex
	set *template.Template
}

// NewLoader creates a loader. When cache is false every render re-reads
// the sources, which lets theme authors edit templates without a restart.
func NewLoader(funcs template.FuncMap, cache bool, sources ...Source) *Loader {
	return &Loader{sources: sources, funcs: funcs, cache: cache}
}

// Overlay returns a loader that consults sources before l's own.
func (l *Loader) Overlay(sources ...Source) *Loader {
	all := make([]Source, 0, len(sources)+len(l.sources))
	all = append(all, sources...)
	all = append(all, l.sources...)
	return &Loader{sources: all, funcs: l.funcs, cache: l.cache}
}

// Entry describes where a template name resolved.
type Entry struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// Entries lists every template name with the source it resolves to,
// sorted by name.
func (l *Loader) Entries() ([]Entry, error) {
	files, err := l.resolve()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, len(files))
	for i, f := range files {
		entries[i] = Entry{Name: f.name, Source: f.src.Name}
	}
	return entries, nil
}

type resolved struct {
	name string
	src  Source
}

func (l *Loader) resolve() ([]resolved, error) {
	seen := make(map[string]bool)
	var files []resolved
	for _, src := range l.sources {
		matches, err := doublestar.Glob(src.FS, Pattern)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("scanning %s templates: %w", src.Name, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, resolved{name: m, src: src})
			}
		}
	}
	slices.SortFunc(files, func(a, b resolved) int { return strings.Compare(a.name, b.name) })
	return files, nil
}

// Locate returns the source that provides name.
func (l *Loader) Locate(name string) (Source, bool) {
	for _, src := range l.sources {
		if _, err := fs.Stat(src.FS, name); err == nil {
			return src, true
		}
	}
	return Source{}, false
}

// Render executes the template called name with data.
func (l *Loader) Render(w io.Writer, name string, data any) error {
	set, err := l.templates()
	if err != nil {
		return err
	}
	if set.Lookup(name) == nil {
		return fmt.Errorf("template %s not found", name)
	}
	if err := set.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}
	return nil
}

// templates parses every resolved file into one set, each named by its
// path, so templates can include each other with {{template "path" .}}.
func (l *Loader) templates() (*template.Template, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cache && l.set != nil {
		return l.set, nil
	}

	files, err := l.resolve()
	if err != nil {
		return nil, err
	}

	set := template.New("").Funcs(l.funcs)
	for _, f := range files {
		data, err := fs.ReadFile(f.src.FS, f.name)
		if err != nil {
			return nil, fmt.Errorf("reading %s from %s: %w", f.name, f.src.Name, err)
		}
		if _, err := set.New(f.name).Parse(string(data)); err != nil {
			return nil, fmt.Errorf("parsing %s from %s: %w", f.name, f.src.Name, err)
		}
	}

	if l.cache {
		l.set = set
	}
	return set, nil
}
