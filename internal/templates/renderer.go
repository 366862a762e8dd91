// Package templates renders theme layouts and components with html/template.
//
// Templates are looked up by file name across an ordered list of sources.
// User template paths are consulted before the embedded theme, so a project
// can override any component by shipping a file with the same name.
package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"path"
	"strings"
	"sync"

	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
)

// Renderer resolves and executes templates.
type Renderer struct {
	mu      sync.RWMutex
	sources []fs.FS
	cache   map[string]*template.Template
}

// NewRenderer creates a renderer over sources, highest priority first.
func NewRenderer(sources ...fs.FS) *Renderer {
	return &Renderer{sources: sources, cache: make(map[string]*template.Template)}
}

// AppendSource adds a lowest-priority source (theme directories).
func (r *Renderer) AppendSource(fsys fs.FS) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append(r.sources, fsys)
	r.cache = make(map[string]*template.Template)
}

// PrependSource adds a highest-priority source (user template paths).
func (r *Renderer) PrependSource(fsys fs.FS) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sources = append([]fs.FS{fsys}, r.sources...)
	r.cache = make(map[string]*template.Template)
}

// Has reports whether any source provides name.
func (r *Renderer) Has(name string) bool {
	_, _, err := r.lookup(name)
	return err == nil
}

// Render executes the named template against data.
func (r *Renderer) Render(name string, data any) (string, error) {
	tpl, err := r.template(name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", errors.WrapError(err, errors.CategoryTemplate, "failed to render template").
			WithContext("template", name).Build()
	}
	return buf.String(), nil
}

func (r *Renderer) template(name string) (*template.Template, error) {
	r.mu.RLock()
	tpl, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return tpl, nil
	}

	data, _, err := r.lookup(name)
	if err != nil {
		return nil, err
	}
	tpl, err = template.New(name).Funcs(r.funcs()).Parse(string(data))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryTemplate, "failed to parse template").
			WithContext("template", name).Build()
	}

	r.mu.Lock()
	r.cache[name] = tpl
	r.mu.Unlock()
	return tpl, nil
}

func (r *Renderer) lookup(name string) ([]byte, fs.FS, error) {
	clean := path.Clean(strings.TrimPrefix(name, "/"))
	if clean == "." || strings.HasPrefix(clean, "..") {
		return nil, nil, errors.TemplateError(fmt.Sprintf("invalid template name %q", name)).Build()
	}
	r.mu.RLock()
	sources := r.sources
	r.mu.RUnlock()
	for _, src := range sources {
		data, err := fs.ReadFile(src, clean)
		if err == nil {
			return data, src, nil
		}
	}
	return nil, nil, errors.NewError(errors.CategoryNotFound, fmt.Sprintf("template %s not found", name)).
		Fatal().WithContext("template", name).Build()
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		// render includes another template with the given data, honouring overrides.
		"render": func(name string, data any) (template.HTML, error) {
			out, err := r.Render(name, data)
			return template.HTML(out), err // #nosec G203 -- output of html/template
		},
		"join":  strings.Join,
		"lower": strings.ToLower,
		"get": func(m map[string]any, key string) any {
			if m == nil {
				return nil
			}
			return m[key]
		},
	}
}
