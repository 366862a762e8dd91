package plugin

import "git.home.luguber.info/inful/pydatatheme/internal/assets"

// PageContext is the render context of one page. Hooks mutate it in place.
type PageContext struct {
	// Name is the page name without suffix, e.g. "user/install".
	Name string

	// Template is the layout rendered for the page.
	Template string

	// Vars is the template context.
	Vars map[string]any

	// CSS and JS are the page's asset lists, seeded from the app's.
	CSS *assets.List
	JS  *assets.List
}

// Get returns a context variable.
func (p *PageContext) Get(key string) any { return p.Vars[key] }

// Set assigns a context variable.
func (p *PageContext) Set(key string, v any) { p.Vars[key] = v }

// GetString returns a string variable, or "" if absent or not a string.
func (p *PageContext) GetString(key string) string {
	if v, ok := p.Vars[key].(string); ok {
		return v
	}
	return ""
}

// GetBool returns a boolean variable, or false if absent or not a bool.
func (p *PageContext) GetBool(key string) bool {
	if v, ok := p.Vars[key].(bool); ok {
		return v
	}
	return false
}

// AddJSFile adds a script to this page only.
func (p *PageContext) AddJSFile(a assets.Asset) {
	a.Kind = assets.JS
	p.JS.Add(a)
}

// AddCSSFile adds a stylesheet to this page only.
func (p *PageContext) AddCSSFile(a assets.Asset) {
	a.Kind = assets.CSS
	p.CSS.Add(a)
}

// Assets returns the page's stylesheets followed by its scripts.
func (p *PageContext) Assets() []assets.Asset {
	return append(p.CSS.Items(), p.JS.Items()...)
}
