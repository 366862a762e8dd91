// Package assets models the CSS and JavaScript a theme adds to pages and
// injects them into rendered HTML.
package assets

import (
	"maps"
	"slices"
	"sort"
)

// Kind is the asset type.
type Kind string

const (
	CSS Kind = "css"
	JS  Kind = "js"
)

// Loading controls how a script file is fetched.
type Loading string

const (
	LoadBlocking Loading = ""
	LoadDefer    Loading = "defer"
	LoadAsync    Loading = "async"
)

// DefaultPriority orders assets that do not ask for a position.
const DefaultPriority = 500

// Asset is one stylesheet or script. Either Filename or Body is set; an
// asset with a Body is emitted inline.
type Asset struct {
	Kind       Kind
	Filename   string
	Body       string
	Loading    Loading
	Priority   int
	Attributes map[string]string
}

// Inline reports whether the asset carries its content instead of a link.
func (a Asset) Inline() bool { return a.Filename == "" }

func (a Asset) attrKeys() []string {
	keys := slices.Collect(maps.Keys(a.Attributes))
	sort.Strings(keys)
	return keys
}

// List is an ordered, filename-deduplicated set of assets.
type List struct {
	items []Asset
}

// NewList returns a List holding the given assets.
func NewList(items ...Asset) *List {
	l := &List{}
	for _, a := range items {
		l.Add(a)
	}
	return l
}

// Add appends a, returning false when an asset with the same filename is
// already present. Inline assets are always added.
func (l *List) Add(a Asset) bool {
	if a.Priority == 0 {
		a.Priority = DefaultPriority
	}
	if !a.Inline() && l.Contains(a.Filename) {
		return false
	}
	if a.Attributes != nil {
		a.Attributes = maps.Clone(a.Attributes)
	}
	l.items = append(l.items, a)
	return true
}

// Remove drops every asset with the given filename and reports whether any was removed.
func (l *List) Remove(filename string) bool {
	before := len(l.items)
	l.items = slices.DeleteFunc(l.items, func(a Asset) bool { return a.Filename == filename })
	return len(l.items) != before
}

// Contains reports whether an asset with filename is present.
func (l *List) Contains(filename string) bool {
	return slices.ContainsFunc(l.items, func(a Asset) bool { return a.Filename == filename })
}

// Items returns the assets ordered by priority, preserving insertion order
// within equal priorities.
func (l *List) Items() []Asset {
	out := slices.Clone(l.items)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority < out[j].Priority })
	return out
}

// Filenames lists the linked (non-inline) assets in output order.
func (l *List) Filenames() []string {
	var out []string
	for _, a := range l.Items() {
		if !a.Inline() {
			out = append(out, a.Filename)
		}
	}
	return out
}

// Len returns the number of assets.
func (l *List) Len() int { return len(l.items) }

// Clone returns an independent copy.
func (l *List) Clone() *List {
	c := &List{items: make([]Asset, len(l.items))}
	for i, a := range l.items {
		if a.Attributes != nil {
			a.Attributes = maps.Clone(a.Attributes)
		}
		c.items[i] = a
	}
	return c
}
