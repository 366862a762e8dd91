// Package plugin is the documentation-build host that themes and extensions
// plug into. Extensions register hooks on an App at Setup time; the build
// emits builder-inited once, html-page-context for every page and
// build-finished at the end.
package plugin

import (
	"fmt"
)

// Extension is a theme or extension the host can load.
type Extension interface {
	// Metadata returns the extension's identity.
	Metadata() PluginMetadata

	// Setup registers templates, assets and hooks on the app.
	Setup(app *App) error
}

// PluginMetadata describes an extension.
type PluginMetadata struct {
	// Name is the identifier used in html_theme / extensions.
	Name string

	// Version is the extension version (e.g. "0.14.2").
	Version string

	// Type distinguishes themes from plain extensions.
	Type PluginType

	Description string
	Author      string

	// ParallelSafe reports that hooks may run for several pages concurrently.
	ParallelSafe bool
}

// String returns a human-readable representation of the plugin metadata.
func (m PluginMetadata) String() string {
	return fmt.Sprintf("%s@%s (%s)", m.Name, m.Version, m.Type)
}

// Validate checks if the plugin metadata is valid.
func (m PluginMetadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if !m.Type.IsValid() {
		return fmt.Errorf("invalid plugin type: %s", m.Type)
	}
	return nil
}
