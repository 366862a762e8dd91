package plugin

import (
	"fmt"
	"slices"
)

// PluginType tells themes from plain extensions.
type PluginType string

const (
	// PluginTypeTheme provides the page layout, components and static files.
	PluginTypeTheme PluginType = "theme"

	// PluginTypeExtension hooks into the build without providing a layout.
	PluginTypeExtension PluginType = "extension"
)

var pluginTypes = []PluginType{PluginTypeTheme, PluginTypeExtension}

// IsValid reports whether t is a known type.
func (t PluginType) IsValid() bool { return slices.Contains(pluginTypes, t) }

// Event names a host extension point.
type Event string

const (
	EventBuilderInited   Event = "builder-inited"
	EventHTMLPageContext Event = "html-page-context"
	EventBuildFinished   Event = "build-finished"

	// EventSetup is not emitted; it names failures of Extension.Setup.
	EventSetup Event = "setup"
)

// PluginError is a failure inside an extension's setup or one of its hooks.
type PluginError struct {
	Extension string
	Event     Event
	Err       error
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("extension %q failed in %s: %v", e.Extension, e.Event, e.Err)
}

func (e *PluginError) Unwrap() error { return e.Err }

// NewPluginError attributes err to the extension name and event ev.
func NewPluginError(name string, ev Event, err error) *PluginError {
	return &PluginError{Extension: name, Event: ev, Err: err}
}
