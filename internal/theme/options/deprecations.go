package options

import (
	"git.home.luguber.info/inful/pydatatheme/internal/diag"
	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
)

// Deprecation rewrites one deprecated option into its replacement.
type Deprecation struct {
	// Old is the deprecated key. The rule fires when its value is truthy.
	Old string
	// Message is logged once when the rule fires.
	Message string
	// Apply moves the value to its new shape and Old is then removed.
	// Nil means warn only and Old stays in place.
	Apply func(opts map[string]any, old any)
}

// Deprecations lists the active deprecation rules in application order.
var Deprecations = []Deprecation{
	{
		Old:     "logo_text",
		Message: "The configuration `logo_text` is deprecated. Use `'logo': {'text': }`.",
		Apply: func(opts map[string]any, old any) {
			logo, ok := opts["logo"].(map[string]any)
			if !ok {
				if Truthy(opts["logo"]) {
					// Left for NormalizeLogo to reject.
					return
				}
				logo = map[string]any{}
			}
			logo["text"] = old
			opts["logo"] = logo
		},
	},
	{
		Old:     "footer_items",
		Message: "`footer_items` is deprecated. Use `footer_start` or `footer_end` instead.",
		Apply: func(opts map[string]any, old any) {
			opts["footer_start"] = old
		},
	},
	{
		Old:     "favicons",
		Message: "The configuration `favicons` is deprecated. Use a dedicated favicon extension instead.",
	},
}

// ApplyDeprecations runs every rule against opts, warning once per rule that fires.
func ApplyDeprecations(opts map[string]any, rep *diag.Reporter) {
	for _, d := range Deprecations {
		old, ok := opts[d.Old]
		if !ok || !Truthy(old) {
			continue
		}
		if d.Apply != nil {
			d.Apply(opts, old)
			delete(opts, d.Old)
		}
		rep.Warn(diag.KindDeprecatedOption, d.Message, logfields.Option(d.Old))
	}

	if v, ok := opts["navigation_with_keys"]; !ok || v == nil {
		rep.Warn(diag.KindDeprecatedOption,
			"The default value for `navigation_with_keys` is `False`. Set `navigation_with_keys: true` "+
				"in `html_theme_options` to enable keyboard page navigation; be aware that it has negative "+
				"accessibility implications.",
			logfields.Option("navigation_with_keys"))
		opts["navigation_with_keys"] = false
	}
}
