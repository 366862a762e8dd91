package options

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/pydatatheme/internal/assets"
	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
)

const gtagTemplate = `
    window.dataLayer = window.dataLayer || [];
    function gtag(){ dataLayer.push(arguments); }
    gtag('js', new Date());
    gtag('config', '%s');
`

// AnalyticsAssets returns the scripts the analytics option asks for.
//
// Plausible needs both plausible_analytics_domain and plausible_analytics_url;
// Google Analytics needs google_analytics_id and yields the loader plus an
// inline configuration script.
func AnalyticsAssets(opts map[string]any) ([]assets.Asset, error) {
	raw := opts["analytics"]
	if !Truthy(raw) {
		return nil, nil
	}
	analytics, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.OptionError("analytics", "`analytics` must be a dictionary, you provided type %s.", TypeName(raw)).Build()
	}

	var out []assets.Asset
	domain := String(analytics, "plausible_analytics_domain")
	url := String(analytics, "plausible_analytics_url")
	if domain != "" && url != "" {
		out = append(out, assets.Asset{
			Kind:       assets.JS,
			Filename:   url,
			Loading:    assets.LoadDefer,
			Attributes: map[string]string{"data-domain": domain},
		})
	}

	if gid := String(analytics, "google_analytics_id"); gid != "" {
		out = append(out,
			assets.Asset{Kind: assets.JS, Filename: "https://www.googletagmanager.com/gtag/js?id=" + gid, Loading: assets.LoadAsync},
			assets.Asset{Kind: assets.JS, Body: fmt.Sprintf(gtagTemplate, JSString(gid))},
		)
	}
	return out, nil
}

var jsEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`, "<", `\x3c`, ">", `\x3e`)

// JSString escapes s for use inside a single-quoted JavaScript string literal.
func JSString(s string) string {
	return jsEscaper.Replace(s)
}
