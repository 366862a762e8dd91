package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyEvent      = "event"
	KeyExtension  = "extension"
	KeyOption     = "option"
	KeySection    = "section"
	KeyTemplate   = "template"
	KeyPage       = "page"
	KeyPath       = "path"
	KeyURL        = "url"
	KeyKind       = "kind"
	KeyStatus     = "status"
	KeyCount      = "count"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Event(name string) slog.Attr      { return slog.String(KeyEvent, name) }
func Extension(name string) slog.Attr  { return slog.String(KeyExtension, name) }
func Option(name string) slog.Attr     { return slog.String(KeyOption, name) }
func Section(s string) slog.Attr       { return slog.String(KeySection, s) }
func Template(name string) slog.Attr   { return slog.String(KeyTemplate, name) }
func Page(name string) slog.Attr       { return slog.String(KeyPage, name) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func URL(u string) slog.Attr           { return slog.String(KeyURL, u) }
func Kind(k string) slog.Attr          { return slog.String(KeyKind, k) }
func Status(code int) slog.Attr        { return slog.Int(KeyStatus, code) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
