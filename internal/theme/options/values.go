package options

import (
	"fmt"
	"reflect"
)

// Truthy reports whether v counts as "set": nil, false, zero numbers, empty
// strings and empty collections do not.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// TypeName describes the shape of a decoded option value for error messages.
func TypeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "bool"
	case int, int64:
		return "int"
	case float64:
		return "float"
	case map[string]any:
		return "map"
	case []any:
		return "list"
	}
	return fmt.Sprintf("%T", v)
}

// Map returns opts[key] as a map, reporting whether it was one.
func Map(opts map[string]any, key string) (map[string]any, bool) {
	m, ok := opts[key].(map[string]any)
	return m, ok
}

// String returns opts[key] formatted as a string; missing keys yield "".
func String(opts map[string]any, key string) string {
	v, ok := opts[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Bool returns opts[key] as a bool, falling back to def when unset.
func Bool(opts map[string]any, key string, def bool) bool {
	v, ok := opts[key]
	if !ok || v == nil {
		return def
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return Truthy(v)
}
