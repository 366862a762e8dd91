package options

import (
	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
)

// ListOfMaps validates that opts[key] is a list of maps carrying every key in
// required. A missing or nil value becomes an empty list. defaults fill
// absent optional keys of each entry.
func ListOfMaps(opts map[string]any, key string, required []string, defaults map[string]any) ([]any, error) {
	raw, ok := opts[key]
	if !ok || raw == nil {
		opts[key] = []any{}
		return opts[key].([]any), nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, errors.OptionError(key, "`%s` must be a list of dictionaries, you provided type %s.", key, TypeName(raw)).
			WithContext("type", TypeName(raw)).
			Build()
	}
	for i, item := range list {
		entry, ok := item.(map[string]any)
		if !ok {
			return nil, errors.OptionError(key, "`%s[%d]` must be a dictionary, you provided type %s.", key, i, TypeName(item)).
				Build()
		}
		for _, req := range required {
			if _, ok := entry[req]; !ok {
				return nil, errors.OptionError(key, "`%s[%d]` is missing the required key %q.", key, i, req).
					WithContext("key", req).
					Build()
			}
		}
		for k, v := range defaults {
			if _, ok := entry[k]; !ok {
				entry[k] = v
			}
		}
	}
	return list, nil
}

// ValidateIconLinks checks icon_links and fills each entry's type.
func ValidateIconLinks(opts map[string]any) error {
	_, err := ListOfMaps(opts, "icon_links", []string{"name", "url", "icon"}, map[string]any{"type": "fontawesome"})
	return err
}

// ValidateExternalLinks checks external_links entries carry name and url.
func ValidateExternalLinks(opts map[string]any) error {
	_, err := ListOfMaps(opts, "external_links", []string{"name", "url"}, nil)
	return err
}

// Shortcut is an option that expands into an icon_links entry.
type Shortcut struct {
	Key  string
	Icon string
	Name string
}

// Shortcuts are applied in order, each prepending, so the last one listed
// ends up first.
var Shortcuts = []Shortcut{
	{"twitter_url", "fa-brands fa-square-twitter", "Twitter"},
	{"bitbucket_url", "fa-brands fa-bitbucket", "Bitbucket"},
	{"gitlab_url", "fa-brands fa-square-gitlab", "GitLab"},
	{"github_url", "fa-brands fa-square-github", "GitHub"},
}

// ApplyShortcuts prepends an icon link for every set shortcut option.
// icon_links must already be validated.
func ApplyShortcuts(opts map[string]any) {
	links, _ := opts["icon_links"].([]any)
	for _, sc := range Shortcuts {
		url := opts[sc.Key]
		if !Truthy(url) {
			continue
		}
		entry := map[string]any{"url": url, "icon": sc.Icon, "name": sc.Name, "type": "fontawesome"}
		links = append([]any{entry}, links...)
	}
	if links == nil {
		links = []any{}
	}
	opts["icon_links"] = links
}

// NormalizeLogo ensures logo is a map, turning empty values into {}.
func NormalizeLogo(opts map[string]any) error {
	raw := opts["logo"]
	if !Truthy(raw) {
		opts["logo"] = map[string]any{}
		return nil
	}
	if _, ok := raw.(map[string]any); !ok {
		return errors.OptionError("logo", "Incorrect logo config type: %s", TypeName(raw)).
			WithContext("type", TypeName(raw)).
			Build()
	}
	return nil
}
