// Package editlink computes the "Edit this page" URL of a page from the
// forge coordinates in html_context.
package editlink

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
	"git.home.luguber.info/inful/pydatatheme/internal/plugin"
	"git.home.luguber.info/inful/pydatatheme/internal/theme/options"
)

// Provider describes one forge's edit URL layout.
type Provider struct {
	Name       string
	Prefix     string
	DefaultURL string
	Template   string
}

// Providers are tried in order; the first with user, repo and version set wins.
var Providers = []Provider{
	{
		Name:       "Bitbucket",
		Prefix:     "bitbucket",
		DefaultURL: "https://bitbucket.org",
		Template:   "{{.bitbucket_url}}/{{.bitbucket_user}}/{{.bitbucket_repo}}/src/{{.bitbucket_version}}/{{.doc_path}}{{.file_name}}?mode=edit",
	},
	{
		Name:       "GitHub",
		Prefix:     "github",
		DefaultURL: "https://github.com",
		Template:   "{{.github_url}}/{{.github_user}}/{{.github_repo}}/edit/{{.github_version}}/{{.doc_path}}{{.file_name}}",
	},
	{
		Name:       "GitLab",
		Prefix:     "gitlab",
		DefaultURL: "https://gitlab.com",
		Template:   "{{.gitlab_url}}/{{.gitlab_user}}/{{.gitlab_repo}}/-/edit/{{.gitlab_version}}/{{.doc_path}}{{.file_name}}",
	},
}

// Resolve returns the provider name and edit URL for the page described by
// vars. vars must carry pagename and page_source_suffix plus either
// edit_page_url_template or one provider's user, repo and version keys.
// The provider name is empty for custom templates.
func Resolve(vars map[string]any) (string, string, error) {
	data := make(map[string]any, len(vars)+4)
	for k, v := range vars {
		data[k] = v
	}
	data["file_name"] = options.String(vars, "pagename") + options.String(vars, "page_source_suffix")

	docPath := options.String(vars, "doc_path")
	if docPath != "" && !strings.HasSuffix(docPath, "/") {
		docPath += "/"
	}
	data["doc_path"] = docPath

	if custom := options.String(vars, "edit_page_url_template"); custom != "" {
		if !strings.Contains(custom, "file_name") {
			return "", "", errors.ConfigError(
				"Missing required value for `use_edit_page_button`. Ensure `file_name` is in your " +
					"`edit_page_url_template` configuration.").
				WithContext(logfields.KeyOption, "edit_page_url_template").
				Build()
		}
		u, err := render("edit_page_url_template", custom, data)
		return "", u, err
	}

	for _, p := range Providers {
		if _, ok := data[p.Prefix+"_url"]; !ok || options.String(data, p.Prefix+"_url") == "" {
			data[p.Prefix+"_url"] = p.DefaultURL
		}
	}

	for _, p := range Providers {
		if !hasAll(data, p.keys()) {
			continue
		}
		u, err := render(p.Prefix, p.Template, data)
		return p.Name, u, err
	}

	var sets []string
	for _, p := range Providers {
		sets = append(sets, "`" + strings.Join(p.keys(), "`, `") + "`")
	}
	return "", "", errors.ConfigError(
		"Missing required value for `use_edit_page_button`. Ensure one set of the following in your " +
			"`html_context` configuration: " + strings.Join(sets, " or ")).
		WithContext(logfields.KeyOption, "html_context").
		Build()
}

func (p Provider) keys() []string {
	return []string{p.Prefix + "_user", p.Prefix + "_repo", p.Prefix + "_version"}
}

func hasAll(data map[string]any, keys []string) bool {
	for _, k := range keys {
		v := options.String(data, k)
		if v == "" || v == "None" {
			return false
		}
	}
	return true
}

func render(name, tpl string, data map[string]any) (string, error) {
	t, err := template.New(name).Option("missingkey=zero").Parse(tpl)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryConfig, fmt.Sprintf("invalid %s template", name)).
			WithContext(logfields.KeyTemplate, name).Build()
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", errors.WrapError(err, errors.CategoryTemplate, fmt.Sprintf("render %s template", name)).
			WithContext(logfields.KeyTemplate, name).Build()
	}
	return strings.ReplaceAll(buf.String(), "<no value>", ""), nil
}

// Setup sets edit_url and edit_provider on page when the edit button is on.
func Setup(page *plugin.PageContext) error {
	if !options.Bool(page.Vars, "theme_use_edit_page_button", false) {
		return nil
	}
	provider, u, err := Resolve(page.Vars)
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return ce.WithContext(logfields.KeyPage, page.Name)
		}
		return err
	}
	page.Vars["edit_url"] = u
	page.Vars["edit_provider"] = provider
	return nil
}
