package editlink

import (
	"net/url"
	"strings"

	"github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
)

// Origin is the forge location of a checkout, read from its origin remote.
type Origin struct {
	Prefix  string // "github", "gitlab" or "bitbucket"
	BaseURL string
	User    string
	Repo    string
	Branch  string
}

// DiscoverOrigin opens the git repository containing dir and derives the
// forge coordinates from the origin remote and the checked-out branch.
// Remotes on unknown hosts yield a nil Origin.
func DiscoverOrigin(dir string) (*Origin, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "open repository").
			WithContext(logfields.KeyPath, dir).Build()
	}
	remote, err := repo.Remote("origin")
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryGit, "read origin remote").
			WithContext(logfields.KeyPath, dir).Build()
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return nil, nil
	}
	origin := ParseRemote(urls[0])
	if origin == nil {
		return nil, nil
	}
	if ref, err := repo.Head(); err == nil && ref.Name().IsBranch() {
		origin.Branch = ref.Name().Short()
	}
	return origin, nil
}

// ParseRemote recognizes GitHub, GitLab and Bitbucket clone URLs in https
// or scp-like ssh form.
func ParseRemote(remote string) *Origin {
	if strings.HasPrefix(remote, "git@") {
		parts := strings.SplitN(strings.TrimPrefix(remote, "git@"), ":", 2)
		if len(parts) != 2 {
			return nil
		}
		remote = "https://" + parts[0] + "/" + parts[1]
	}
	u, err := url.Parse(remote)
	if err != nil || u.Host == "" {
		return nil
	}

	var prefix string
	host := u.Hostname()
	switch {
	case strings.Contains(host, "github."):
		prefix = "github"
	case strings.Contains(host, "gitlab."):
		prefix = "gitlab"
	case strings.Contains(host, "bitbucket."):
		prefix = "bitbucket"
	default:
		return nil
	}

	path := strings.TrimSuffix(strings.Trim(u.Path, "/"), ".git")
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return nil
	}
	return &Origin{
		Prefix:  prefix,
		BaseURL: "https://" + host,
		User:    path[:i],
		Repo:    path[i+1:],
	}
}

// ApplyDefaults fills the provider keys of htmlContext from o. Keys the user
// set are kept, and nothing is filled when another provider is configured.
func (o *Origin) ApplyDefaults(htmlContext map[string]any) {
	if o == nil {
		return
	}
	for _, p := range Providers {
		if p.Prefix != o.Prefix && hasAll(htmlContext, []string{p.Prefix + "_user"}) {
			return
		}
	}
	set := func(k, v string) {
		if _, ok := htmlContext[k]; !ok && v != "" {
			htmlContext[k] = v
		}
	}
	set(o.Prefix+"_user", o.User)
	set(o.Prefix+"_repo", o.Repo)
	set(o.Prefix+"_version", o.Branch)
	set(o.Prefix+"_url", o.BaseURL)
}
