package editlink

import (
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
)

func pageVars(extra map[string]any) map[string]any {
	vars := map[string]any{"pagename": "user/install", "page_source_suffix": ".md"}
	for k, v := range extra {
		vars[k] = v
	}
	return vars
}

func TestResolve_Providers(t *testing.T) {
	cases := []struct {
		name     string
		ctx      map[string]any
		provider string
		want     string
	}{
		{
			name:     "github",
			ctx:      map[string]any{"github_user": "pydata", "github_repo": "theme", "github_version": "main", "doc_path": "docs"},
			provider: "GitHub",
			want:     "https://github.com/pydata/theme/edit/main/docs/user/install.md",
		},
		{
			name:     "gitlab with enterprise url",
			ctx:      map[string]any{"gitlab_url": "https://gitlab.example.org", "gitlab_user": "g", "gitlab_repo": "r", "gitlab_version": "v1", "doc_path": "docs/"},
			provider: "GitLab",
			want:     "https://gitlab.example.org/g/r/-/edit/v1/docs/user/install.md",
		},
		{
			name:     "bitbucket without doc_path",
			ctx:      map[string]any{"bitbucket_user": "b", "bitbucket_repo": "r", "bitbucket_version": "dev"},
			provider: "Bitbucket",
			want:     "https://bitbucket.org/b/r/src/dev/user/install.md?mode=edit",
		},
		{
			name: "custom template",
			ctx:  map[string]any{"edit_page_url_template": "https://edit.example.org/{{.file_name}}"},
			want: "https://edit.example.org/user/install.md",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider, u, err := Resolve(pageVars(tc.ctx))
			require.NoError(t, err)
			assert.Equal(t, tc.provider, provider)
			assert.Equal(t, tc.want, u)
		})
	}
}

func TestResolve_MissingKeys(t *testing.T) {
	_, _, err := Resolve(pageVars(map[string]any{"github_user": "pydata", "github_repo": "None"}))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))
	assert.Contains(t, err.Error(), "`github_user`, `github_repo`, `github_version`")

	_, _, err = Resolve(pageVars(map[string]any{"edit_page_url_template": "https://x/{{.pagename}}"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file_name")
}

func TestParseRemote(t *testing.T) {
	o := ParseRemote("git@github.com:pydata/pydata-sphinx-theme.git")
	require.NotNil(t, o)
	assert.Equal(t, Origin{Prefix: "github", BaseURL: "https://github.com", User: "pydata", Repo: "pydata-sphinx-theme"}, *o)

	o = ParseRemote("https://gitlab.com/group/sub/project")
	require.NotNil(t, o)
	assert.Equal(t, "group/sub", o.User)
	assert.Equal(t, "project", o.Repo)

	assert.Nil(t, ParseRemote("https://git.example.org/a/b.git"))
	assert.Nil(t, ParseRemote("/srv/git/repo"))
}

func TestDiscoverOrigin(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{"https://github.com/acme/docs.git"}})
	require.NoError(t, err)

	o, err := DiscoverOrigin(dir)
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, "acme", o.User)
	assert.Equal(t, "docs", o.Repo)

	_, err = DiscoverOrigin(t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryGit))
}

func TestApplyDefaults(t *testing.T) {
	o := &Origin{Prefix: "github", BaseURL: "https://github.com", User: "acme", Repo: "docs", Branch: "main"}

	ctx := map[string]any{"github_version": "stable"}
	o.ApplyDefaults(ctx)
	assert.Equal(t, "acme", ctx["github_user"])
	assert.Equal(t, "stable", ctx["github_version"])

	ctx = map[string]any{"gitlab_user": "someone"}
	o.ApplyDefaults(ctx)
	assert.NotContains(t, ctx, "github_user")
}
