package switcher

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pydatatheme/internal/diag"
	ferrors "git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
)

const validManifest = `[
  {"name": "dev", "version": "latest", "url": "https://example.org/latest/"},
  {"name": "v1.0 (stable)", "version": "1.0", "url": "https://example.org/1.0/", "preferred": true}
]`

func serve(t *testing.T, status int, body string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL + "/switcher.json"
}

func newReporter() *diag.Reporter {
	return diag.NewReporter(slog.New(slog.DiscardHandler), nil)
}

func TestFromOptions(t *testing.T) {
	d, err := FromOptions(map[string]any{})
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = FromOptions(map[string]any{"switcher": map[string]any{"json_url": "s.json", "version_match": "1.10"}})
	require.NoError(t, err)
	assert.Equal(t, "s.json", d.JSONURL)
	assert.Equal(t, "1.10", d.VersionMatch)

	_, err = FromOptions(map[string]any{"switcher": map[string]any{"json_url": "s.json"}})
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	assert.Contains(t, err.Error(), "version_match")
}

func TestParse(t *testing.T) {
	entries, err := Parse([]byte(validManifest))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "latest", entries[0].Version)

	pref, ok := Preferred(entries)
	require.True(t, ok)
	assert.Equal(t, "1.0", pref.Version)

	_, err = Parse([]byte(`[{"name": "dev", "url": "x"}]`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Parse([]byte(`{"versions": []}`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Parse([]byte(`not json`))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
}

func TestCheck(t *testing.T) {
	cases := []struct {
		name      string
		url       func(t *testing.T) string
		kind      diag.Kind
		wantErr   bool
		wantCount int
	}{
		{
			name:      "valid remote manifest",
			url:       func(t *testing.T) string { return serve(t, http.StatusOK, validManifest) },
			wantCount: 2,
		},
		{
			name:      "entry without version",
			url:       func(t *testing.T) string { return serve(t, http.StatusOK, `[{"url": "https://x/"}]`) },
			kind:      diag.KindSwitcherMalformed,
			wantCount: 1,
		},
		{
			name: "http 404",
			url:  func(t *testing.T) string { return serve(t, http.StatusNotFound, "nope") },
			kind: diag.KindSwitcherUnread,
		},
		{
			name: "connection refused",
			url: func(t *testing.T) string {
				srv := httptest.NewServer(http.NotFoundHandler())
				u := srv.URL
				srv.Close()
				return u + "/switcher.json"
			},
			kind: diag.KindSwitcherUnread,
		},
		{
			name:    "not json",
			url:     func(t *testing.T) string { return serve(t, http.StatusOK, "<html></html>") },
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rep := newReporter()
			desc := &Descriptor{JSONURL: tc.url(t), VersionMatch: "1.0"}

			entries, err := Check(context.Background(), desc, t.TempDir(), nil, rep, nil)
			if tc.wantErr {
				require.Error(t, err)
				assert.Equal(t, 0, rep.Len())
				return
			}
			require.NoError(t, err)
			assert.Len(t, entries, tc.wantCount)
			if tc.kind == "" {
				assert.Equal(t, 0, rep.Len())
				return
			}
			assert.Equal(t, 1, rep.Len())
			assert.Equal(t, 1, rep.Count(tc.kind))
		})
	}
}

func TestCheck_LocalFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "_static"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_static", "switcher.json"), []byte(validManifest), 0o600))

	rep := newReporter()
	entries, err := Check(context.Background(), &Descriptor{JSONURL: "_static/switcher.json"}, dir, nil, rep, nil)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 0, rep.Len())
}

func TestCheck_MissingLocalFileWarns(t *testing.T) {
	rep := newReporter()
	_, err := Check(context.Background(), &Descriptor{JSONURL: "missing.json"}, t.TempDir(), nil, rep, nil)
	require.NoError(t, err)
	require.Equal(t, 1, rep.Count(diag.KindSwitcherUnread))
	assert.Contains(t, rep.Warnings()[0].Message, `The version switcher "missing.json" file cannot be read due to the following error:`)
}

func TestNewHTTPClient_BlocksCrossHostRedirect(t *testing.T) {
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(validManifest))
	}))
	defer other.Close()
	// 127.0.0.1 and localhost are different hosts as far as the client is concerned.
	target := "http://localhost" + other.URL[len("http://127.0.0.1"):]
	redirector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusFound)
	}))
	defer redirector.Close()

	_, err := Read(context.Background(), redirector.URL, "", NewHTTPClient())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redirect to different host blocked")
}

func TestRead_RetriesServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if hits.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(validManifest))
	}))
	defer srv.Close()

	data, err := Read(context.Background(), srv.URL, "", nil)
	require.NoError(t, err)
	assert.JSONEq(t, validManifest, string(data))
	assert.Equal(t, int32(2), hits.Load())
}

func TestRead_DoesNotRetryNotFound(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Read(context.Background(), srv.URL, "", nil)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNetwork))
	assert.Equal(t, int32(1), hits.Load())
}
