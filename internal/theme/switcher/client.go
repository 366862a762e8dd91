package switcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	ferrors "git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
	"git.home.luguber.info/inful/pydatatheme/internal/retry"
)

const maxManifestBytes = 5 * 1024 * 1024

var fetchPolicy = retry.NewPolicy(retry.Exponential, 250*time.Millisecond, 2*time.Second, 2)

// NewHTTPClient creates an HTTP client for manifest fetches: a 10s timeout,
// redirects only within the original host and at most 5 of them.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 10 * time.Second,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) == 0 {
				return nil
			}
			if req.URL.Host != via[0].URL.Host {
				return errors.New("redirect to different host blocked")
			}
			if len(via) >= 5 {
				return errors.New("too many redirects")
			}
			return nil
		},
	}
}

// IsRemote reports whether source is an http(s) URL.
func IsRemote(source string) bool {
	u, err := url.Parse(source)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// Read loads the manifest at source. Remote sources are fetched with client
// (NewHTTPClient when nil); anything else is a path relative to srcDir.
//
// Errors are classified: network failures and non-2xx answers are
// CategoryNetwork and transport failures or 5xx answers are retried, a missing file is CategoryNotFound and any other file
// problem is CategoryFileSystem.
func Read(ctx context.Context, source, srcDir string, client *http.Client) ([]byte, error) {
	if IsRemote(source) {
		var data []byte
		err := retry.Do(ctx, fetchPolicy, func(ctx context.Context) error {
			var err error
			data, err = fetch(ctx, source, client)
			return err
		})
		return data, err
	}

	path := source
	if !filepath.IsAbs(path) {
		path = filepath.Join(srcDir, source)
	}
	data, err := os.ReadFile(path) // #nosec G304 -- manifest path comes from project config
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ferrors.WrapError(err, ferrors.CategoryNotFound, "switcher file not found").
				WithContext(logfields.KeyPath, path).
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "read switcher file").
			WithContext(logfields.KeyPath, path).
			Build()
	}
	return data, nil
}

func fetch(ctx context.Context, source string, client *http.Client) ([]byte, error) {
	if client == nil {
		client = NewHTTPClient()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, http.NoBody)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "build request").
			WithContext(logfields.KeyURL, source).
			Build()
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, fmt.Sprintf("fetch %s", source)).
			WithContext(logfields.KeyURL, source).
			Retryable().
			Build()
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b := ferrors.NetworkError(fmt.Sprintf("fetch %s: HTTP %d", source, resp.StatusCode)).
			WithContext(logfields.KeyURL, source).
			WithContext(logfields.KeyStatus, resp.StatusCode)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			b = b.Retryable()
		}
		return nil, b.Build()
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestBytes+1))
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryNetwork, "read response").
			WithContext(logfields.KeyURL, source).
			Build()
	}
	if len(data) > maxManifestBytes {
		return nil, ferrors.NetworkError("response too large").
			WithContext(logfields.KeyURL, source).
			Build()
	}
	return data, nil
}
