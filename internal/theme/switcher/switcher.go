// Package switcher reads and checks the version switcher manifest: a JSON
// list of documentation versions the version dropdown is built from.
package switcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"git.home.luguber.info/inful/pydatatheme/internal/diag"
	ferrors "git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
	"git.home.luguber.info/inful/pydatatheme/internal/metrics"
	"git.home.luguber.info/inful/pydatatheme/internal/theme/options"
)

// ErrMalformed marks a manifest that is valid JSON but not a list of
// records carrying both url and version.
var ErrMalformed = errors.New("switcher manifest is malformed")

// Descriptor is the switcher theme option.
type Descriptor struct {
	JSONURL      string
	VersionMatch string
}

// Entry is one manifest record.
type Entry struct {
	Name      string
	Version   string
	URL       string
	Preferred bool
}

// FromOptions extracts the switcher descriptor from theme options. It returns
// nil without error when no switcher map is configured.
func FromOptions(opts map[string]any) (*Descriptor, error) {
	sw, ok := options.Map(opts, "switcher")
	if !ok {
		return nil, nil
	}
	for _, key := range []string{"json_url", "version_match"} {
		if _, ok := sw[key]; !ok {
			return nil, ferrors.OptionError("switcher", "`switcher` is missing the required key %q.", key).
				WithContext("key", key).
				Build()
		}
	}
	return &Descriptor{
		JSONURL:      options.String(sw, "json_url"),
		VersionMatch: options.String(sw, "version_match"),
	}, nil
}

// Parse decodes a manifest. Data that is not JSON yields a validation error;
// JSON of the wrong shape yields the entries it could read and an error
// wrapping ErrMalformed.
func Parse(data []byte) ([]Entry, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryValidation, "switcher manifest is not valid JSON").Build()
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected a list, got %s", ErrMalformed, options.TypeName(raw))
	}

	entries := make([]Entry, 0, len(list))
	malformed := false
	for _, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			malformed = true
			continue
		}
		_, hasURL := rec["url"]
		_, hasVersion := rec["version"]
		if !hasURL || !hasVersion {
			malformed = true
		}
		entries = append(entries, Entry{
			Name:      options.String(rec, "name"),
			Version:   options.String(rec, "version"),
			URL:       options.String(rec, "url"),
			Preferred: options.Bool(rec, "preferred", false),
		})
	}
	if malformed {
		return entries, fmt.Errorf("%w: at least one of the items is missing the \"url\" or \"version\" key", ErrMalformed)
	}
	return entries, nil
}

// Check reads and validates the manifest named by desc. Unreadable or
// malformed manifests are reported through rep and the build goes on;
// only a manifest that is not JSON at all fails.
func Check(ctx context.Context, desc *Descriptor, srcDir string, client *http.Client,
	rep *diag.Reporter, rec metrics.Recorder,
) ([]Entry, error) {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	source := "local"
	if IsRemote(desc.JSONURL) {
		source = "remote"
	}
	start := time.Now()

	data, err := Read(ctx, desc.JSONURL, srcDir, client)
	if err != nil {
		if ferrors.HasCategory(err, ferrors.CategoryFileSystem) {
			rec.ObserveManifestFetch(source, time.Since(start), metrics.ResultFailed)
			return nil, err
		}
		rec.ObserveManifestFetch(source, time.Since(start), metrics.ResultWarning)
		rep.Warn(diag.KindSwitcherUnread,
			fmt.Sprintf("The version switcher %q file cannot be read due to the following error:\n%v", desc.JSONURL, err),
			logfields.URL(desc.JSONURL))
		return nil, nil
	}

	entries, err := Parse(data)
	switch {
	case errors.Is(err, ErrMalformed):
		rec.ObserveManifestFetch(source, time.Since(start), metrics.ResultWarning)
		rep.Warn(diag.KindSwitcherMalformed,
			fmt.Sprintf("The version switcher %q file is malformed at least one of the items is missing the \"url\" or \"version\" key", desc.JSONURL),
			logfields.URL(desc.JSONURL))
		return entries, nil
	case err != nil:
		rec.ObserveManifestFetch(source, time.Since(start), metrics.ResultFailed)
		if ce, ok := ferrors.AsClassified(err); ok {
			return nil, ce.WithContext(logfields.KeyURL, desc.JSONURL)
		}
		return nil, err
	}
	rec.ObserveManifestFetch(source, time.Since(start), metrics.ResultSuccess)
	return entries, nil
}

// Preferred returns the entry marked preferred, or the first one.
func Preferred(entries []Entry) (Entry, bool) {
	for _, e := range entries {
		if e.Preferred {
			return e, true
		}
	}
	if len(entries) == 0 {
		return Entry{}, false
	}
	return entries[0], true
}
