package site

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
)

// BuildInfoFile is written to the output root after every build.
const BuildInfoFile = ".buildinfo.json"

// BuildInfo records what an output directory was built from, so that an
// incremental build can tell which pages are still current.
type BuildInfo struct {
	BuildID      string            `json:"build_id"`
	Config       string            `json:"config"`
	ThemeVersion string            `json:"theme_version"`
	Nav          string            `json:"nav"`
	Templates    string            `json:"templates"`
	Pages        map[string]string `json:"pages"`
}

// Compatible reports whether pages built under other can be reused under b.
func (b *BuildInfo) Compatible(other *BuildInfo) bool {
	return other != nil && b.Config == other.Config && b.ThemeVersion == other.ThemeVersion && b.Nav == other.Nav &&
		b.Templates == other.Templates
}

// LoadBuildInfo reads outDir's build info; a missing file yields nil.
func LoadBuildInfo(outDir string) (*BuildInfo, error) {
	p := filepath.Join(outDir, BuildInfoFile)
	data, err := os.ReadFile(p) // #nosec G304 -- inside the output dir
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read build info").
			WithContext(logfields.KeyPath, p).Build()
	}
	var info BuildInfo
	if err := json.Unmarshal(data, &info); err != nil {
		// A corrupt file only costs a full rebuild.
		return nil, nil
	}
	return &info, nil
}

// Save writes b into outDir.
func (b *BuildInfo) Save(outDir string) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "encode build info").Build()
	}
	p := filepath.Join(outDir, BuildInfoFile)
	if err := os.WriteFile(p, append(data, '\n'), 0o600); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "write build info").
			WithContext(logfields.KeyPath, p).Build()
	}
	return nil
}

// navHash covers every page's name and title; a change alters the
// navigation of every page.
func navHash(srcs []*Source) string {
	h := sha256.New()
	for _, s := range srcs {
		h.Write([]byte(s.Name))
		h.Write([]byte{0})
		h.Write([]byte(s.Title))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// templatesHash covers the path and content of every file under dirs, in
// order. Overrides apply to every page, so any edit invalidates them all.
func templatesHash(dirs []string) (string, error) {
	h := sha256.New()
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			data, err := os.ReadFile(p) // #nosec G304 -- inside templates_path
			if err != nil {
				return err
			}
			rel, _ := filepath.Rel(dir, p)
			h.Write([]byte(filepath.ToSlash(rel)))
			h.Write([]byte{0})
			h.Write(data)
			h.Write([]byte{0})
			return nil
		})
		if err != nil {
			return "", errors.WrapError(err, errors.CategoryFileSystem, "hash templates_path").
				WithContext(logfields.KeyPath, dir).Build()
		}
		h.Write([]byte{1})
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
