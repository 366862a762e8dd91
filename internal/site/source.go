package site

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
	"git.home.luguber.info/inful/pydatatheme/internal/theme/options"
	"git.home.luguber.info/inful/pydatatheme/internal/util/sets"
)

// SourceSuffix is the only source format the host reads.
const SourceSuffix = ".md"

// Source is one Markdown document of the project.
type Source struct {
	// Name is the slash-separated path without suffix, e.g. "user/install".
	Name string
	// Path is the file on disk.
	Path        string
	Meta        map[string]any
	Body        []byte
	Fingerprint string

	// Title comes from the title field or the first level-1 heading.
	Title    string
	Rendered *Rendered
}

// Depth is the number of directories above the page.
func (s *Source) Depth() int { return strings.Count(s.Name, "/") }

// URL is the page's output path relative to the site root.
func (s *Source) URL() string { return s.Name + ".html" }

// Weight orders pages in navigation; lower comes first.
func (s *Source) Weight() int {
	switch w := s.Meta["weight"].(type) {
	case int:
		return w
	case float64:
		return int(w)
	}
	return 0
}

// Discover reads every Markdown file under srcDir. Directories whose name
// starts with "." or "_" and the directories in skip are not entered.
func Discover(srcDir string, skip ...string) ([]*Source, error) {
	skipped := sets.New[string]()
	for _, s := range skip {
		if abs, err := filepath.Abs(s); err == nil {
			skipped.Add(abs)
		}
	}

	var out []*Source
	err := filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p == srcDir {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
				return filepath.SkipDir
			}
			if abs, err := filepath.Abs(p); err == nil && skipped.Has(abs) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(p) != SourceSuffix {
			return nil
		}
		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}
		src, err := ReadSource(p, strings.TrimSuffix(filepath.ToSlash(rel), SourceSuffix))
		if err != nil {
			return err
		}
		out = append(out, src)
		return nil
	})
	if err != nil {
		if _, ok := errors.AsClassified(err); ok {
			return nil, err
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "discover sources").
			WithContext(logfields.KeyPath, srcDir).Build()
	}
	return out, nil
}

// ReadSource loads one document and splits off its frontmatter.
func ReadSource(p, name string) (*Source, error) {
	data, err := os.ReadFile(p) // #nosec G304 -- walking the project source dir
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "read source").
			WithContext(logfields.KeyPath, p).Build()
	}
	block, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid frontmatter").
			WithContext(logfields.KeyPath, p).Build()
	}
	meta, err := parseFrontmatter(block)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "invalid frontmatter YAML").
			WithContext(logfields.KeyPath, p).Build()
	}
	fp, err := fingerprint(meta, body)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryInternal, "fingerprint source").
			WithContext(logfields.KeyPath, p).Build()
	}
	return &Source{
		Name:        name,
		Path:        p,
		Meta:        meta,
		Body:        body,
		Fingerprint: fp,
		Title:       options.String(meta, "title"),
	}, nil
}

// SortSources puts rootDoc first, then orders by weight and name.
func SortSources(srcs []*Source, rootDoc string) {
	sort.SliceStable(srcs, func(i, j int) bool {
		a, b := srcs[i], srcs[j]
		if (a.Name == rootDoc) != (b.Name == rootDoc) {
			return a.Name == rootDoc
		}
		if a.Weight() != b.Weight() {
			return a.Weight() < b.Weight()
		}
		return a.Name < b.Name
	})
}

// Parents returns the index pages of the directories above s, outermost
// first, that exist in byName.
func Parents(s *Source, byName map[string]*Source) []*Source {
	var out []*Source
	dir := path.Dir(s.Name)
	var chain []string
	for dir != "." && dir != "/" {
		chain = append([]string{dir + "/index"}, chain...)
		dir = path.Dir(dir)
	}
	for _, name := range chain {
		if name == s.Name {
			continue
		}
		if p, ok := byName[name]; ok {
			out = append(out, p)
		}
	}
	return out
}
