// Package config loads the documentation project file (docs.yaml).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
)

// DefaultTheme is the html_theme used when the project file names none.
const DefaultTheme = "pydata_sphinx_theme"

// Config represents a documentation project.
type Config struct {
	Project   string `yaml:"project"`
	Author    string `yaml:"author,omitempty"`
	Copyright string `yaml:"copyright,omitempty"`
	Release   string `yaml:"release,omitempty"`
	Language  string `yaml:"language,omitempty"`

	SourceDir string `yaml:"source_dir,omitempty"`
	OutputDir string `yaml:"output_dir,omitempty"`

	Extensions    []string `yaml:"extensions,omitempty"`
	TemplatesPath []string `yaml:"templates_path,omitempty"`

	HTMLTheme           string         `yaml:"html_theme,omitempty"`
	HTMLThemeOptions    map[string]any `yaml:"html_theme_options,omitempty"`
	HTMLContext         map[string]any `yaml:"html_context,omitempty"`
	HTMLSidebars        map[string]any `yaml:"html_sidebars,omitempty"`
	HTMLLogo            string         `yaml:"html_logo,omitempty"`
	HTMLStaticPath      []string       `yaml:"html_static_path,omitempty"`
	HTMLPermalinksIcon  string         `yaml:"html_permalinks_icon,omitempty"`
	FontawesomeIncluded bool           `yaml:"fontawesome_included,omitempty"`

	// baseDir is the directory containing the project file; relative
	// source/output/template paths resolve against it.
	baseDir  string
	provided map[string]bool
}

// Load reads the project file, loading .env files next to it first and
// expanding ${VAR} references before parsing.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError(fmt.Sprintf("configuration file not found: %s", path)).
				WithContext(logfields.KeyPath, path).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config file").
			WithContext(logfields.KeyPath, path).Build()
	}

	baseDir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve config directory").Build()
	}
	loadEnvFiles(baseDir)

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		return nil, err
	}
	cfg.baseDir = baseDir
	return cfg, nil
}

// Parse decodes YAML project content, applies defaults and validates it.
func Parse(data []byte) (*Config, error) {
	var keys map[string]any
	if err := yaml.Unmarshal(data, &keys); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err == nil {
		keepLiterals(&doc, cfg.HTMLThemeOptions)
	}
	cfg.provided = make(map[string]bool, len(keys))
	for k := range keys {
		cfg.provided[k] = true
	}
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ProvidedByUser reports whether the top-level key appeared in the project file.
func (c *Config) ProvidedByUser(key string) bool {
	return c.provided[key]
}

// HasExtension reports whether name is listed in extensions.
func (c *Config) HasExtension(name string) bool {
	for _, ext := range c.Extensions {
		if ext == name {
			return true
		}
	}
	return false
}

// BaseDir returns the directory the project file was loaded from, or the
// working directory for parsed configs.
func (c *Config) BaseDir() string {
	if c.baseDir == "" {
		wd, _ := os.Getwd()
		return wd
	}
	return c.baseDir
}

// SetBaseDir overrides the directory relative paths resolve against.
func (c *Config) SetBaseDir(dir string) { c.baseDir = dir }

// Resolve joins p onto BaseDir unless it is absolute.
func (c *Config) Resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.BaseDir(), p)
}

// SourcePath is the absolute source directory.
func (c *Config) SourcePath() string { return c.Resolve(c.SourceDir) }

// OutputPath is the absolute output directory.
func (c *Config) OutputPath() string { return c.Resolve(c.OutputDir) }

func (c *Config) applyDefaults() error {
	if c.Project == "" {
		c.Project = "Documentation"
	}
	if c.SourceDir == "" {
		c.SourceDir = "."
	}
	if c.OutputDir == "" {
		c.OutputDir = filepath.Join("_build", "html")
	}
	if c.HTMLTheme == "" {
		c.HTMLTheme = DefaultTheme
	}
	if c.HTMLThemeOptions == nil {
		c.HTMLThemeOptions = map[string]any{}
	}
	if c.HTMLContext == nil {
		c.HTMLContext = map[string]any{}
	}
	if c.Language == "" {
		c.Language = "en"
	}
	tag, err := language.Parse(c.Language)
	if err != nil {
		return errors.ConfigError(fmt.Sprintf("invalid language %q", c.Language)).
			WithContext("option", "language").Build()
	}
	c.Language = tag.String()
	return nil
}
