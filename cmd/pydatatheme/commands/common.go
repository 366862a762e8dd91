// Package commands implements the pydatatheme command line.
package commands

import (
	"log/slog"
	"os"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/pydatatheme/internal/config"
	"git.home.luguber.info/inful/pydatatheme/internal/metrics"
	"git.home.luguber.info/inful/pydatatheme/internal/plugin"
	"git.home.luguber.info/inful/pydatatheme/internal/site"
	"git.home.luguber.info/inful/pydatatheme/internal/theme/switcher"
	"git.home.luguber.info/inful/pydatatheme/internal/version"
)

// CLI definition and global flags.
type CLI struct {
	Config  string `short:"c" help:"Project file path" default:"docs.yaml" type:"path"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Build   BuildCmd   `cmd:"" help:"Render the documentation site"`
	Check   CheckCmd   `cmd:"" help:"Validate the project file and theme options without rendering"`
	Watch   WatchCmd   `cmd:"" help:"Rebuild on changes to sources, templates or the project file"`
	Version VersionCmd `cmd:"" help:"Print version information"`

	registry *plugin.Registry
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}

// Registry returns the extension registry used to resolve html_theme.
func (c *CLI) Registry() *plugin.Registry {
	if c.registry == nil {
		return plugin.DefaultRegistry()
	}
	return c.registry
}

// loadProject reads the project file; a non-empty output overrides output_dir.
func loadProject(path, output string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if output != "" {
		abs, err := filepath.Abs(output)
		if err != nil {
			return nil, err
		}
		cfg.OutputDir = abs
	}
	return cfg, nil
}

func newApp(root *CLI, cfg *config.Config, rec metrics.Recorder) (*plugin.App, error) {
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	return site.NewApp(cfg, root.Registry(),
		plugin.WithLogger(slog.Default()),
		plugin.WithRecorder(rec),
		plugin.WithHTTPClient(switcher.NewHTTPClient()),
		plugin.WithVersion(version.Version))
}

func newRecorder() (*prom.Registry, *metrics.PrometheusRecorder) {
	reg := prom.NewRegistry()
	return reg, metrics.NewPrometheusRecorder(reg)
}
