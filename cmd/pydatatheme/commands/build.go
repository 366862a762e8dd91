package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
	"git.home.luguber.info/inful/pydatatheme/internal/logfields"
	"git.home.luguber.info/inful/pydatatheme/internal/metrics"
	"git.home.luguber.info/inful/pydatatheme/internal/site"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string `short:"o" help:"Output directory (overrides output_dir)"`
	Incremental bool   `short:"i" help:"Only re-render pages whose source or context changed"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics in text format to this file" type:"path"`
	Strict      bool   `short:"W" help:"Fail the build when any warning is emitted"`
}

func (b *BuildCmd) Run(ctx context.Context, root *CLI) error {
	cfg, err := loadProject(root.Config, b.Output)
	if err != nil {
		return err
	}
	reg, rec := newRecorder()
	app, err := newApp(root, cfg, rec)
	if err != nil {
		return err
	}

	res, err := site.NewBuilder(app, site.Options{Incremental: b.Incremental}).Build(ctx)
	if b.MetricsFile != "" {
		if werr := metrics.WriteTextfile(b.MetricsFile, reg); werr != nil {
			slog.Warn("Failed to write metrics", logfields.Path(b.MetricsFile), logfields.Error(werr))
		}
	}
	if err != nil {
		return err
	}

	fmt.Printf("Built %d pages (%d unchanged) into %s with %d warnings in %s\n",
		res.Rendered, res.Skipped, cfg.OutputPath(), res.Warnings, res.Duration.Round(time.Millisecond))
	if b.Strict && res.Warnings > 0 {
		return errors.BuildError(fmt.Sprintf("build emitted %d warnings", res.Warnings)).Build()
	}
	return nil
}
