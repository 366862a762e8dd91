package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pydatatheme/cmd/pydatatheme/commands"
	"git.home.luguber.info/inful/pydatatheme/internal/foundation/errors"
	_ "git.home.luguber.info/inful/pydatatheme/internal/theme"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	var cli commands.CLI
	parser := kong.Parse(&cli,
		kong.Name("pydatatheme"),
		kong.Description("Build documentation sites with the PyData theme."),
		kong.UsageOnError(),
		kong.BindTo(ctx, (*context.Context)(nil)))

	err := parser.Run(&cli)
	stop()
	if err != nil {
		adapter := errors.NewCLIErrorAdapter(cli.Verbose, slog.Default())
		if cli.Verbose {
			adapter.Log(err)
		}
		fmt.Fprintln(os.Stderr, adapter.FormatError(err))
		os.Exit(adapter.ExitCodeFor(err))
	}
}
