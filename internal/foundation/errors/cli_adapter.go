package errors

import (
	"context"
	"log/slog"
)

// exitCodes maps categories to process exit codes. Unclassified errors
// exit with 1.
var exitCodes = map[Category]int{
	CategoryValidation: 2,
	CategoryConfig:     7,
	CategoryNetwork:    8,
	CategoryGit:        8,
	CategoryInternal:   10,
	CategoryBuild:      11,
	CategoryTemplate:   11,
	CategoryFileSystem: 11,
	CategoryNotFound:   11,
}

// CLIErrorAdapter presents errors returned by a command.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates an adapter; a nil logger means slog.Default().
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{verbose: verbose, logger: logger}
}

// ExitCodeFor returns the exit code for err, 0 for nil.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	ce, ok := AsClassified(err)
	if !ok {
		return 1
	}
	if code, ok := exitCodes[ce.Category()]; ok {
		return code
	}
	return 1
}

// FormatError renders err for the terminal. Configuration problems are
// written for the user and shown without the wrapping chain unless verbose.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}
	ce, ok := AsClassified(err)
	if !ok || a.verbose {
		return "Error: " + err.Error()
	}
	switch ce.Category() {
	case CategoryConfig, CategoryValidation:
		return "Configuration error: " + ce.Message()
	default:
		return "Error: " + ce.Error()
	}
}

// Log records err with its category and fields.
func (a *CLIErrorAdapter) Log(err error) {
	if err == nil {
		return
	}
	ce, ok := AsClassified(err)
	if !ok {
		a.logger.Error("Command failed", slog.String("error", err.Error()))
		return
	}
	attrs := append([]slog.Attr{slog.String("category", string(ce.Category()))}, ce.fields.Attrs()...)
	if ce.Cause() != nil {
		attrs = append(attrs, slog.String("error", ce.Cause().Error()))
	}
	level := slog.LevelError
	if ce.Severity() == SeverityWarning {
		level = slog.LevelWarn
	}
	a.logger.LogAttrs(context.Background(), level, ce.Message(), attrs...)
}
