package commands

import (
	"context"
	"fmt"
)

// CheckCmd runs the theme's configuration pass only: option
// normalization, validation and the version switcher check.
type CheckCmd struct{}

func (c *CheckCmd) Run(ctx context.Context, root *CLI) error {
	cfg, err := loadProject(root.Config, "")
	if err != nil {
		return err
	}
	app, err := newApp(root, cfg, nil)
	if err != nil {
		return err
	}
	if err := app.EmitBuilderInited(ctx); err != nil {
		return err
	}
	for _, w := range app.Reporter.Warnings() {
		fmt.Printf("WARNING [%s] %s\n", w.Kind, w.Message)
	}
	fmt.Printf("%s: configuration OK (%d warnings)\n", root.Config, app.Reporter.Len())
	return nil
}
