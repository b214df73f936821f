package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roomsmith/roomsmith/pkg/pipeline"
	"github.com/roomsmith/roomsmith/pkg/resolve"
	"github.com/roomsmith/roomsmith/pkg/scene"
)

// resolveCommand creates the resolve command for layout computation.
func (c *CLI) resolveCommand() *cobra.Command {
	var (
		output       string
		defaultsPath string
	)

	cmd := &cobra.Command{
		Use:   "resolve <scene.(json|yaml)>",
		Short: "Compute a collision-free layout from a scene file",
		Long: `Compute a collision-free layout from a scene file.

Objects are placed in dependency order: anchor targets first, then the
objects anchored to them. Placement scans a fixed grid, so the same scene
always yields the same layout. The output is a layout.json listing one
placement per object, with transforms in centimeters.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResolve(cmd.Context(), args[0], output, defaultsPath)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVar(&defaultsPath, "defaults", "", "TOML file overriding built-in size tables")

	return cmd
}

// runResolve loads the scene, resolves it, and writes the layout.
func (c *CLI) runResolve(ctx context.Context, input, output, defaultsPath string) error {
	d, err := loadDefaults(defaultsPath)
	if err != nil {
		return err
	}

	s, err := pipeline.LoadSceneFile(input, d)
	if err != nil {
		return err
	}
	if err := scene.Validate(s); err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Placing objects...")
	spinner.Start()

	layout, err := resolve.Resolve(ctx, s, resolve.Options{Defaults: d, Logger: c.Logger})
	if err != nil {
		spinner.StopWithError("Placement failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	data, err := json.MarshalIndent(layout, "", "  ")
	if err != nil {
		return fmt.Errorf("encode layout: %w", err)
	}
	if err := writeOutput(outputPath, append(data, '\n')); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(s.Rooms), len(layout.Placements), len(layout.Warnings))
	for _, w := range layout.Warnings {
		printWarning("%s", w)
	}
	printNewline()
	printNextStep("Apply", "roomsmith build --scene "+input+" --apply --engine http://localhost:8080")
	return nil
}
