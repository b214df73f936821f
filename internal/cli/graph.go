package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roomsmith/roomsmith/pkg/pipeline"
	"github.com/roomsmith/roomsmith/pkg/resolve"
)

// graphCommand creates the graph command for anchor graph rendering.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		output       string
		format       string
		defaultsPath string
	)

	cmd := &cobra.Command{
		Use:   "graph <scene.(json|yaml)>",
		Short: "Render the anchor graph as DOT, SVG, or PNG",
		Long: `Render the anchor graph of a scene.

Rooms become clusters, objects become nodes, and anchors become edges
labeled with their relation. Useful for checking what depends on what
before resolving. SVG and PNG output is rendered through graphviz; DOT
output can be piped into other tooling.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd.Context(), args[0], output, format, defaultsPath)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg, png, dot")
	cmd.Flags().StringVar(&defaultsPath, "defaults", "", "TOML file overriding built-in size tables")

	return cmd
}

// runGraph loads the scene and writes the anchor graph.
func (c *CLI) runGraph(ctx context.Context, input, output, format, defaultsPath string) error {
	d, err := loadDefaults(defaultsPath)
	if err != nil {
		return err
	}

	s, err := pipeline.LoadSceneFile(input, d)
	if err != nil {
		return err
	}

	dot := resolve.ToDOT(s)

	var data []byte
	switch format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = resolve.RenderSVG(ctx, dot)
	case "png":
		data, err = resolve.RenderPNG(ctx, dot)
	default:
		return fmt.Errorf("unknown format: %s (available: svg, png, dot)", format)
	}
	if err != nil {
		return fmt.Errorf("render graph: %w", err)
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + "." + format
	}
	if err := writeOutput(outputPath, data); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Graph rendered")
	printFile(outputPath)
	return nil
}
