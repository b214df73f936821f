package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roomsmith/roomsmith/pkg/pipeline"
)

// planOpts holds the command-line flags for the plan command.
type planOpts struct {
	storeSpec    string // layout store URL or path
	pin          bool   // keep stored transforms that still fit
	defaultsPath string // defaults override file (TOML)
	output       string // plan output file (stdout if empty)
}

// planCommand creates the plan command computing a diff without applying it.
func (c *CLI) planCommand() *cobra.Command {
	opts := planOpts{}

	cmd := &cobra.Command{
		Use:   "plan <scene.(json|yaml)>",
		Short: "Compute the update plan against the persisted layout",
		Long: `Compute the update plan for a scene without applying it.

The scene is resolved and diffed against the persisted layout; the result
lists what 'build --apply' would create, move, and remove. Nothing is
applied and nothing is persisted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPlan(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.storeSpec, "store", "", "layout store (file path, redis://, mongodb://, .db; default: XDG data dir)")
	cmd.Flags().BoolVar(&opts.pin, "pin", false, "keep stored transforms that still fit")
	cmd.Flags().StringVar(&opts.defaultsPath, "defaults", "", "TOML file overriding built-in size tables")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

// runPlan resolves the scene and prints the plan.
func (c *CLI) runPlan(ctx context.Context, input string, opts planOpts) error {
	d, err := loadDefaults(opts.defaultsPath)
	if err != nil {
		return err
	}

	runner, cleanup, err := c.newRunner(runnerConfig{storeSpec: resolveStoreSpec(opts.storeSpec)})
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := runner.Build(ctx, pipeline.Options{
		ScenePath: input,
		Defaults:  d,
		Pin:       opts.pin,
	})
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(result.Plan, "", "  ")
	if err != nil {
		return fmt.Errorf("encode plan: %w", err)
	}
	if err := writeOutput(opts.output, append(data, '\n')); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if opts.output != "" {
		if result.Plan.Empty() {
			printSuccess("Nothing to do")
		} else {
			printSuccess("Plan computed")
		}
		printFile(opts.output)
		printPlanCounts(result.Plan.Counts())
	}
	return nil
}
