package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roomsmith/roomsmith/pkg/pipeline"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	scenePath    string // scene file instead of a prompt
	apply        bool   // drive the engine binding with the plan
	pin          bool   // keep stored transforms that still fit
	storeSpec    string // layout store URL or path
	engineURL    string // engine bridge base URL
	defaultsPath string // defaults override file (TOML)
	output       string // plan output file (nothing written if empty)
	noCache      bool   // bypass the prompt response cache
}

// buildCommand creates the build command running the full pipeline.
func (c *CLI) buildCommand() *cobra.Command {
	opts := buildOpts{}

	cmd := &cobra.Command{
		Use:   "build [prompt]",
		Short: "Run the full pipeline: describe, resolve, plan, apply",
		Long: `Run the full pipeline from a prompt or a scene file.

The scene is validated, resolved to a collision-free layout, and diffed
against the persisted layout into an update plan. Without --apply the
build is a dry run: the plan is computed and printed but nothing is
applied or persisted. With --apply the plan drives the engine bridge and
the new layout is stored only after the engine accepts it.

Examples:
  roomsmith build "a bedroom with a bed and a lamp on the bed"
  roomsmith build --scene loft.yaml --store layout.json
  roomsmith build --scene loft.yaml --apply --engine http://localhost:8080 --pin`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := ""
			if len(args) == 1 {
				prompt = args[0]
			}
			return c.runBuild(cmd.Context(), prompt, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.scenePath, "scene", "s", "", "scene file instead of a prompt")
	cmd.Flags().BoolVar(&opts.apply, "apply", false, "apply the plan through the engine bridge")
	cmd.Flags().BoolVar(&opts.pin, "pin", false, "keep stored transforms that still fit")
	cmd.Flags().StringVar(&opts.storeSpec, "store", "", "layout store (file path, redis://, mongodb://, .db; default: XDG data dir)")
	cmd.Flags().StringVar(&opts.engineURL, "engine", "", "engine bridge base URL (default: $ROOMSMITH_ENGINE_URL)")
	cmd.Flags().StringVar(&opts.defaultsPath, "defaults", "", "TOML file overriding built-in size tables")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the update plan to a file")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the prompt response cache")

	return cmd
}

// runBuild wires the backends and runs a single build.
func (c *CLI) runBuild(ctx context.Context, prompt string, opts buildOpts) error {
	d, err := loadDefaults(opts.defaultsPath)
	if err != nil {
		return err
	}

	runner, cleanup, err := c.newRunner(runnerConfig{
		storeSpec: resolveStoreSpec(opts.storeSpec),
		engineURL: resolveEngineURL(opts.engineURL),
		noCache:   opts.noCache,
		describer: prompt != "",
	})
	if err != nil {
		return err
	}
	defer cleanup()

	spinner := newSpinnerWithContext(ctx, "Building layout...")
	spinner.Start()

	result, err := runner.Build(ctx, pipeline.Options{
		Prompt:    prompt,
		ScenePath: opts.scenePath,
		Defaults:  d,
		Pin:       opts.pin,
		Apply:     opts.apply,
	})
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if opts.output != "" {
		data, err := json.MarshalIndent(result.Plan, "", "  ")
		if err != nil {
			return fmt.Errorf("encode plan: %w", err)
		}
		if err := writeOutput(opts.output, append(data, '\n')); err != nil {
			return fmt.Errorf("write output %s: %w", opts.output, err)
		}
	}

	if opts.apply {
		printSuccess("Build applied")
	} else {
		printSuccess("Build complete (dry run)")
	}
	if opts.output != "" {
		printFile(opts.output)
	}
	printStats(result.Stats.Rooms, result.Stats.Objects, len(result.Layout.Warnings))
	printPlanCounts(result.Plan.Counts())
	for _, w := range result.Layout.Warnings {
		printWarning("%s", w)
	}
	if !opts.apply && !result.Plan.Empty() {
		printNewline()
		printNextStep("Apply", "rerun with --apply --engine <url>")
	}
	return nil
}
