package cli

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roomsmith/roomsmith/pkg/describe"
	"github.com/roomsmith/roomsmith/pkg/scene"
)

// describeOpts holds the command-line flags for the describe command.
type describeOpts struct {
	output   string // output file path (stdout if empty)
	defaults string // defaults override file (TOML)
	model    string // chat model name
	baseURL  string // API base URL
	noCache  bool   // bypass the prompt response cache
}

// describeCommand creates the describe command for prompt translation.
func (c *CLI) describeCommand() *cobra.Command {
	opts := describeOpts{}

	cmd := &cobra.Command{
		Use:   "describe <prompt>",
		Short: "Translate a text prompt into a scene graph",
		Long: `Translate a natural-language interior description into a scene graph.

The prompt is sent to an OpenAI-compatible chat endpoint (OPENAI_API_KEY
must be set) and the extracted scene is written as JSON. The scene carries
rooms, objects, and anchors but no coordinates; use 'resolve' or 'build'
to compute placements.

Responses are cached locally, so repeating a prompt is free.

Examples:
  roomsmith describe "a bedroom with a bed and two bedside tables"
  roomsmith describe "a loft with a skylight over the bed" -o loft.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDescribe(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVar(&opts.defaults, "defaults", "", "TOML file overriding built-in size tables")
	cmd.Flags().StringVar(&opts.model, "model", "", "chat model (default: "+describe.DefaultModel+")")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "API base URL (default: "+describe.DefaultBaseURL+")")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the prompt response cache")

	return cmd
}

// runDescribe translates the prompt and writes the scene.
func (c *CLI) runDescribe(ctx context.Context, prompt string, opts describeOpts) error {
	d, err := loadDefaults(opts.defaults)
	if err != nil {
		return err
	}

	client, err := describe.NewClient(describe.Config{
		BaseURL: opts.baseURL,
		Model:   opts.model,
		Cache:   newPromptCache(opts.noCache),
		Logger:  c.Logger,
	})
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Translating prompt...")
	spinner.Start()

	s, err := client.Describe(ctx, prompt, d)
	if err != nil {
		spinner.StopWithError("Translation failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	scene.Enrich(s, d)

	var buf bytes.Buffer
	if err := scene.WriteJSON(&buf, s); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}
	if err := writeOutput(opts.output, buf.Bytes()); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if opts.output != "" {
		printSuccess("Scene extracted")
		printFile(opts.output)
		printStats(len(s.Rooms), len(s.Objects), 0)
		printNewline()
		printNextStep("Resolve", "roomsmith resolve "+opts.output)
	}
	return nil
}
