package cli

import (
	"github.com/spf13/cobra"

	"github.com/roomsmith/roomsmith/pkg/pipeline"
	"github.com/roomsmith/roomsmith/pkg/scene"
)

// validateCommand creates the validate command for scene file checking.
func (c *CLI) validateCommand() *cobra.Command {
	var defaultsPath string

	cmd := &cobra.Command{
		Use:   "validate <scene.(json|yaml)>",
		Short: "Check a scene file for schema and reference errors",
		Long: `Check a scene file for schema and reference errors.

Validation covers duplicate ids, anchors pointing at unknown or
cross-room targets, anchor cycles, and overlapping rooms. A valid scene
is guaranteed to reach the placement stage; placement itself can still
fail when a room is too crowded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runValidate(args[0], defaultsPath)
		},
	}

	cmd.Flags().StringVar(&defaultsPath, "defaults", "", "TOML file overriding built-in size tables")

	return cmd
}

// runValidate loads and validates the scene, reporting the outcome.
func (c *CLI) runValidate(input, defaultsPath string) error {
	d, err := loadDefaults(defaultsPath)
	if err != nil {
		return err
	}

	s, err := pipeline.LoadSceneFile(input, d)
	if err != nil {
		printError("Scene is invalid")
		return err
	}
	if err := scene.Validate(s); err != nil {
		printError("Scene is invalid")
		return err
	}

	printSuccess("Scene is valid")
	printStats(len(s.Rooms), len(s.Objects), 0)
	printNewline()
	printNextStep("Resolve", "roomsmith resolve "+input)
	return nil
}
