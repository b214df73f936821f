package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/roomsmith/roomsmith/pkg/geometry"
	"github.com/roomsmith/roomsmith/pkg/store"
)

// storeCommand creates the store management command.
func (c *CLI) storeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Inspect or clear the persisted layout",
	}

	cmd.AddCommand(c.storeShowCommand())
	cmd.AddCommand(c.storeClearCommand())

	return cmd
}

// storeShowCommand creates the "store show" subcommand.
func (c *CLI) storeShowCommand() *cobra.Command {
	var storeSpec string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the persisted object transforms",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStoreShow(cmd.Context(), resolveStoreSpec(storeSpec))
		},
	}

	cmd.Flags().StringVar(&storeSpec, "store", "", "layout store (file path, redis://, mongodb://, .db; default: XDG data dir)")

	return cmd
}

func runStoreShow(ctx context.Context, storeSpec string) error {
	st, err := store.Open(storeSpec)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	transforms, err := st.Load(ctx)
	if err != nil {
		return err
	}
	if len(transforms) == 0 {
		printInfo("Store is empty")
		return nil
	}

	ids := make([]string, 0, len(transforms))
	for id := range transforms {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		printKeyValue(id, formatTransform(transforms[id]))
	}
	printDetail("%d objects", len(ids))
	return nil
}

// storeClearCommand creates the "store clear" subcommand.
func (c *CLI) storeClearCommand() *cobra.Command {
	var storeSpec string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove all persisted transforms",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStoreClear(cmd.Context(), resolveStoreSpec(storeSpec))
		},
	}

	cmd.Flags().StringVar(&storeSpec, "store", "", "layout store (file path, redis://, mongodb://, .db; default: XDG data dir)")

	return cmd
}

func runStoreClear(ctx context.Context, storeSpec string) error {
	st, err := store.Open(storeSpec)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if err := st.Save(ctx, map[string]geometry.Transform{}); err != nil {
		return err
	}
	printSuccess("Store cleared")
	return nil
}

// formatTransform renders a transform as a compact single line.
func formatTransform(t geometry.Transform) string {
	return fmt.Sprintf("(%.1f, %.1f, %.1f) yaw %.0f°", t.Position.X, t.Position.Y, t.Position.Z, t.Yaw)
}
