package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/stubgen/internal/wire"
)

// StubsCmd returns the stubs command
func StubsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stubs",
		Short: "Manage stub templates",
		Long: `Templates are read from the stubs directory first and fall back to the
stubs built into stubgen.`,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List templates and where they resolve from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.StubsAdapter()
			if err != nil {
				return err
			}
			_, err = adapter.List(cmd.Context())
			return err
		},
	}

	publishCmd := &cobra.Command{
		Use:   "publish",
		Short: "Copy the built-in stubs into the stubs directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			adapter, err := wire.StubsAdapter()
			if err != nil {
				return err
			}
			_, err = adapter.Publish(cmd.Context(), force)
			return err
		},
	}
	publishCmd.Flags().Bool("force", false, "replace stubs that already exist")

	cmd.AddCommand(listCmd)
	cmd.AddCommand(publishCmd)
	return cmd
}
