package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/stubgen/internal/wire"
)

// HistoryCmd returns the history command
func HistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent generation runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			adapter, err := wire.HistoryAdapter()
			if err != nil {
				return err
			}
			_, err = adapter.List(cmd.Context(), limit)
			return err
		},
	}
	cmd.Flags().IntP("limit", "n", 20, "number of runs to show (0 for all)")

	showCmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Show the files of one run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.HistoryAdapter()
			if err != nil {
				return err
			}
			_, err = adapter.Show(cmd.Context(), args[0])
			return err
		},
	}

	cmd.AddCommand(showCmd)
	return cmd
}
