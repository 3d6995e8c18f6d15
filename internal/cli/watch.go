package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/stubgen/internal/wire"
)

// WatchCmd returns the watch command
func WatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Generate artifacts whenever a model is created",
		Long: `Watch the models directory and generate the requested kinds for every
newly created model. Existing files are never overwritten while watching.

Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := wire.ScaffoldAdapterWithOutput(cmd.OutOrStdout())
			if err != nil {
				return err
			}

			ctx, cancel := signalContext()
			defer cancel()

			return adapter.Watch(ctx, generateRequest(cmd))
		},
	}
	addKindFlags(cmd)
	return cmd
}
