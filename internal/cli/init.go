package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/example/stubgen/internal/config"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write stubgen.yaml with every option set to its default value.

The file is written to the working directory, or to the path given with
--config. An existing file is kept unless --force is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("failed to get working directory: %w", err)
				}
				path = filepath.Join(wd, config.DefaultFile)
			}

			if err := config.WriteDefault(path, force); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "✓ Configuration written to %s\n", path)
			fmt.Fprintln(out)
			fmt.Fprintln(out, "Next steps:")
			fmt.Fprintln(out, "  stubgen stubs publish   # customise the templates")
			fmt.Fprintln(out, "  stubgen -cpr            # generate everything")
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "overwrite an existing configuration file")
	return cmd
}
