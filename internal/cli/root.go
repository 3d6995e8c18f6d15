// Package cli provides the cobra commands of stubgen.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/stubgen/internal/config"
	"github.com/example/stubgen/internal/errors"
	"github.com/example/stubgen/internal/logger"
	"github.com/example/stubgen/internal/version"
	"github.com/example/stubgen/internal/wire"
)

// RootCmd returns the stubgen root command. Without a subcommand it
// behaves like "stubgen generate".
func RootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "stubgen",
		Short:   "Generate Laravel contracts, policies, resources and repositories from stubs",
		Version: version.String(),
		Long: `stubgen scans the models directory of a Laravel project and renders one
file per model and artifact kind from stub templates.

Repositories are always generated. Contracts, policies and resources are
opt-in. Existing files are only replaced after confirmation.

Examples:
  stubgen                    # repositories for every model
  stubgen -cpr               # contracts, policies, resources and repositories
  stubgen --dry-run -p       # preview policies without writing
  stubgen init               # write a default stubgen.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbosity, _ := cmd.Flags().GetCount("verbose")
			jsonLogs, _ := cmd.Flags().GetBool("log-json")
			if err := logger.Initialize(verbosity, jsonLogs); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}

			configFile, _ := cmd.Flags().GetString("config")
			wire.Configure(config.LoadOptions{ConfigFile: configFile})
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			wire.Close()
			logger.Cleanup()
		},
		RunE: runGenerate,
	}

	rootCmd.PersistentFlags().String("config", "", "config file (default: stubgen.{yaml,toml,json} in the working directory)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().Bool("log-json", false, "emit logs as JSON")
	addGenerateFlags(rootCmd)

	rootCmd.AddCommand(GenerateCmd())
	rootCmd.AddCommand(WatchCmd())
	rootCmd.AddCommand(InitCmd())
	rootCmd.AddCommand(StubsCmd())
	rootCmd.AddCommand(HistoryCmd())
	rootCmd.AddCommand(VersionCmd())

	return rootCmd
}

// PrintError prints err followed by any hints attached to it.
func PrintError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", color.New(color.FgRed).Sprint("Error:"), err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(w, "  hint: %s\n", hint)
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
