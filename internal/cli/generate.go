package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/stubgen/internal/core/overwrite"
	"github.com/example/stubgen/internal/ports/primary"
	"github.com/example/stubgen/internal/wire"
)

// GenerateCmd returns the generate command
func GenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate artifacts for every model",
		Long: `Generate one file per model for each requested kind.

Kinds run in a fixed order: contracts, policies, resources, repositories.
Repositories are always generated; with --contracts they are generated as
Eloquent implementations of the contracts.

When a kind's directory already holds files, stubgen asks once per kind
whether to overwrite them. --force answers yes, --no-overwrite answers no.`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}
	addGenerateFlags(cmd)
	return cmd
}

func addGenerateFlags(cmd *cobra.Command) {
	addKindFlags(cmd)
	cmd.Flags().Bool("force", false, "overwrite existing files without asking")
	cmd.Flags().Bool("no-overwrite", false, "keep existing files without asking")
	cmd.Flags().Bool("dry-run", false, "show what would be generated without writing")
	cmd.Flags().StringSlice("only", nil, "limit generation to these models")
	cmd.MarkFlagsMutuallyExclusive("force", "no-overwrite")
}

func addKindFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("contracts", "c", false, "generate contracts and contract-backed repositories")
	cmd.Flags().BoolP("policies", "p", false, "generate policies")
	cmd.Flags().BoolP("resources", "r", false, "generate resources")
}

// generateRequest builds a request from the flags registered on cmd.
func generateRequest(cmd *cobra.Command) primary.GenerateRequest {
	contracts, _ := cmd.Flags().GetBool("contracts")
	policies, _ := cmd.Flags().GetBool("policies")
	resources, _ := cmd.Flags().GetBool("resources")

	req := primary.GenerateRequest{
		Contracts: contracts,
		Policies:  policies,
		Resources: resources,
		Mode:      overwrite.ModeAsk,
	}
	if cmd.Flags().Lookup("force") == nil {
		return req
	}

	force, _ := cmd.Flags().GetBool("force")
	noOverwrite, _ := cmd.Flags().GetBool("no-overwrite")
	switch {
	case force:
		req.Mode = overwrite.ModeAlways
	case noOverwrite:
		req.Mode = overwrite.ModeNever
	}
	req.DryRun, _ = cmd.Flags().GetBool("dry-run")
	req.Only, _ = cmd.Flags().GetStringSlice("only")
	return req
}

func runGenerate(cmd *cobra.Command, args []string) error {
	adapter, err := wire.ScaffoldAdapterWithOutput(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	_, err = adapter.Generate(ctx, generateRequest(cmd))
	return err
}
