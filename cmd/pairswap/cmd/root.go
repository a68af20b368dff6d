package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pairswap/pairswap/x/dex/client/cli"
)

// NewRootCmd creates the pairswap root command with the dex commands
// mounted at the top level.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pairswap",
		Short: "Constant-product exchange operator tool",
		Long: `pairswap prices swaps, derives pair accounts and replays scenarios against
an in-memory constant-product exchange with multi-hop routing and
bootstrap-launched pairs.

Flags can also be supplied as PAIRSWAP_* environment variables or through
a --config file.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetOut(cmd.OutOrStdout())
			cmd.SetErr(cmd.ErrOrStderr())
		},
	}
	cli.AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(cli.Commands()...)
	return rootCmd
}
