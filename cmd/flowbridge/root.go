package main

import (
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X main.Version=..."
var Version = "dev"

// newRootCmd builds the flowbridge command tree.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "flowbridge",
		Short: "Process engine bridged to message routes",
		Long: `flowbridge runs process definitions and bridges them to message routes.

Use convert to translate editor JSON documents to YAML definitions and back,
and send to start or signal a process through a flow endpoint.`,
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newConvertCmd(), newSendCmd(), newVersionCmd())
	return rootCmd
}

// Execute runs the root command and exits on error.
func Execute() {
	cobra.CheckErr(newRootCmd().Execute())
}
