package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	// Define root command
	rootCmd := &cobra.Command{
		Use:   "tcore",
		Short: "Cursor pagination toolkit for multi-tenant services",
	}

	// Add subcommands
	rootCmd.AddCommand(
		NewCursorCommand(),
		NewVersionCommand(),
	)

	return rootCmd
}
