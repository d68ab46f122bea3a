// Package commands implements the listkit CLI.
package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// configDir is where listkit.yaml is looked up, shared by all commands.
var configDir string

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return newRootCommand().ExecuteContext(ctx)
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "listkit",
		Short: "listkit - dynamic list rendering pipeline",
		Long: `listkit fetches a JSON collection, expands each item through a
template, and prints the rendered list markup. It is the same pipeline
embedding hosts drive programmatically, run once from the command line.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configDir, "config", "c", ".", "directory to load listkit.yaml from")

	rootCmd.AddCommand(newRenderCommand())
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}
