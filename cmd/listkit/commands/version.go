package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-drift/listkit/pkg/config"
)

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the listkit version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "listkit %s\n", config.RuntimeVersion)
			return nil
		},
	}
}
