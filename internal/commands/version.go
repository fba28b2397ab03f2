package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autodev/autodev/internal/version"
)

// NewVersionCmd creates a version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the autodev version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			//nolint:errcheck // Writing to stdout, error not actionable
			fmt.Fprintln(cmd.OutOrStdout(), version.GetFullVersion())
		},
	}
}
