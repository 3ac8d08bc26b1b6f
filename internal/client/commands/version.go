package commands

import (
	"worldbook/internal/version"

	"github.com/spf13/cobra"
)

// NewVersionCmd creates and returns the version command.
func NewVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show version information for the Worldbook CLI.

Prints the version number, the commit it was built from and the build time.
With --json the same fields are written as a JSON object.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := invocation(cmd)
			if err != nil {
				return err
			}

			info := version.Get()
			if inv.JSONOutput {
				return info.WriteJSON(cmd.OutOrStdout())
			}
			return info.Write(cmd.OutOrStdout(), short)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Show only version number")
	return cmd
}
