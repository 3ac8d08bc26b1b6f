package commands

import (
	"worldbook/internal/manifesto"

	"github.com/spf13/cobra"
)

// NewManifestoCmd creates and returns the manifesto command.
// The command prints the embedded Dual Protocol Manifesto and makes no
// network call. JSON mode writes the structured document, which always
// carries the motto.
func NewManifestoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "manifesto",
		Short: "Print the Dual Protocol Manifesto",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := invocation(cmd)
			if err != nil {
				return err
			}

			m, err := manifesto.Load()
			if err != nil {
				return inv.reportError(cmd.Context(), err, target{})
			}

			if inv.JSONOutput {
				return inv.Printer.JSON(m)
			}
			return inv.Printer.Line(m.Text)
		},
	}
}
