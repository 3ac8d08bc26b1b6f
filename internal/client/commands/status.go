package commands

import (
	"worldbook/internal/manifesto"
	"worldbook/internal/version"

	"github.com/spf13/cobra"
)

// statusOK is the only status the CLI reports.
const statusOK = "ok"

// StatusOutput is the JSON document written by the status command.
type StatusOutput struct {
	Version string `json:"version"`
	Status  string `json:"status"`
	Motto   string `json:"motto"`
}

// NewStatusCmd creates and returns the status command.
// The command reports the CLI version, a fixed "ok" status and the motto
// without contacting the API.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show Worldbook CLI status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := invocation(cmd)
			if err != nil {
				return err
			}

			status := StatusOutput{
				Version: version.String(),
				Status:  statusOK,
				Motto:   manifesto.Motto,
			}
			if inv.JSONOutput {
				return inv.Printer.JSON(status)
			}

			p := inv.Printer
			if err := p.Line(p.Heading(version.ApplicationName + " v" + status.Version)); err != nil {
				return err
			}
			if err := p.Line("Status: " + status.Status); err != nil {
				return err
			}
			return p.Line(`"` + status.Motto + `"`)
		},
	}
}
