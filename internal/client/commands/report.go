package commands

import (
	"context"
	"errors"

	"worldbook/internal/client"
	"worldbook/internal/logging"

	"github.com/spf13/cobra"
)

// invocation returns the invocation resolved by the root command.
func invocation(cmd *cobra.Command) (*Invocation, error) {
	inv, ok := InvocationFromContext(cmd.Context())
	if !ok {
		return nil, errors.New("command must run under the worldbook root command")
	}
	return inv, nil
}

// target names what a failed command was working on. At most one of
// service and query is set.
type target struct {
	service string
	query   string
}

// reportError writes err in the active output mode and returns the write
// error, if any. Reported errors do not fail the command.
//
// Classification:
//   - not_found: a 404 while fetching a service
//   - connection_failed: the base URL could not be reached
//   - anything else is written with its message
func (inv *Invocation) reportError(ctx context.Context, err error, t target) error {
	switch {
	case t.service != "" && errors.Is(err, client.ErrNotFound):
		return inv.Printer.Error(
			client.ErrorOutput{Error: client.ErrorCodeNotFound, Service: t.service},
			"Worldbook not found: "+t.service,
		)
	case client.IsConnectionError(err):
		return inv.Printer.Error(
			client.ErrorOutput{Error: client.ErrorCodeConnectionFailed, Service: t.service, Query: t.query},
			"Failed to connect to "+inv.BaseURL,
		)
	default:
		inv.Logger.Warn(ctx, "Command failed", logging.Fields{
			"service": t.service,
			"query":   t.query,
			"error":   err.Error(),
		})
		return inv.Printer.Error(client.ErrorOutput{Error: err.Error()}, "Error: "+err.Error())
	}
}
