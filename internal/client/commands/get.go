package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

// NewGetCmd creates and returns the get command.
// The command fetches the worldbook of one service and prints its content,
// or the whole document in JSON mode. A 404 is reported as not_found.
//
// Example usage:
//
//	worldbook get github
//	worldbook get github --json
func NewGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <service>",
		Short: "Get the worldbook of a service",
		Args:  cobra.MatchAll(cobra.ExactArgs(1), nonEmptyService),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := invocation(cmd)
			if err != nil {
				return err
			}
			return runGet(cmd.Context(), inv, args[0])
		},
	}
}

func runGet(ctx context.Context, inv *Invocation, service string) error {
	failed := target{service: service}

	c, err := inv.NewClient()
	if err != nil {
		return inv.reportError(ctx, err, failed)
	}

	ctx, cancel := context.WithTimeout(ctx, inv.Timeout)
	defer cancel()

	book, err := c.GetWorldbook(ctx, service)
	if err != nil {
		return inv.reportError(ctx, err, failed)
	}

	if inv.JSONOutput {
		return inv.Printer.RawJSON(book.Raw)
	}
	return inv.Printer.Line(book.Content())
}

func nonEmptyService(_ *cobra.Command, args []string) error {
	if args[0] == "" {
		return errors.New("service name cannot be empty")
	}
	return nil
}
