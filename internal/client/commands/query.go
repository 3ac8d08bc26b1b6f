package commands

import (
	"context"

	"worldbook/internal/client"

	"github.com/spf13/cobra"
)

// Flag names for the query command.
const (
	flagLimit     = "limit"
	flagOffset    = "offset"
	flagCategory  = "category"
	flagThreshold = "threshold"
)

// NewQueryCmd creates and returns the query command.
// The command performs a fuzzy search over the published worldbooks.
//
// Example usage:
//
//	worldbook query github
//	worldbook query "object storage" --limit 5 --category cloud
//	worldbook query gthub --threshold 30 --json
//
// JSON mode writes the response body of /api/search unchanged (re-indented).
// Plain mode prints a block per result, ending with the command that fetches it.
func NewQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <query>",
		Short: "Search worldbooks (fuzzy match)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inv, err := invocation(cmd)
			if err != nil {
				return err
			}

			limit, _ := cmd.Flags().GetInt(flagLimit)
			offset, _ := cmd.Flags().GetInt(flagOffset)
			category, _ := cmd.Flags().GetString(flagCategory)
			threshold, _ := cmd.Flags().GetInt(flagThreshold)

			query := client.SearchQuery{
				Query:     args[0],
				Limit:     limit,
				Offset:    offset,
				Category:  category,
				Threshold: threshold,
			}
			return runQuery(cmd.Context(), inv, query)
		},
	}

	cmd.Flags().IntP(flagLimit, "l", client.DefaultSearchLimit, "Maximum number of results to return")
	cmd.Flags().Int(flagOffset, client.DefaultSearchOffset, "Number of results to skip for pagination")
	cmd.Flags().StringP(flagCategory, "c", "", "Filter by category")
	cmd.Flags().IntP(flagThreshold, "t", client.DefaultSearchThreshold, "Minimum fuzzy match score (0-100)")

	return cmd
}

func runQuery(ctx context.Context, inv *Invocation, query client.SearchQuery) error {
	failed := target{query: query.Query}

	c, err := inv.NewClient()
	if err != nil {
		return inv.reportError(ctx, err, failed)
	}

	ctx, cancel := context.WithTimeout(ctx, inv.Timeout)
	defer cancel()

	resp, err := c.Search(ctx, query)
	if err != nil {
		return inv.reportError(ctx, err, failed)
	}

	if inv.JSONOutput {
		return inv.Printer.RawJSON(resp.Raw)
	}

	p := inv.Printer
	if len(resp.Results) == 0 {
		return p.Line("No results for: " + query.Query)
	}

	for _, r := range resp.Results {
		lines := []string{
			p.Heading(r.Name + " - " + r.Title),
			"  " + r.Description,
			"  votes: " + r.VoteCount(),
			"  " + p.Muted("worldbook get "+r.Name),
			"-",
		}
		for _, line := range lines {
			if err := p.Line(line); err != nil {
				return err
			}
		}
	}
	return nil
}
