package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonasKlamroth/ctcscraper/internal/app"
)

func newRefreshCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Run one scrape, merge and persist cycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withComponents(cmd.Context(), func(ctx context.Context, c *app.Components) error {
				changed := c.Orchestrator.Refresh(ctx)
				s := c.Orchestrator.Status()
				fmt.Fprintf(cmd.OutOrStdout(), "changed=%t entries=%d puzzles=%d unresolved=%d deleted=%d\n",
					changed, s.Entries.Total, s.Entries.Puzzles, s.Entries.Unresolved, s.Entries.Deleted)
				return nil
			})
		},
	}
}
