package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonasKlamroth/ctcscraper/internal/app"
)

var errNoCache = errors.New("the puzzle metadata cache needs the redis store backend")

func newCacheCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the puzzle metadata cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "flush",
		Short: "Forget every cached puzzle name and author",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withComponents(cmd.Context(), func(ctx context.Context, c *app.Components) error {
				if c.PuzzleCache == nil {
					return errNoCache
				}
				n, err := c.PuzzleCache.Flush(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d cached puzzles\n", n)
				return nil
			})
		},
	})
	return cmd
}
