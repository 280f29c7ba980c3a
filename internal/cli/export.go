package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonasKlamroth/ctcscraper/internal/app"
	"github.com/JonasKlamroth/ctcscraper/internal/sources/aggregated"
	"github.com/JonasKlamroth/ctcscraper/internal/store/file"
)

func newExportCommand(opts *options) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the collection in the aggregated feed format, without user state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.withComponents(cmd.Context(), func(_ context.Context, c *app.Components) error {
				records := aggregated.ToRecords(c.Orchestrator.Snapshot())
				data, err := aggregated.Encode(records)
				if err != nil {
					return err
				}

				if out == "" || out == "-" {
					_, err = cmd.OutOrStdout().Write(data)
					return err
				}
				if err := file.WriteAtomic(out, data); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %d entries to %s\n", len(records), out)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	return cmd
}
