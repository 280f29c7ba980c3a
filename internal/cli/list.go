package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/JonasKlamroth/ctcscraper/internal/app"
	"github.com/JonasKlamroth/ctcscraper/internal/config"
	"github.com/JonasKlamroth/ctcscraper/internal/domain"
)

func newListCommand(opts *options) *cobra.Command {
	var (
		filter  string
		sortBy  string
		search  string
		deleted bool
		format  string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the stored entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := domain.ParseFilter(filter)
			if err != nil {
				return err
			}
			order, err := domain.ParseSortOrder(sortBy)
			if err != nil {
				return err
			}
			q := domain.Query{Filter: f, Sort: order, Search: search, IncludeDeleted: deleted}

			return opts.withComponents(cmd.Context(), func(_ context.Context, c *app.Components) error {
				return render(cmd.OutOrStdout(), format, c.Orchestrator.Query(q))
			})
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "all", "all, unsolved, opened, unopened or short")
	cmd.Flags().StringVar(&sortBy, "sort", "date-desc", "date-desc, date-asc, title-asc, title-desc, length-desc or length-asc")
	cmd.Flags().StringVarP(&search, "search", "s", "", "case-insensitive text in title or description")
	cmd.Flags().BoolVar(&deleted, "deleted", false, "include deleted entries")
	cmd.Flags().StringVarP(&format, "format", "o", "table", "table, json or yaml")
	return cmd
}

func render(w io.Writer, format string, entries []domain.VideoEntry) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	case "table":
		return renderTable(w, entries)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func renderTable(w io.Writer, entries []domain.VideoEntry) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PUBLISHED\tLENGTH\tSOLVED\tTITLE\tVIDEO")
	for _, e := range entries {
		solved := 0
		for _, p := range e.Puzzles {
			if p.MarkedAsSolved {
				solved++
			}
		}
		title := e.Title
		if e.IsDeleted {
			title += " (deleted)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d/%d\t%s\t%s\n",
			publishedDate(e.Published), formatLength(e.VideoLength), solved, len(e.Puzzles), title, e.VideoURL)
	}
	return tw.Flush()
}

func publishedDate(s string) string {
	if d, _, ok := strings.Cut(s, "T"); ok {
		return d
	}
	return s
}

// formatLength renders seconds as h:mm:ss or m:ss; unknown lengths as "-".
func formatLength(seconds int) string {
	if seconds <= 0 {
		return "-"
	}
	h, m, s := seconds/3600, seconds%3600/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

func fmtConfig(cfg config.Config) string {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Sprintf("%+v", cfg)
	}
	return string(out)
}
