package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/JonasKlamroth/ctcscraper/internal/app"
	"github.com/JonasKlamroth/ctcscraper/internal/orchestrator"
)

type (
	puzzleOp func(o *orchestrator.Orchestrator, ctx context.Context, videoURL, link string) (bool, error)
	entryOp  func(o *orchestrator.Orchestrator, ctx context.Context, videoURL string) (bool, error)
)

func newToggleCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle",
		Short: "Flip opened or solved flags",
	}
	cmd.AddCommand(
		puzzleCommand(opts, "opened", "Flip the opened flag of one puzzle", (*orchestrator.Orchestrator).ToggleOpened),
		puzzleCommand(opts, "solved", "Flip the solved flag of one puzzle", (*orchestrator.Orchestrator).ToggleSolved),
		entryCommand(opts, "all-opened", "Flip the opened flag of every puzzle of a video", (*orchestrator.Orchestrator).ToggleAllOpened),
		entryCommand(opts, "all-solved", "Flip the solved flag of every puzzle of a video", (*orchestrator.Orchestrator).ToggleAllSolved),
	)
	return cmd
}

func newDeleteCommand(opts *options) *cobra.Command {
	return entryCommand(opts, "delete", "Hide a video from listings", (*orchestrator.Orchestrator).Delete)
}

func newRestoreCommand(opts *options) *cobra.Command {
	return entryCommand(opts, "restore", "Show a deleted video again", (*orchestrator.Orchestrator).Restore)
}

func puzzleCommand(opts *options, use, short string, op puzzleOp) *cobra.Command {
	return &cobra.Command{
		Use:   use + " VIDEO_URL PUZZLE_LINK",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withComponents(cmd.Context(), func(ctx context.Context, c *app.Components) error {
				changed, err := op(c.Orchestrator, ctx, args[0], args[1])
				return report(cmd.OutOrStdout(), changed, err)
			})
		},
	}
}

func entryCommand(opts *options, use, short string, op entryOp) *cobra.Command {
	return &cobra.Command{
		Use:   use + " VIDEO_URL",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withComponents(cmd.Context(), func(ctx context.Context, c *app.Components) error {
				changed, err := op(c.Orchestrator, ctx, args[0])
				return report(cmd.OutOrStdout(), changed, err)
			})
		},
	}
}

func report(w io.Writer, changed bool, err error) error {
	if err != nil {
		return err
	}
	if changed {
		fmt.Fprintln(w, "updated")
	} else {
		fmt.Fprintln(w, "unchanged")
	}
	return nil
}
