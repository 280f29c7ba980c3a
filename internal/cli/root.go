// Package cli holds the ctcscraper command tree.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonasKlamroth/ctcscraper/internal/app"
	"github.com/JonasKlamroth/ctcscraper/internal/config"
	"github.com/JonasKlamroth/ctcscraper/internal/logger"
)

type options struct {
	configFile string
	logLevel   string
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "ctcscraper",
		Short: "Collects Cracking the Cryptic puzzle videos and tracks which puzzles you solved",
		Long: `ctcscraper reads the Cracking the Cryptic video feed and the aggregated
puzzle list, merges them with your local progress and keeps the result
on disk, in Redis or in BadgerDB.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "YAML config file (default $CTC_CONFIG_FILE)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "override the log level (debug, info, warn, error)")

	root.AddCommand(
		newServeCommand(opts),
		newRefreshCommand(opts),
		newListCommand(opts),
		newExportCommand(opts),
		newToggleCommand(opts),
		newDeleteCommand(opts),
		newRestoreCommand(opts),
		newCacheCommand(opts),
		newVersionCommand(),
	)
	return root
}

// load reads the configuration. Commands other than serve default to warn
// so their output stays readable.
func (o *options) load(quiet bool) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case o.logLevel != "":
		if !logger.ValidLevel(o.logLevel) {
			return nil, nil, fmt.Errorf("invalid log level %q", o.logLevel)
		}
		cfg.LogLevel = o.logLevel
	case quiet && cfg.LogLevel != "debug":
		cfg.LogLevel = "warn"
	}
	return cfg, logger.New(cfg.LogLevel, cfg.PrettyLog), nil
}

// withComponents builds the pipeline, loads the persisted snapshot and runs fn.
func (o *options) withComponents(ctx context.Context, fn func(ctx context.Context, c *app.Components) error) error {
	cfg, log, err := o.load(true)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	c, err := app.Build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Warn("failed to release resources", logger.Error(err))
		}
	}()

	c.Orchestrator.Load(ctx)
	return fn(ctx, c)
}
