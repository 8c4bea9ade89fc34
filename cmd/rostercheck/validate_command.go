package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"rostercheck/internal/config"
	"rostercheck/internal/pipeline"
)

type validateOptions struct {
	performance  bool
	sqliteExport bool
	parallelism  int
	quiet        bool
}

func newValidateCommand(ctx *commandContext) *cobra.Command {
	var opts validateOptions

	cmd := &cobra.Command{
		Use:   "validate <roster.csv>",
		Short: "Validate a roster file and write valid.<name> next to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cfg, err := applyValidateOverrides(cmd, base, opts)
			if err != nil {
				return err
			}

			logger, cleanup, err := ctx.logger(cmd, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			validator, err := pipeline.New(cfg, pipeline.WithLogger(logger))
			if err != nil {
				return err
			}
			if !opts.quiet {
				if line := newProgressLine(cmd.ErrOrStderr()); line != nil {
					validator.Progress().OnProgress(line.render)
					defer line.finish()
				}
			}

			result, err := validator.Run(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, pipeline.ErrNoRecords) {
					return err
				}
				return fmt.Errorf("validate %s: %w", args[0], err)
			}
			printRunSummary(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.performance, "performance", false, "Append per-player performance figures")
	cmd.Flags().BoolVar(&opts.sqliteExport, "sqlite-export", false, "Also write the annotated records to a SQLite database")
	cmd.Flags().IntVar(&opts.parallelism, "parallelism", 0, "Concurrent player lookups (overrides resolve.parallelism)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Disable the live progress line")
	return cmd
}

// applyValidateOverrides returns a copy of base with the flags that were set
// applied, validated again.
func applyValidateOverrides(cmd *cobra.Command, base *config.Config, opts validateOptions) (*config.Config, error) {
	cfg := *base
	flags := cmd.Flags()
	if flags.Changed("performance") {
		cfg.Performance.Enabled = opts.performance
	}
	if flags.Changed("sqlite-export") {
		cfg.Output.SQLiteExport = opts.sqliteExport
	}
	if flags.Changed("parallelism") {
		cfg.Resolve.Parallelism = opts.parallelism
		if cfg.Resolve.PoolSize < opts.parallelism {
			cfg.Resolve.PoolSize = opts.parallelism
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return &cfg, nil
}

func printRunSummary(out io.Writer, result pipeline.Result) {
	fmt.Fprintf(out, "Run %s finished in %s\n", result.RunID, result.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "Records: %s total, %s valid, %s invalid",
		humanize.Comma(int64(result.TotalRecords)),
		humanize.Comma(int64(result.ValidRecords)),
		humanize.Comma(int64(result.InvalidRecords())))
	if result.DroppedLines > 0 {
		fmt.Fprintf(out, ", %s dropped", humanize.Comma(int64(result.DroppedLines)))
	}
	fmt.Fprintln(out)

	rows := make([][]string, 0, len(result.PassCounts))
	for _, pc := range result.PassCounts {
		rows = append(rows, []string{pc.Pass, humanize.Comma(int64(pc.Invalid))})
	}
	fmt.Fprintln(out, renderTable([]string{"Pass", "Invalidated"}, rows, []columnAlignment{alignLeft, alignRight}))

	f := result.Fetches
	fmt.Fprintf(out, "Lookups: %d cached, %d fetched, %d retried, %d not found, %d exhausted\n",
		f.CacheHits, f.NetworkFetches, f.Retries, f.NotFound, f.Exhausted)
	if f.CacheWriteFailures > 0 {
		fmt.Fprintf(out, "Cache write failures: %d\n", f.CacheWriteFailures)
	}

	fmt.Fprintf(out, "Result: %s\n", result.ResultFile)
	if result.ExportFile != "" {
		fmt.Fprintf(out, "Export: %s\n", result.ExportFile)
	}
	if result.MetricsFile != "" {
		fmt.Fprintf(out, "Metrics: %s\n", result.MetricsFile)
	}
}
