package main

import (
	"fmt"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"rostercheck/internal/config"
	"rostercheck/internal/fetcher"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and prune the response cache",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCachePruneCommand(ctx))
	return cacheCmd
}

func openCache(cfg *config.Config) (*fetcher.Cache, error) {
	return fetcher.NewCache(cfg.Cache.Dir, fetcher.CacheOptions{
		Prefix:        cfg.Cache.Prefix,
		WriteAttempts: cfg.Fetch.CacheWriteAttempts,
		WriteBase:     cfg.CacheWriteBase(),
	})
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache entry counts and sizes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cache, err := openCache(cfg)
			if err != nil {
				return err
			}
			stats, err := cache.Stats()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Cache directory: %s\n", cache.Dir())
			fmt.Fprintf(out, "Entries: %s (%s)\n", humanize.Comma(int64(stats.Entries)), humanize.Bytes(uint64(stats.Bytes)))
			if stats.Entries == 0 {
				return nil
			}
			fmt.Fprintf(out, "Oldest: %s\n", humanize.Time(stats.Oldest))
			fmt.Fprintf(out, "Newest: %s\n", humanize.Time(stats.Newest))

			operations := make([]string, 0, len(stats.ByOperation))
			for op := range stats.ByOperation {
				operations = append(operations, op)
			}
			sort.Strings(operations)
			rows := make([][]string, 0, len(operations))
			for _, op := range operations {
				rows = append(rows, []string{op, humanize.Comma(int64(stats.ByOperation[op]))})
			}
			fmt.Fprintln(out, renderTable([]string{"Operation", "Entries"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
}

func newCachePruneCommand(ctx *commandContext) *cobra.Command {
	var olderThan time.Duration

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete cache entries older than a given age",
		RunE: func(cmd *cobra.Command, args []string) error {
			if olderThan < 0 {
				return fmt.Errorf("--older-than must not be negative")
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			cache, err := openCache(cfg)
			if err != nil {
				return err
			}
			removed, err := cache.Prune(olderThan)
			if err != nil {
				return fmt.Errorf("prune cache: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s cache entries older than %s\n",
				humanize.Comma(int64(removed)), olderThan)
			return nil
		},
	}
	cmd.Flags().DurationVar(&olderThan, "older-than", 7*24*time.Hour, "Minimum age of entries to delete")
	return cmd
}
