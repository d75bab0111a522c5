package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/compras/internal/cli"
	"github.com/theirongolddev/compras/internal/pipeline"
	"github.com/theirongolddev/compras/internal/store"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the fetch cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cached batch counts",
	RunE:  runCacheStats,
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the cached batch for the current filter",
	Long: "Delete the cached batch for the year, region and type given by the\n" +
		"filter flags or the configured defaults, so the next run fetches it again.",
	RunE: runCacheDelete,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached batch",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheDeleteCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(_ *cobra.Command, _ []string) error {
	c, err := store.Open(pipeline.CachePath())
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	s, err := c.Stats()
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("CACHE"))
	fmt.Println()
	fmt.Println(cli.RenderKV("Path", pipeline.CachePath(), 10))
	fmt.Println(cli.RenderKV("Batches", cli.FormatNumber(int64(s.Entries)), 10))
	fmt.Println(cli.RenderKV("Records", cli.FormatNumber(int64(s.Records)), 10))
	if s.Entries > 0 {
		fmt.Println(cli.RenderKV("Oldest", humanize.Time(s.Oldest), 10))
		fmt.Println(cli.RenderKV("Newest", humanize.Time(s.Newest), 10))
	}
	fmt.Println(cli.RenderKV("TTL", ttlText(), 10))
	return nil
}

func runCacheDelete(cmd *cobra.Command, _ []string) error {
	f, err := currentFilter(cmd)
	if err != nil {
		return err
	}

	c, err := store.Open(pipeline.CachePath())
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	if err := c.Delete(f.Key()); err != nil {
		return err
	}
	fmt.Printf("  Removed cached batch for %s\n", cli.FormatFilter(f))
	return nil
}

func runCacheClear(_ *cobra.Command, _ []string) error {
	c, err := store.Open(pipeline.CachePath())
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	n, err := c.Clear()
	if err != nil {
		return err
	}
	fmt.Printf("  Removed %s cached %s\n", cli.FormatNumber(n), pluralize(n, "batch", "batches"))
	return nil
}

func ttlText() string {
	if !cfg.Cache.Enabled {
		return "disabled"
	}
	if cfg.Cache.TTL() <= 0 {
		return "never expires"
	}
	return cfg.Cache.TTL().String()
}

func pluralize(n int64, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
