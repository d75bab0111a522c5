// Package cmd implements the compras CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/theirongolddev/compras/internal/cli"
	"github.com/theirongolddev/compras/internal/config"
	"github.com/theirongolddev/compras/internal/logging"
	"github.com/theirongolddev/compras/internal/model"
	"github.com/theirongolddev/compras/internal/ocds"
	"github.com/theirongolddev/compras/internal/pipeline"
	"github.com/theirongolddev/compras/internal/store"
)

var (
	flagYear      int
	flagRegion    string
	flagType      string
	flagSinceYear int
	flagNoCache   bool
	flagEndpoint  string
	flagQuiet     bool
	flagVerbose   bool
)

// stderr receives progress and the no data message.
var stderr io.Writer = os.Stderr

// Loaded once per invocation by PersistentPreRunE.
var (
	cfg    = config.DefaultConfig()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "compras",
	Short: "Public procurement dashboard",
	Long: "Fetch public procurement records for a year, region and process type,\n" +
		"then summarize, chart and export them.",
	SilenceUsage:      true,
	PersistentPreRunE: initRun,
	RunE:              runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.IntVarP(&flagYear, "year", "y", 0, "Year to fetch (default from config)")
	pf.StringVarP(&flagRegion, "region", "r", "", "Province or search text (default from config)")
	pf.StringVarP(&flagType, "type", "t", "", "Process type: Bienes, Servicios or Obras (default from config)")
	pf.IntVar(&flagSinceYear, "since-year", 0, "Drop dated records before this year")
	pf.BoolVar(&flagNoCache, "no-cache", false, "Skip the SQLite fetch cache")
	pf.StringVar(&flagEndpoint, "endpoint", "", "Override the search endpoint URL")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Debug logging to stderr")
}

// initRun loads the config and builds the logger for every command.
func initRun(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded

	level := cfg.Log.Level
	if flagVerbose {
		level = "debug"
	}
	logPath := ""
	if cmd.Name() == "tui" {
		logPath = filepath.Join(pipeline.CacheDir(), "compras.log")
		if err := os.MkdirAll(pipeline.CacheDir(), 0o750); err != nil {
			return fmt.Errorf("creating cache dir: %w", err)
		}
	}
	l, err := logging.New(level, logPath)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// currentFilter merges the config defaults with any flags the user set.
func currentFilter(cmd *cobra.Command) (model.Filter, error) {
	f := cfg.Defaults.Filter()
	flags := cmd.Flags()
	if flags.Changed("year") {
		f.Year = flagYear
	}
	if flags.Changed("region") {
		f.Region = flagRegion
	}
	if flags.Changed("type") {
		f.Type = flagType
	}
	if flags.Changed("since-year") {
		f.SinceYear = flagSinceYear
	}
	if err := config.ValidateFilter(f); err != nil {
		return f, err
	}
	return f, nil
}

// newLoader wires the HTTP client and, unless disabled, the SQLite cache.
// The returned func releases the cache.
func newLoader() (*pipeline.Loader, func()) {
	endpoint := cfg.API.Endpoint
	if flagEndpoint != "" {
		endpoint = flagEndpoint
	}
	client := ocds.NewClient(ocds.Options{
		Endpoint:   endpoint,
		Timeout:    cfg.API.Timeout(),
		RatePerSec: cfg.API.RatePerSec,
	})

	opts := []pipeline.LoaderOption{pipeline.WithLogger(logger)}
	cleanup := func() {}

	if !flagNoCache && cfg.Cache.Enabled {
		cache, err := store.Open(pipeline.CachePath())
		if err != nil {
			// Cache open failed; fetch without it
			logger.Warn("cache unavailable", zap.Error(err))
			progressf("  Cache unavailable, fetching directly\n")
		} else {
			opts = append(opts, pipeline.WithCache(cache, cfg.Cache.TTL()))
			cleanup = func() { _ = cache.Close() }
		}
	}

	return pipeline.NewLoader(pipeline.RemoteFetcher{Client: client}, opts...), cleanup
}

// withReport is the shared load path of the report commands. It resolves
// the filter, loads the report and passes it to render. An empty result
// prints the no data message and succeeds.
func withReport(cmd *cobra.Command, render func(f model.Filter, r *model.Report, t *model.Table) error) error {
	f, err := currentFilter(cmd)
	if err != nil {
		return err
	}

	loader, cleanup := newLoader()
	defer cleanup()

	progressf("  Fetching %s...\n", cli.FormatFilter(f))
	report, table, res, err := loader.Report(cmd.Context(), f)

	switch {
	case res.Err != nil:
		progressf("  Fetch failed: %v\n", res.Err)
	case res.Source == pipeline.SourceCache:
		progressf("  Loaded %s records from cache (%s)\n",
			cli.FormatNumber(int64(len(res.Records))), cli.FormatAge(res.FetchedAt))
	default:
		progressf("  Fetched %s records\n", cli.FormatNumber(int64(len(res.Records))))
	}

	if errors.Is(err, pipeline.ErrNoData) {
		// stderr keeps `export -o -` output clean.
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "  "+cli.NoDataMessage)
		return nil
	}
	if err != nil {
		return err
	}
	return render(f, report, table)
}

// progressf writes a progress line to stderr unless --quiet.
func progressf(format string, args ...any) {
	if flagQuiet {
		return
	}
	fmt.Fprintf(stderr, format, args...)
}

// printSkips lists skipped views among views, or all when views is empty.
func printSkips(r *model.Report, views ...string) {
	for _, s := range r.Skipped {
		if len(views) > 0 && !slices.Contains(views, s.View) {
			continue
		}
		fmt.Println(cli.RenderNotice(cli.FormatSkip(s)))
	}
}

func title(name string, f model.Filter) string {
	return cli.RenderTitle(name + "  " + cli.FormatFilter(f))
}
