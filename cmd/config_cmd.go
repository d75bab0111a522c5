package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/compras/internal/config"
	"github.com/theirongolddev/compras/internal/pipeline"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Printf("  Environment overrides: %s_*\n", config.EnvPrefix)
	fmt.Println()

	fmt.Println("  [Defaults]")
	fmt.Printf("    Year:        %d\n", cfg.Defaults.Year)
	fmt.Printf("    Region:      %s\n", cfg.Defaults.Region)
	fmt.Printf("    Type:        %s\n", cfg.Defaults.Type)
	if cfg.Defaults.SinceYear > 0 {
		fmt.Printf("    Since year:  %d\n", cfg.Defaults.SinceYear)
	}
	fmt.Println()

	fmt.Println("  [API]")
	endpoint := cfg.API.Endpoint
	if endpoint == "" {
		endpoint = "built-in"
	}
	fmt.Printf("    Endpoint:    %s\n", endpoint)
	fmt.Printf("    Timeout:     %s\n", cfg.API.Timeout())
	fmt.Printf("    Rate limit:  %.1f req/s\n", cfg.API.RatePerSec)
	fmt.Println()

	fmt.Println("  [Cache]")
	fmt.Printf("    Enabled:     %v\n", cfg.Cache.Enabled)
	fmt.Printf("    TTL:         %s\n", ttlText())
	fmt.Printf("    Path:        %s\n", pipeline.CachePath())
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:     %s\n", cfg.Server.Addr)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:       %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:       %s\n", cfg.Log.Level)
	fmt.Println()

	fmt.Println("  Run `compras setup` to reconfigure.")
	return nil
}
