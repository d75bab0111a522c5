package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/compras/internal/config"
	"github.com/theirongolddev/compras/internal/model"
	"github.com/theirongolddev/compras/internal/tui/theme"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup of default filters and preferences",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	next := cfg

	var years []huh.Option[int]
	for y := time.Now().Year(); y >= 2019; y-- {
		years = append(years, huh.NewOption(strconv.Itoa(y), y))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to compras").
				Description("Pick the filter used when no flag is given."),
			huh.NewSelect[int]().
				Title("Default year").
				Options(years...).
				Value(&next.Defaults.Year),
			huh.NewInput().
				Title("Default region").
				CharLimit(120).
				Value(&next.Defaults.Region),
			huh.NewSelect[string]().
				Title("Default process type").
				Options(huh.NewOptions(model.ProcessTypes...)...).
				Value(&next.Defaults.Type),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&next.Appearance.Theme),
			huh.NewConfirm().
				Title("Cache fetched batches on disk?").
				Value(&next.Cache.Enabled),
			huh.NewSelect[string]().
				Title("Log level").
				Options(huh.NewOptions("debug", "info", "warn", "error")...).
				Value(&next.Log.Level),
		),
	).WithTheme(huh.ThemeCharm())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup canceled, nothing saved.")
			return nil
		}
		return err
	}

	next.Defaults.Region = strings.TrimSpace(next.Defaults.Region)
	if err := config.Validate(next); err != nil {
		return err
	}
	if err := config.Save(next); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `compras setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
