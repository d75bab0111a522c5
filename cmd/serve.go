package cmd

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/compras/internal/server"
)

var flagServeAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard and JSON API over HTTP",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "Listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	f, err := currentFilter(cmd)
	if err != nil {
		return err
	}

	addr := cfg.Server.Addr
	if flagServeAddr != "" {
		addr = flagServeAddr
	}

	loader, cleanup := newLoader()
	defer cleanup()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := server.New(server.Config{
		Addr:            addr,
		Defaults:        f,
		HistorySize:     50,
		ShutdownTimeout: 10 * time.Second,
		RequestTimeout:  cfg.API.Timeout() + 5*time.Second,
	}, loader, logger)

	progressf("  Serving on http://%s (ctrl+c to stop)\n", addr)
	return svc.Run(ctx)
}
