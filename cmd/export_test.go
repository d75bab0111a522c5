package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/theirongolddev/compras/internal/cli"
	"github.com/theirongolddev/compras/internal/config"
)

// captureStdout runs fn and returns what it wrote to os.Stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	done := make(chan string)
	go func() {
		b, _ := io.ReadAll(r)
		done <- string(b)
	}()
	fn()
	_ = w.Close()
	return <-done
}

func TestExportToStdoutKeepsNoDataOffStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	var diag bytes.Buffer
	origStderr := stderr
	t.Cleanup(func() {
		stderr = origStderr
		flagEndpoint, flagNoCache, flagQuiet = "", false, false
		flagExportFormat, flagExportOutput = "csv", ""
	})
	stderr = &diag
	cfg = config.DefaultConfig()
	flagEndpoint, flagNoCache, flagQuiet = srv.URL, true, true
	flagExportFormat, flagExportOutput = "csv", "-"
	exportCmd.SetContext(context.Background())

	var runErr error
	out := captureStdout(t, func() {
		runErr = runExport(exportCmd, nil)
	})

	if runErr != nil {
		t.Fatalf("runExport: %v", runErr)
	}
	if out != "" {
		t.Errorf("stdout = %q, want nothing", out)
	}
	if !strings.Contains(diag.String(), cli.NoDataMessage) {
		t.Errorf("stderr = %q, want the no data message", diag.String())
	}
}
