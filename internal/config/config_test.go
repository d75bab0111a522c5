package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/compras/internal/model"
)

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := DefaultConfig()
	if cfg != want {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, want)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compras", "config.toml")
	cfg := DefaultConfig()
	cfg.Defaults.Region = "Pichincha"
	cfg.Defaults.Type = model.TypeWorks
	cfg.Cache.TTLHours = 6

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got != cfg {
		t.Errorf("round trip = %+v, want %+v", got, cfg)
	}
}

func TestLoadFrom_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[defaults]\nregion = \"Loja\"\n\n[log]\nlevel = \"debug\"\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.Region != "Loja" || cfg.Log.Level != "debug" {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Defaults.Year != 2024 || cfg.Defaults.Type != model.TypeGoods {
		t.Errorf("defaults lost: %+v", cfg.Defaults)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("COMPRAS_LOG_LEVEL", "error")
	t.Setenv("COMPRAS_DEFAULTS_YEAR", "2022")
	t.Setenv("COMPRAS_CACHE_ENABLED", "false")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Log.Level != "error" || cfg.Defaults.Year != 2022 || cfg.Cache.Enabled {
		t.Errorf("env overrides not applied: log=%s year=%d cache=%v",
			cfg.Log.Level, cfg.Defaults.Year, cfg.Cache.Enabled)
	}
}

func TestLoadFrom_InvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[defaults]\ntype = \"Consultoria\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if !errors.Is(err, ErrInvalidConfig) || !errors.Is(err, ErrInvalidFilter) {
		t.Fatalf("err = %v, want ErrInvalidConfig wrapping ErrInvalidFilter", err)
	}
}

func TestValidateFilter(t *testing.T) {
	ok := model.Filter{Year: 2024, Region: "Azuay", Type: model.TypeServices}
	if err := ValidateFilter(ok); err != nil {
		t.Errorf("valid filter rejected: %v", err)
	}

	bad := []model.Filter{
		{Year: 1999, Type: model.TypeGoods},
		{Year: 2024, Type: "Consultoria"},
		{Year: 2024, Type: model.TypeGoods, Region: strings.Repeat("x", 121)},
		{Year: 2024, Type: model.TypeGoods, SinceYear: 1990},
	}
	for _, f := range bad {
		if err := ValidateFilter(f); !errors.Is(err, ErrInvalidFilter) {
			t.Errorf("ValidateFilter(%+v) = %v, want ErrInvalidFilter", f, err)
		}
	}
}

func TestValidateFilter_MessageUsesFieldNames(t *testing.T) {
	err := ValidateFilter(model.Filter{Year: 2024, Type: "x"})
	if err == nil || !strings.Contains(err.Error(), "type must be one of: Bienes, Servicios, Obras") {
		t.Errorf("err = %v, want message naming type", err)
	}
}
