package pipeline

import (
	"os"
	"path/filepath"
)

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "compras")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "compras")
}

// CachePath returns the full path to the fetch cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "fetches.db")
}
