package cmd

import (
	"testing"

	"github.com/theirongolddev/compras/internal/config"
	"github.com/theirongolddev/compras/internal/model"
	"github.com/theirongolddev/compras/internal/pipeline"
	"github.com/theirongolddev/compras/internal/store"
)

func TestCacheDeleteRemovesCurrentFilterOnly(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	cfg = config.DefaultConfig()

	current := cfg.Defaults.Filter().Key()
	other := current
	other.Type = model.TypeWorks

	c, err := store.Open(pipeline.CachePath())
	if err != nil {
		t.Fatal(err)
	}
	batch := []model.Record{{"title": "Suministros"}}
	for _, k := range []model.Key{current, other} {
		if err := c.Put(k, batch); err != nil {
			t.Fatal(err)
		}
	}
	_ = c.Close()

	if err := runCacheDelete(cacheDeleteCmd, nil); err != nil {
		t.Fatalf("runCacheDelete: %v", err)
	}

	c, err = store.Open(pipeline.CachePath())
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = c.Close() }()

	if _, _, ok, _ := c.Get(current, 0); ok {
		t.Error("current filter batch still cached")
	}
	if _, _, ok, _ := c.Get(other, 0); !ok {
		t.Error("other type batch was deleted")
	}
}
