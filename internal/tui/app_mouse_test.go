package tui

import (
	"testing"

	"github.com/theirongolddev/compras/internal/tui/components"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	n := len(components.Tabs)
	for active := 0; active < n; active++ {
		a := App{activeTab: active}
		pos := 0
		for i, tab := range components.Tabs {
			w := components.TabVisualWidth(tab, i == active)
			if got := a.tabAtX(pos + w/2); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, pos+w/2, got, i)
			}
			pos += w + 1 // separator
		}
		if got := a.tabAtX(pos + 5); got != -1 {
			t.Errorf("x past the last tab = %d, want -1", got)
		}
	}
}

func TestTabVisualWidth(t *testing.T) {
	tab := components.Tabs[0] // Overview
	if got, want := components.TabVisualWidth(tab, true), len("Overview")+2; got != want {
		t.Errorf("active width = %d, want %d", got, want)
	}
	if got, want := components.TabVisualWidth(tab, false), len("[O]verview")+2; got != want {
		t.Errorf("inactive width = %d, want %d", got, want)
	}
}
