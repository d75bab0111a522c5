package store

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/compras/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "fetches.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

var key = model.Key{Year: 2024, Region: "Azuay", Type: model.TypeGoods}

func TestCache_PutGetRoundTrip(t *testing.T) {
	c := openTestCache(t)
	batch := []model.Record{
		{"title": "Compra", "amount": json.Number("100.50")},
		{"title": "Obra", "amount": "abc", "nested": map[string]any{"a": json.Number("1")}},
	}

	if err := c.Put(key, batch); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, at, ok, err := c.Get(key, time.Hour)
	if err != nil || !ok {
		t.Fatalf("Get = ok %v, err %v", ok, err)
	}
	if at.IsZero() {
		t.Error("fetched time is zero")
	}
	if len(got) != 2 {
		t.Fatalf("records = %d, want 2", len(got))
	}
	if n, ok := got[0]["amount"].(json.Number); !ok || n.String() != "100.50" {
		t.Errorf("amount = %#v, want json.Number 100.50", got[0]["amount"])
	}
	if got[1]["amount"] != "abc" {
		t.Errorf("amount = %#v, want string abc", got[1]["amount"])
	}
}

func TestCache_KeyIncludesType(t *testing.T) {
	c := openTestCache(t)
	if err := c.Put(key, []model.Record{{"title": "a"}}); err != nil {
		t.Fatal(err)
	}

	other := key
	other.Type = model.TypeWorks
	if _, _, ok, err := c.Get(other, 0); err != nil || ok {
		t.Errorf("Get(other type) = ok %v, err %v; want miss", ok, err)
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	c := openTestCache(t)
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return base }
	if err := c.Put(key, []model.Record{{"title": "a"}}); err != nil {
		t.Fatal(err)
	}

	c.now = func() time.Time { return base.Add(30 * time.Minute) }
	if _, at, ok, _ := c.Get(key, time.Hour); !ok || !at.Equal(base) {
		t.Errorf("fresh entry: ok %v at %v, want hit at %v", ok, at, base)
	}

	c.now = func() time.Time { return base.Add(2 * time.Hour) }
	if _, _, ok, _ := c.Get(key, time.Hour); ok {
		t.Error("expired entry returned")
	}
	if _, _, ok, _ := c.Get(key, 0); !ok {
		t.Error("maxAge 0 should never expire")
	}
}

func TestCache_DeleteClearStats(t *testing.T) {
	c := openTestCache(t)
	other := model.Key{Year: 2023, Region: "Loja", Type: model.TypeServices}
	if err := c.Put(key, []model.Record{{"a": "1"}, {"a": "2"}}); err != nil {
		t.Fatal(err)
	}
	if err := c.Put(other, []model.Record{{"a": "3"}}); err != nil {
		t.Fatal(err)
	}

	s, err := c.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if s.Entries != 2 || s.Records != 3 {
		t.Errorf("Stats = %d entries/%d records, want 2/3", s.Entries, s.Records)
	}

	if err := c.Delete(key); err != nil {
		t.Fatal(err)
	}
	if _, _, ok, _ := c.Get(key, 0); ok {
		t.Error("deleted entry still present")
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("Clear removed %d, want 1", n)
	}
	s, _ = c.Stats()
	if s.Entries != 0 || !s.Oldest.IsZero() {
		t.Errorf("Stats after clear = %+v, want empty", s)
	}
}
