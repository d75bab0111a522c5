// Package store provides a SQLite-backed cache for fetched procurement batches.
package store

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/compras/internal/model"

	_ "modernc.org/sqlite" // register sqlite driver
)

// timeLayout keeps fetched_at fixed-width so it sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Cache persists fetched batches keyed by (year, region, type).
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

// Stats summarizes the cache contents.
type Stats struct {
	Entries int
	Records int
	Oldest  time.Time
	Newest  time.Time
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db, now: time.Now}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the batch stored for key and when it was fetched. Entries
// older than maxAge are reported as missing; maxAge <= 0 disables expiry.
func (c *Cache) Get(key model.Key, maxAge time.Duration) ([]model.Record, time.Time, bool, error) {
	var fetchedStr string
	var payload []byte
	err := c.db.QueryRow(`SELECT fetched_at, payload FROM fetches
		WHERE year = ? AND search = ? AND process_type = ?`,
		key.Year, key.Region, key.Type,
	).Scan(&fetchedStr, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, false, nil
	}
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("reading cached batch: %w", err)
	}

	fetchedAt, err := time.Parse(timeLayout, fetchedStr)
	if err != nil {
		return nil, time.Time{}, false, fmt.Errorf("parsing fetched_at %q: %w", fetchedStr, err)
	}
	if maxAge > 0 && c.now().Sub(fetchedAt) > maxAge {
		return nil, time.Time{}, false, nil
	}

	records, err := decodePayload(payload)
	if err != nil {
		return nil, time.Time{}, false, err
	}
	return records, fetchedAt, true, nil
}

// Put stores records for key, replacing any previous entry.
func (c *Cache) Put(key model.Key, records []model.Record) error {
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding batch: %w", err)
	}

	_, err = c.db.Exec(`INSERT OR REPLACE INTO fetches
		(year, search, process_type, fetched_at, record_count, payload)
		VALUES (?, ?, ?, ?, ?, ?)`,
		key.Year, key.Region, key.Type,
		c.now().UTC().Format(timeLayout), len(records), payload,
	)
	if err != nil {
		return fmt.Errorf("writing batch: %w", err)
	}
	return nil
}

// Delete removes the entry for key, if any.
func (c *Cache) Delete(key model.Key) error {
	_, err := c.db.Exec("DELETE FROM fetches WHERE year = ? AND search = ? AND process_type = ?",
		key.Year, key.Region, key.Type)
	return err
}

// Clear removes every cached batch and returns how many were deleted.
func (c *Cache) Clear() (int64, error) {
	res, err := c.db.Exec("DELETE FROM fetches")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Stats returns entry and record counts plus the fetch time range.
func (c *Cache) Stats() (Stats, error) {
	var s Stats
	var oldest, newest sql.NullString
	err := c.db.QueryRow(`SELECT COUNT(*), COALESCE(SUM(record_count), 0),
		MIN(fetched_at), MAX(fetched_at) FROM fetches`,
	).Scan(&s.Entries, &s.Records, &oldest, &newest)
	if err != nil {
		return s, err
	}
	if oldest.Valid {
		s.Oldest, _ = time.Parse(timeLayout, oldest.String)
	}
	if newest.Valid {
		s.Newest, _ = time.Parse(timeLayout, newest.String)
	}
	return s, nil
}

// decodePayload restores a stored batch keeping numbers as json.Number, the
// same shape the HTTP client produces.
func decodePayload(payload []byte) ([]model.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var records []model.Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding cached batch: %w", err)
	}
	return records, nil
}
