package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS fetches (
    year                 INTEGER NOT NULL,
    search               TEXT NOT NULL,
    process_type         TEXT NOT NULL,
    fetched_at           TEXT NOT NULL,
    record_count         INTEGER NOT NULL,
    payload              BLOB NOT NULL,
    PRIMARY KEY (year, search, process_type)
);

CREATE INDEX IF NOT EXISTS idx_fetches_fetched_at ON fetches(fetched_at);
`
