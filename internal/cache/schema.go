package cache

// Schema contains SQL schema definitions for the cache
const Schema = `
-- Resolved identifier mappings. The dashboard never changes a mapping once
-- it exists, so rows are write-once: first resolution wins.
CREATE TABLE IF NOT EXISTS athlete_ids (
    contact_id TEXT PRIMARY KEY,
    main_id TEXT NOT NULL,
    resolved_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Recent inbox listing pages, cached as JSON snapshots with a short TTL.
CREATE TABLE IF NOT EXISTS thread_pages (
    filter TEXT NOT NULL,
    page INTEGER NOT NULL,
    payload TEXT NOT NULL,
    cached_at DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (filter, page)
);

CREATE INDEX IF NOT EXISTS idx_thread_pages_cached_at ON thread_pages(cached_at);
`
