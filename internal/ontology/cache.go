package ontology

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Cache is the on-disk store for fetched ontology term sets, keyed by
// category. It is read before any live fetch and written after a
// successful one, so separate runs reuse the same terms without
// re-querying the endpoint.
type Cache struct {
	conn *sql.DB
	Path string
}

const cacheSchema = `
CREATE TABLE IF NOT EXISTS terms (
	category    TEXT NOT NULL,
	term_id     TEXT NOT NULL,
	description TEXT NOT NULL,
	PRIMARY KEY (category, term_id)
);
CREATE TABLE IF NOT EXISTS fetches (
	category   TEXT PRIMARY KEY,
	fetched_at INTEGER NOT NULL
);
`

// OpenCache opens (creating if needed) the cache database with WAL mode
// enabled.
func OpenCache(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}
	if _, err := conn.Exec(cacheSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return &Cache{conn: conn, Path: path}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.conn.Close()
}

// Load returns the cached term set for a category. An empty map means
// the category has never been cached.
func (c *Cache) Load(category string) (map[string]string, error) {
	rows, err := c.conn.Query(
		"SELECT term_id, description FROM terms WHERE category = ?", category)
	if err != nil {
		return nil, fmt.Errorf("loading cached %s: %w", category, err)
	}
	defer rows.Close()

	terms := make(map[string]string)
	for rows.Next() {
		var id, desc string
		if err := rows.Scan(&id, &desc); err != nil {
			return nil, err
		}
		terms[id] = desc
	}
	return terms, rows.Err()
}

// Store replaces the cached term set for a category in one transaction.
func (c *Cache) Store(category string, terms map[string]string) error {
	tx, err := c.conn.Begin()
	if err != nil {
		return fmt.Errorf("starting cache transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM terms WHERE category = ?", category); err != nil {
		return fmt.Errorf("clearing cached %s: %w", category, err)
	}
	stmt, err := tx.Prepare("INSERT INTO terms (category, term_id, description) VALUES (?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()
	for id, desc := range terms {
		if _, err := stmt.Exec(category, id, desc); err != nil {
			return fmt.Errorf("caching %s term %s: %w", category, id, err)
		}
	}

	if _, err := tx.Exec(
		"INSERT INTO fetches (category, fetched_at) VALUES (?, ?) ON CONFLICT(category) DO UPDATE SET fetched_at = excluded.fetched_at",
		category, time.Now().Unix()); err != nil {
		return fmt.Errorf("recording fetch time: %w", err)
	}
	return tx.Commit()
}
