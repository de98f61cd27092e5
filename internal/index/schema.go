// Package index mirrors the current catalog snapshot into an in-memory
// SQLite database for facet aggregation.
package index

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultDSN keeps the mirror in memory; it is rebuilt on every catalog load.
const DefaultDSN = "file:logoteca?mode=memory&cache=shared"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS logos (
	id        INTEGER PRIMARY KEY,
	name      TEXT    NOT NULL,
	year      INTEGER NOT NULL,
	decade    INTEGER NOT NULL,
	color     TEXT    NOT NULL,
	type      TEXT    NOT NULL,
	image_url TEXT    NOT NULL,
	source    TEXT    NOT NULL,
	fallback  INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_logos_color  ON logos(color);
CREATE INDEX IF NOT EXISTS idx_logos_type   ON logos(type);
CREATE INDEX IF NOT EXISTS idx_logos_decade ON logos(decade);
`

// DB wraps a sql.DB with facet-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens the SQLite database and applies the schema. An empty dsn uses
// DefaultDSN.
func Open(dsn string) (*DB, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	conn, err := sql.Open("sqlite3", dsn+sep+"_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	// A memory database lives as long as one connection holds it.
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
