// Package runledger tracks planning attempts per host and window in a
// node-local sqlite file. Storage keys derived from it stay recognizable
// across redeliveries of the same message: the hash part is stable and
// only the attempt counter moves.
package runledger

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS run_attempts (
    host_id      TEXT NOT NULL,
    window_start TEXT NOT NULL,
    window_end   TEXT NOT NULL,
    attempts     INTEGER NOT NULL,
    updated_at   TEXT NOT NULL DEFAULT (datetime('now')),
    PRIMARY KEY (host_id, window_start, window_end)
);`

// Ledger is safe for concurrent use; sqlite access is serialized on a
// single connection.
type Ledger struct {
	db *sql.DB
}

// Open creates or opens the ledger at path (":memory:" for tests).
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open run ledger")
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "apply run ledger schema")
	}
	return &Ledger{db: db}, nil
}

// NextAttempt bumps and returns the attempt counter for the run key.
// The first call for a key returns 1.
func (l *Ledger) NextAttempt(ctx context.Context, hostID, windowStart, windowEnd string) (int, error) {
	var attempts int
	err := l.db.QueryRowContext(ctx, `
		INSERT INTO run_attempts (host_id, window_start, window_end, attempts)
		VALUES (?, ?, ?, 1)
		ON CONFLICT (host_id, window_start, window_end)
		DO UPDATE SET attempts = attempts + 1, updated_at = datetime('now')
		RETURNING attempts`,
		hostID, windowStart, windowEnd).Scan(&attempts)
	if err != nil {
		return 0, errors.Wrap(err, "bump run attempt")
	}
	return attempts, nil
}

// Close releases the underlying database.
func (l *Ledger) Close() error { return l.db.Close() }

// RunID derives the stable run identifier: a hash of the run key plus
// the attempt counter. Re-runs of the same window share the hash prefix.
func RunID(hostID, windowStart, windowEnd string, attempt int) string {
	sum := sha256.Sum256([]byte(hostID + "|" + windowStart + "|" + windowEnd))
	return fmt.Sprintf("%s-%d", hex.EncodeToString(sum[:8]), attempt)
}
