// Package sqlite records ledger movement for the contribution tracker and
// profile views. The in-memory account is authoritative; this store is a
// write-behind record with no durability guarantee — a failed write is
// logged by the caller, never rolled into the ledger operation's result.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite handle.
type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and applies migrations.
// Use ":memory:" for an ephemeral store.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// modernc sqlite is in-process; a single connection avoids table locks.
	db.SetMaxOpenConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying handle.
func (d *DB) Close() error { return d.db.Close() }

// Migrations returns the schema migration statements.
// Each string is a single SQL statement (SQLite executes one at a time).
func Migrations() []string {
	return []string{
		// Latest ledger state per account
		`CREATE TABLE IF NOT EXISTS account_snapshots (
			account_id          TEXT PRIMARY KEY,
			username            TEXT NOT NULL,
			wallet_balance      REAL NOT NULL DEFAULT 0,
			carbon_tax_liability REAL NOT NULL DEFAULT 0,
			supercoins          INTEGER NOT NULL DEFAULT 0,
			lifetime_emissions  REAL NOT NULL DEFAULT 0,
			updated_at          TEXT NOT NULL DEFAULT (datetime('now'))
		)`,

		// Committed offset purchases
		`CREATE TABLE IF NOT EXISTS offset_purchases (
			id            TEXT PRIMARY KEY,
			account_id    TEXT NOT NULL,
			credit_type   TEXT NOT NULL,
			offset_amount REAL NOT NULL,
			price_paid    REAL NOT NULL,
			purchased_at  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_offsets_account ON offset_purchases(account_id)`,

		// Committed SuperCoin redemptions
		`CREATE TABLE IF NOT EXISTS redemptions (
			id          TEXT PRIMARY KEY,
			account_id  TEXT NOT NULL,
			kind        TEXT NOT NULL,
			coins_spent INTEGER NOT NULL,
			redeemed_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_redemptions_account ON redemptions(account_id)`,
	}
}

func (d *DB) migrate() error {
	for _, stmt := range Migrations() {
		if _, err := d.db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
