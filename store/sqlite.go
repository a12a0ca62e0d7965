// Package store persists blotters, breaks, PnL and the run audit trail in
// SQLite. Every per-date write is a full replace: delete the date's rows,
// insert the fresh set, inside one transaction.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the reconciliation database and
// applies the schema. _txlock=immediate makes every transaction take the
// write lock up front, so two recomputes racing on the same (engine, date)
// serialize instead of interleaving their delete+insert; the busy timeout
// lets the loser wait rather than fail.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_txlock=immediate&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

// withTx runs fn inside a transaction, rolling back on any error so a failed
// replace leaves the prior date's rows untouched.
func (s *SQLite) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}
