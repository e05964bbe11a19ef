// Package db is the query layer over Postgres. It follows the sqlc layout:
// a DBTX abstraction over *sql.DB and *sql.Tx, a Queries struct holding the
// hand-written SQL, and a Querier interface so callers can be stubbed in
// tests. All queries use RETURNING so every write hands back the full row.
package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so the same query methods
// run inside and outside transactions.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	PrepareContext(context.Context, string) (*sql.Stmt, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// WithTx returns a Queries bound to tx. The caller owns commit/rollback.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}
