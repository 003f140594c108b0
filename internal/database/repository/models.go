package repository

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx so a repo can run inside
// database.WithTx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RecordRow represents a records row.
type RecordRow struct {
	ID          string
	Base        string
	Counter     string
	BuyPrice    string
	SellPrice   string
	Icon        string
	DisplayName string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
