package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"go.uber.org/zap"
)

// NewDB opens the DuckDB database at path. ":memory:" opens a private
// in-memory database shared by every connection of the returned pool.
func NewDB(path string) (*sql.DB, error) {
	dsn := path
	if path == ":memory:" {
		dsn = ""
	}
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database %s: %w", path, err)
	}
	return db, nil
}

// QueryInterceptor wraps a *sql.DB and logs every statement with its
// duration at debug level.
type QueryInterceptor struct {
	db *sql.DB
}

func NewQueryInterceptor(db *sql.DB) QueryInterceptor {
	return QueryInterceptor{db: db}
}

func (q QueryInterceptor) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	defer q.log(time.Now(), query, args)
	return q.db.QueryContext(ctx, query, args...)
}

func (q QueryInterceptor) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	defer q.log(time.Now(), query, args)
	return q.db.QueryRowContext(ctx, query, args...)
}

func (q QueryInterceptor) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	defer q.log(time.Now(), query, args)
	return q.db.ExecContext(ctx, query, args...)
}

// BeginTx starts a transaction. Statements run on the transaction are not
// logged.
func (q QueryInterceptor) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return q.db.BeginTx(ctx, nil)
}

func (q QueryInterceptor) log(started time.Time, query string, args []any) {
	zap.S().Named("store").Debugw("query", "sql", query, "args", len(args), "duration", time.Since(started))
}
