// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/sigil-dev/litegraph/internal/metrics"
	"github.com/sigil-dev/litegraph/internal/store"
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
)

// Compile-time interface check.
var _ store.Repository = (*Repository)(nil)

const defaultMaxConcurrentOperations = 4

// Options tunes a Repository.
type Options struct {
	// MaxConcurrentOperations bounds the connection pool. 0 uses 4.
	MaxConcurrentOperations int
	// PageSize is the number of rows fetched per read-many page. 0 uses store.DefaultPageSize.
	PageSize int
	// IndexData adds indices over the data column of graphs, nodes and edges.
	IndexData bool

	Logger   *slog.Logger
	Observer metrics.Observer
}

// Repository implements store.Repository on a single SQLite file.
//
// Every statement runs under queryMu. Check-then-insert sequences run under
// createMu, which is always acquired before queryMu.
type Repository struct {
	db       *sql.DB
	logger   *slog.Logger
	obs      metrics.Observer
	pageSize int

	queryMu  sync.Mutex
	createMu sync.Mutex
}

// Open opens (or creates) the database at path and creates the schema if absent.
func Open(path string, opts Options) (*Repository, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, lgerr.Errorf(lgerr.CodeStoreDatabaseFailure, "opening sqlite db: %w", err)
	}

	maxOps := opts.MaxConcurrentOperations
	if maxOps <= 0 {
		maxOps = defaultMaxConcurrentOperations
	}
	if path == ":memory:" {
		// Each connection to :memory: is a separate database.
		maxOps = 1
	}
	db.SetMaxOpenConns(maxOps)
	db.SetMaxIdleConns(maxOps)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, lgerr.Errorf(lgerr.CodeStoreDatabaseFailure, "pinging sqlite db: %w", err)
	}

	if err := migrate(db, opts.IndexData); err != nil {
		_ = db.Close()
		return nil, lgerr.Errorf(lgerr.CodeStoreDatabaseFailure, "migrating graph tables: %w", err)
	}

	r := &Repository{
		db:       db,
		logger:   opts.Logger,
		obs:      opts.Observer,
		pageSize: opts.PageSize,
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.obs == nil {
		r.obs = metrics.Noop{}
	}
	if r.pageSize <= 0 {
		r.pageSize = store.DefaultPageSize
	}
	return r, nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

func (r *Repository) lockQuery() func() {
	start := time.Now()
	r.queryMu.Lock()
	r.obs.LockWait("query", time.Since(start))
	return r.queryMu.Unlock
}

func (r *Repository) lockCreate() func() {
	start := time.Now()
	r.createMu.Lock()
	r.obs.LockWait("create", time.Since(start))
	return r.createMu.Unlock
}

// now returns the current time at the precision timestamps are stored with.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// stamp fills unset timestamps for a new row.
func stamp(created, updated *time.Time) {
	ts := now()
	if created.IsZero() {
		*created = ts
	} else {
		*created = created.UTC().Truncate(time.Microsecond)
	}
	*updated = ts
}

// storeError classifies a driver error and attaches the failing statement.
func storeError(err error, stmt string, transactional bool) error {
	if err == nil {
		return nil
	}
	fields := []lgerr.Attr{
		lgerr.Field("statement", stmt),
		lgerr.Field("transactional", transactional),
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return lgerr.Wrap(err, lgerr.CodeStoreConflict, "constraint violation", fields...)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return lgerr.Wrap(err, lgerr.CodeStoreDatabaseFailure, "executing statement", fields...)
}

// query runs stmt under queryMu and hands every row to scan.
func (r *Repository) query(ctx context.Context, stmt string, args []any, scan func(*sql.Rows) error) error {
	unlock := r.lockQuery()
	defer unlock()

	start := time.Now()
	err := func() error {
		rows, err := r.db.QueryContext(ctx, stmt, args...)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			if err := scan(rows); err != nil {
				return err
			}
		}
		return rows.Err()
	}()
	r.obs.Statement("query", time.Since(start), err)

	if err != nil {
		if lgerr.CodeOf(err) != "" {
			return err
		}
		return storeError(err, stmt, false)
	}
	return nil
}

// count runs a single-value integer query.
func (r *Repository) count(ctx context.Context, stmt string, args ...any) (int, error) {
	var n int
	err := r.query(ctx, stmt, args, func(rows *sql.Rows) error {
		return rows.Scan(&n)
	})
	return n, err
}

// txn is an open transaction. Its statements run while the owning
// Repository holds queryMu.
type txn struct {
	ctx context.Context
	tx  *sql.Tx
	obs metrics.Observer
}

func (t *txn) exec(stmt string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := t.tx.ExecContext(t.ctx, stmt, args...)
	t.obs.Statement("tx", time.Since(start), err)
	if err != nil {
		return nil, storeError(err, stmt, true)
	}
	return res, nil
}

// affected executes stmt and returns the number of rows it changed.
func (t *txn) affected(stmt string, args ...any) (int64, error) {
	res, err := t.exec(stmt, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeError(err, stmt, true)
	}
	return n, nil
}

func (t *txn) count(stmt string, args ...any) (int, error) {
	start := time.Now()
	var n int
	err := t.tx.QueryRowContext(t.ctx, stmt, args...).Scan(&n)
	t.obs.Statement("tx", time.Since(start), err)
	if err != nil {
		return 0, storeError(err, stmt, true)
	}
	return n, nil
}

// withTx runs fn in a transaction under queryMu, rolling back on error.
func (r *Repository) withTx(ctx context.Context, fn func(*txn) error) error {
	unlock := r.lockQuery()
	defer unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeError(err, "BEGIN", true)
	}

	if err := fn(&txn{ctx: ctx, tx: tx, obs: r.obs}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			r.logger.Warn("rollback failed", slog.String("error", rbErr.Error()))
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return storeError(err, "COMMIT", true)
	}
	return nil
}
