// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite

import (
	"context"
	"database/sql"
	"iter"
	"log/slog"
	"strings"

	"github.com/sigil-dev/litegraph/internal/store"
)

// maxBoundParams caps the number of candidates bound in one IN list or
// VALUES table, below SQLite's host parameter limit.
const maxBoundParams = 400

// paginate yields rows page by page with an increasing offset until a page
// comes back empty. No lock is held between pages.
func paginate[T any](ctx context.Context, pageSize, skip int, fetch func(ctx context.Context, limit, offset int) ([]T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		offset := skip
		for {
			if err := ctx.Err(); err != nil {
				yield(zero, err)
				return
			}

			page, err := fetch(ctx, pageSize, offset)
			if err != nil {
				yield(zero, err)
				return
			}
			if len(page) == 0 {
				return
			}

			for _, item := range page {
				if !yield(item, nil) {
					return
				}
			}
			offset += len(page)
		}
	}
}

// listPage runs one page of spec and returns the scanned rows.
func listPage[T any](ctx context.Context, r *Repository, spec listSpec, q store.ListQuery, limit, offset int, scan func(rowScanner) (T, error)) ([]T, error) {
	stmt, args, filterApplied := spec.build(q, limit, offset)
	if !filterApplied && offset == q.Skip {
		r.logger.Debug("filter expression not compilable, ignoring",
			slog.String("table", spec.table),
			slog.String("filter", q.Filter.String()),
		)
	}

	var out []T
	err := r.query(ctx, stmt, args, func(rows *sql.Rows) error {
		item, err := scan(rows)
		if err != nil {
			return err
		}
		out = append(out, item)
		return nil
	})
	return out, err
}

// rowScanner is satisfied by *sql.Rows and *sql.Row.
type rowScanner interface {
	Scan(dest ...any) error
}

// chunks splits items into slices of at most size elements.
func chunks[T any](items []T, size int) [][]T {
	var out [][]T
	for len(items) > size {
		out = append(out, items[:size])
		items = items[size:]
	}
	if len(items) > 0 {
		out = append(out, items)
	}
	return out
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func toArgs(values []string) []any {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v
	}
	return args
}

// dedupe returns values without repeats, keeping first-occurrence order.
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
