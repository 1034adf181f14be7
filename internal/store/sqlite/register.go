// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite

import (
	"log/slog"

	"github.com/sigil-dev/litegraph/internal/metrics"
	"github.com/sigil-dev/litegraph/internal/store"
)

func init() {
	store.RegisterBackend("sqlite", newRepository)
}

func newRepository(cfg store.StorageConfig) (store.Repository, error) {
	repo, err := Open(cfg.Path, Options{
		MaxConcurrentOperations: cfg.MaxConcurrentOperations,
		PageSize:                cfg.PageSize,
		IndexData:               cfg.IndexData,
		Logger:                  slog.Default().With(slog.String("component", "store"), slog.String("backend", "sqlite")),
		Observer:                metrics.New(cfg.Metrics),
	})
	if err != nil {
		return nil, err
	}
	return repo, nil
}
