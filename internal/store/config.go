// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

// StorageConfig controls which backend the store factory uses.
type StorageConfig struct {
	Backend string // "sqlite" is the only supported backend for now.
	Path    string // Database file path.

	MaxConcurrentOperations int  // Connection pool bound; 0 uses the backend default.
	PageSize                int  // Rows fetched per page by read-many; 0 uses DefaultPageSize.
	IndexData               bool // Index the data column of graphs, nodes and edges.
	Metrics                 bool // Record Prometheus metrics for statements and locks.
}

// DefaultPageSize is the read-many page size used when none is configured.
const DefaultPageSize = 100
