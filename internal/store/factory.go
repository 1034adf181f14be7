// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

import (
	"slices"
	"sync"

	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
)

// RepositoryFactory opens a Repository for a storage configuration.
type RepositoryFactory func(cfg StorageConfig) (Repository, error)

var (
	factories   = map[string]RepositoryFactory{}
	factoriesMu sync.RWMutex
)

// RegisterBackend registers the factory for a named storage backend.
// Backend packages call this from init(). This function is goroutine-safe.
func RegisterBackend(name string, factory RepositoryFactory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = factory
}

// Backends returns the registered backend names in sorted order.
func Backends() []string {
	factoriesMu.RLock()
	defer factoriesMu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// resolveBackend returns the effective backend name, defaulting to "sqlite".
func resolveBackend(cfg StorageConfig) string {
	if cfg.Backend == "" {
		return "sqlite"
	}
	return cfg.Backend
}

// Open creates the repository for cfg through the registered backend.
func Open(cfg StorageConfig) (Repository, error) {
	backend := resolveBackend(cfg)

	factoriesMu.RLock()
	factory, ok := factories[backend]
	factoriesMu.RUnlock()
	if !ok {
		return nil, lgerr.Errorf(lgerr.CodeStoreBackendUnsupported, "unsupported storage backend: %q", backend)
	}

	if cfg.Path == "" {
		return nil, lgerr.New(lgerr.CodeStoreInvalidInput, "storage path is required")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = DefaultPageSize
	}

	return factory(cfg)
}
