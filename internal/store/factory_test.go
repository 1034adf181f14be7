// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store_test

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sigil-dev/litegraph/internal/store"
	_ "github.com/sigil-dev/litegraph/internal/store/sqlite" // register sqlite backend
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := store.StorageConfig{
		Backend: "sqlite",
		Path:    filepath.Join(t.TempDir(), "graph.db"),
	}

	repo, err := store.Open(cfg)
	require.NoError(t, err)
	require.NotNil(t, repo)
	require.NoError(t, repo.Close())
}

func TestOpen_DefaultBackend(t *testing.T) {
	cfg := store.StorageConfig{Path: filepath.Join(t.TempDir(), "graph.db")} // empty backend defaults to sqlite

	repo, err := store.Open(cfg)
	require.NoError(t, err)
	require.NoError(t, repo.Close())
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := store.Open(store.StorageConfig{Backend: "unknown", Path: "x.db"})
	require.Error(t, err)
	assert.True(t, lgerr.HasCode(err, lgerr.CodeStoreBackendUnsupported))
	assert.Contains(t, err.Error(), "unknown")
}

func TestOpen_MissingPath(t *testing.T) {
	_, err := store.Open(store.StorageConfig{Backend: "sqlite"})
	require.Error(t, err)
	assert.True(t, lgerr.IsInvalidInput(err))
}

func TestOpen_AppliesDefaultPageSize(t *testing.T) {
	var got store.StorageConfig
	store.RegisterBackend("capture", func(cfg store.StorageConfig) (store.Repository, error) {
		got = cfg
		return nil, nil
	})

	_, err := store.Open(store.StorageConfig{Backend: "capture", Path: "p"})
	require.NoError(t, err)
	assert.Equal(t, store.DefaultPageSize, got.PageSize)
	assert.Contains(t, store.Backends(), "capture")
	assert.Contains(t, store.Backends(), "sqlite")
}

// TestRegisterBackend_Concurrent verifies that RegisterBackend is goroutine-safe
// and can handle concurrent registrations without race conditions.
func TestRegisterBackend_Concurrent(t *testing.T) {
	const numGoroutines = 10
	const registrationsPerGoroutine = 10

	var wg sync.WaitGroup
	for i := range numGoroutines {
		wg.Add(1)
		go func(goroutineID int) {
			defer wg.Done()
			for j := range registrationsPerGoroutine {
				name := fmt.Sprintf("backend-%d-%d", goroutineID, j)
				store.RegisterBackend(name, func(store.StorageConfig) (store.Repository, error) {
					return nil, nil
				})
				_ = store.Backends()
			}
		}(i)
	}
	wg.Wait()
}
