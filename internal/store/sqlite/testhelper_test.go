// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sigil-dev/litegraph/internal/store"
	"github.com/sigil-dev/litegraph/internal/store/sqlite"
	"github.com/stretchr/testify/require"
)

const (
	testTenant = "tenant-1"
	testGraph  = "graph-1"
)

// testDir creates a temp directory for a test and returns cleanup func.
func testDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "litegraph-test-*")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

// testDBPath returns a temp SQLite database path.
func testDBPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(testDir(t), name+".db")
}

// openRepo opens a fresh repository that is closed with the test.
func openRepo(t *testing.T, opts sqlite.Options) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.Open(testDBPath(t, "graph"), opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// seedGraph opens a repository holding testTenant and testGraph.
func seedGraph(t *testing.T, opts sqlite.Options) *sqlite.Repository {
	t.Helper()
	ctx := context.Background()
	repo := openRepo(t, opts)

	_, err := repo.CreateTenant(ctx, &store.Tenant{GUID: testTenant, Name: "Tenant", Active: true})
	require.NoError(t, err)
	_, err = repo.CreateGraph(ctx, &store.Graph{TenantGUID: testTenant, GUID: testGraph, Name: "Graph"})
	require.NoError(t, err)
	return repo
}

func addNode(t *testing.T, repo *sqlite.Repository, guid, name string, data any) *store.Node {
	t.Helper()
	n, err := repo.CreateNode(context.Background(), &store.Node{
		TenantGUID: testTenant, GraphGUID: testGraph, GUID: guid, Name: name, Data: data,
	})
	require.NoError(t, err)
	return n
}

func addEdge(t *testing.T, repo *sqlite.Repository, guid, from, to string, cost int) *store.Edge {
	t.Helper()
	e, err := repo.CreateEdge(context.Background(), &store.Edge{
		TenantGUID: testTenant, GraphGUID: testGraph, GUID: guid, Name: guid, From: from, To: to, Cost: cost,
	})
	require.NoError(t, err)
	return e
}

type guidOwner interface {
	*store.Node | *store.Edge | *store.Graph
}

func guidsOf[T guidOwner](items []T) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		switch v := any(it).(type) {
		case *store.Node:
			out = append(out, v.GUID)
		case *store.Edge:
			out = append(out, v.GUID)
		case *store.Graph:
			out = append(out, v.GUID)
		}
	}
	return out
}

// concurrently runs fn n times in parallel and asserts that none failed.
func concurrently(t *testing.T, n int, fn func(i int) error) {
	t.Helper()
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- fn(i)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
}
