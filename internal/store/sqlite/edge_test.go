// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/sigil-dev/litegraph/internal/store"
	"github.com/sigil-dev/litegraph/internal/store/sqlite"
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedTriangle builds a -> b -> c, a -> c, c -> a.
func seedTriangle(t *testing.T) *sqlite.Repository {
	t.Helper()
	repo := seedGraph(t, sqlite.Options{PageSize: 2})
	addNode(t, repo, "a", "a", nil)
	addNode(t, repo, "b", "b", nil)
	addNode(t, repo, "c", "c", nil)
	addEdge(t, repo, "ab", "a", "b", 5)
	addEdge(t, repo, "bc", "b", "c", 1)
	addEdge(t, repo, "ac", "a", "c", 9)
	addEdge(t, repo, "ca", "c", "a", 2)
	return repo
}

func TestEdge_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := seedGraph(t, sqlite.Options{})
	addNode(t, repo, "a", "a", nil)
	addNode(t, repo, "b", "b", nil)

	created, err := repo.CreateEdge(ctx, &store.Edge{
		TenantGUID: testTenant, GraphGUID: testGraph, GUID: "ab", Name: "knows",
		From: "a", To: "b", Cost: 4,
		Data:   map[string]any{"Since": 2019},
		Labels: []string{"social"},
	})
	require.NoError(t, err)
	assert.Equal(t, "a", created.From)
	assert.Equal(t, "b", created.To)
	assert.Equal(t, 4, created.Cost)
	assert.Equal(t, []string{"social"}, created.Labels)

	created.From, created.To, created.Cost = "b", "a", 7
	updated, err := repo.UpdateEdge(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "b", updated.From)
	assert.Equal(t, 7, updated.Cost)

	require.NoError(t, repo.DeleteEdge(ctx, testTenant, testGraph, "ab"))
	exists, err := repo.EdgeExists(ctx, testTenant, testGraph, "ab")
	require.NoError(t, err)
	assert.False(t, exists)

	err = repo.DeleteEdge(ctx, testTenant, testGraph, "ab")
	require.Error(t, err)
	assert.True(t, lgerr.IsNotFound(err))
}

func TestEdge_RejectsNegativeCost(t *testing.T) {
	repo := seedGraph(t, sqlite.Options{})

	_, err := repo.CreateEdge(context.Background(), &store.Edge{TenantGUID: testTenant, GraphGUID: testGraph, GUID: "x", From: "a", To: "b", Cost: -1})
	require.Error(t, err)
	assert.True(t, lgerr.IsInvalidInput(err))
}

func TestEdge_UpdateChecksEndpoints(t *testing.T) {
	ctx := context.Background()
	repo := seedTriangle(t)

	e, err := repo.ReadEdge(ctx, testTenant, testGraph, "ab")
	require.NoError(t, err)
	e.To = "ghost"

	_, err = repo.UpdateEdge(ctx, e)
	require.Error(t, err)
	assert.True(t, lgerr.IsNotFound(err))
	fields := lgerr.FieldsOf(err)
	assert.Equal(t, "to", fields["endpoint"])
	assert.Equal(t, "ghost", fields["guid"])

	_, err = repo.UpdateEdge(ctx, &store.Edge{TenantGUID: testTenant, GraphGUID: testGraph, GUID: "ghost", From: "a", To: "b"})
	require.Error(t, err)
	assert.True(t, lgerr.IsNotFound(err))
	assert.Equal(t, "edge", lgerr.FieldsOf(err)["entity"])
}

func TestEdge_Directional(t *testing.T) {
	ctx := context.Background()
	repo := seedTriangle(t)
	q := store.ListQuery{Order: store.OrderGUIDAscending}

	from, err := store.Collect(repo.ReadEdgesFrom(ctx, testTenant, testGraph, "a", q))
	require.NoError(t, err)
	assert.Equal(t, []string{"ab", "ac"}, guidsOf(from))

	to, err := store.Collect(repo.ReadEdgesTo(ctx, testTenant, testGraph, "c", q))
	require.NoError(t, err)
	assert.Equal(t, []string{"ac", "bc"}, guidsOf(to))

	between, err := store.Collect(repo.ReadEdgesBetween(ctx, testTenant, testGraph, "c", "a", q))
	require.NoError(t, err)
	assert.Equal(t, []string{"ca"}, guidsOf(between))

	touching, err := store.Collect(repo.ReadNodeEdges(ctx, testTenant, testGraph, "a", q))
	require.NoError(t, err)
	assert.Equal(t, []string{"ab", "ac", "ca"}, guidsOf(touching))
}

func TestEdge_CostOrder(t *testing.T) {
	ctx := context.Background()
	repo := seedTriangle(t)

	asc, err := store.Collect(repo.ReadEdges(ctx, testTenant, testGraph, store.ListQuery{Order: store.OrderCostAscending}))
	require.NoError(t, err)
	assert.Equal(t, []string{"bc", "ca", "ab", "ac"}, guidsOf(asc))

	desc, err := store.Collect(repo.ReadEdgesFrom(ctx, testTenant, testGraph, "a", store.ListQuery{Order: store.OrderCostDescending}))
	require.NoError(t, err)
	assert.Equal(t, []string{"ac", "ab"}, guidsOf(desc))
}

func TestEdge_CreateMany(t *testing.T) {
	ctx := context.Background()
	repo := seedGraph(t, sqlite.Options{})
	addNode(t, repo, "a", "a", nil)
	addNode(t, repo, "b", "b", nil)

	created, err := repo.CreateEdges(ctx, testTenant, testGraph, []*store.Edge{
		{GUID: "ab", From: "a", To: "b", Cost: 1, Tags: map[string]string{"kind": "link"}},
		{GUID: "ba", From: "b", To: "a", Cost: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ab", "ba"}, guidsOf(created))
	assert.Equal(t, map[string]string{"kind": "link"}, created[0].Tags)
}

func TestEdge_CreateManyConflicts(t *testing.T) {
	ctx := context.Background()
	repo := seedGraph(t, sqlite.Options{})
	addNode(t, repo, "a", "a", nil)
	addNode(t, repo, "b", "b", nil)
	addEdge(t, repo, "ab", "a", "b", 1)

	_, err := repo.CreateEdges(ctx, testTenant, testGraph, []*store.Edge{
		{GUID: "ab", From: "a", To: "b"},
		{GUID: "bx", From: "b", To: "x"},
		{GUID: "bx", From: "b", To: "x"},
	})
	require.Error(t, err)
	assert.True(t, lgerr.HasCode(err, lgerr.CodeStoreBatchConflict))
	fields := lgerr.FieldsOf(err)
	assert.Equal(t, []string{"ab"}, fields["existing"])
	assert.Equal(t, []string{"bx"}, fields["duplicates"])
	assert.Equal(t, []string{"x"}, fields["missing"])

	edges, err := store.Collect(repo.ReadEdges(ctx, testTenant, testGraph, store.ListQuery{}))
	require.NoError(t, err)
	assert.Equal(t, []string{"ab"}, guidsOf(edges))
}

func TestEdge_DeleteManyAndAll(t *testing.T) {
	ctx := context.Background()
	repo := seedTriangle(t)

	require.NoError(t, repo.DeleteEdges(ctx, testTenant, testGraph, []string{"ab", "ghost"}))
	edges, err := store.Collect(repo.ReadEdges(ctx, testTenant, testGraph, store.ListQuery{Order: store.OrderGUIDAscending}))
	require.NoError(t, err)
	assert.Equal(t, []string{"ac", "bc", "ca"}, guidsOf(edges))

	require.NoError(t, repo.DeleteAllEdges(ctx, testTenant, testGraph))
	stats, err := repo.GraphStatistics(ctx, testTenant, testGraph)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Nodes)
	assert.Equal(t, 0, stats.Edges)
}

func TestEdge_ConcurrentCreateSameGUID(t *testing.T) {
	ctx := context.Background()
	repo := seedGraph(t, sqlite.Options{MaxConcurrentOperations: 8})
	addNode(t, repo, "a", "a", nil)
	addNode(t, repo, "b", "b", nil)

	concurrently(t, 16, func(i int) error {
		_, err := repo.CreateEdge(ctx, &store.Edge{
			TenantGUID: testTenant, GraphGUID: testGraph, GUID: "e-1", Name: fmt.Sprintf("writer-%d", i),
			From: "a", To: "b", Cost: 1,
		})
		return err
	})

	edges, err := store.Collect(repo.ReadEdges(ctx, testTenant, testGraph, store.ListQuery{}))
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "e-1", edges[0].GUID)
}
