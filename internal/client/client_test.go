// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package client_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sigil-dev/litegraph/internal/client"
	"github.com/sigil-dev/litegraph/internal/store"
	_ "github.com/sigil-dev/litegraph/internal/store/sqlite"
	"github.com/sigil-dev/litegraph/internal/traversal"
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tenant = "tenant-1"
	graph  = "graph-1"
)

func openClient(t *testing.T) *client.Client {
	t.Helper()
	c, err := client.Open(store.StorageConfig{Path: filepath.Join(t.TempDir(), "graph.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func seeded(t *testing.T) *client.Client {
	t.Helper()
	ctx := context.Background()
	c := openClient(t)
	_, err := c.CreateTenant(ctx, &store.Tenant{GUID: tenant, Name: "t", Active: true})
	require.NoError(t, err)
	_, err = c.CreateGraph(ctx, &store.Graph{TenantGUID: tenant, GUID: graph, Name: "g"})
	require.NoError(t, err)
	return c
}

func TestClient_OpenUnknownBackend(t *testing.T) {
	_, err := client.Open(store.StorageConfig{Backend: "postgres", Path: "x"})
	require.Error(t, err)
	assert.True(t, lgerr.HasCode(err, lgerr.CodeStoreBackendUnsupported))
}

func TestClient_GraphRequiresTenant(t *testing.T) {
	c := openClient(t)

	_, err := c.CreateGraph(context.Background(), &store.Graph{TenantGUID: "ghost", GUID: graph})
	require.Error(t, err)
	assert.True(t, lgerr.IsNotFound(err))
	assert.Equal(t, "tenant", lgerr.FieldsOf(err)["entity"])
}

func TestClient_NodeRequiresGraph(t *testing.T) {
	ctx := context.Background()
	c := seeded(t)

	_, err := c.CreateNode(ctx, &store.Node{TenantGUID: tenant, GraphGUID: "ghost", GUID: "n-1"})
	require.Error(t, err)
	assert.True(t, lgerr.IsNotFound(err))
	assert.Equal(t, "graph", lgerr.FieldsOf(err)["entity"])

	_, err = store.Collect(c.ReadNodes(ctx, tenant, "ghost", store.ListQuery{}))
	require.Error(t, err)
	assert.True(t, lgerr.IsNotFound(err))
}

func TestClient_EdgeRequiresEndpoints(t *testing.T) {
	ctx := context.Background()
	c := seeded(t)
	_, err := c.CreateNode(ctx, &store.Node{TenantGUID: tenant, GraphGUID: graph, GUID: "a"})
	require.NoError(t, err)

	_, err = c.CreateEdge(ctx, &store.Edge{TenantGUID: tenant, GraphGUID: graph, GUID: "ab", From: "a", To: "b"})
	require.Error(t, err)
	assert.True(t, lgerr.IsNotFound(err))
	fields := lgerr.FieldsOf(err)
	assert.Equal(t, "b", fields["guid"])
	assert.Equal(t, "to", fields["endpoint"])

	_, err = c.CreateEdge(ctx, &store.Edge{TenantGUID: tenant, GraphGUID: graph, GUID: "ab", From: "x", To: "a"})
	require.Error(t, err)
	assert.Equal(t, "from", lgerr.FieldsOf(err)["endpoint"])
}

func TestClient_MetadataRequiresTarget(t *testing.T) {
	ctx := context.Background()
	c := seeded(t)

	_, err := c.CreateTag(ctx, &store.TagMetadata{TenantGUID: tenant, GraphGUID: graph, NodeGUID: "ghost", GUID: "t-1", Key: "k"})
	require.Error(t, err)
	assert.True(t, lgerr.IsNotFound(err))
	assert.Equal(t, "node", lgerr.FieldsOf(err)["entity"])

	_, err = c.CreateLabel(ctx, &store.LabelMetadata{TenantGUID: tenant, GraphGUID: graph, EdgeGUID: "ghost", GUID: "l-1", Label: "x"})
	require.Error(t, err)
	assert.Equal(t, "edge", lgerr.FieldsOf(err)["entity"])

	_, err = c.CreateVector(ctx, &store.VectorMetadata{TenantGUID: tenant, GraphGUID: "ghost", GUID: "v-1", Vectors: []float32{1}})
	require.Error(t, err)
	assert.Equal(t, "graph", lgerr.FieldsOf(err)["entity"])

	tag, err := c.CreateTag(ctx, &store.TagMetadata{TenantGUID: tenant, GraphGUID: graph, GUID: "t-1", Key: "env", Value: "prod"})
	require.NoError(t, err)
	assert.Equal(t, "prod", tag.Value)
}

func TestClient_EndToEnd(t *testing.T) {
	ctx := context.Background()
	c := seeded(t)

	for _, guid := range []string{"A", "B", "C"} {
		_, err := c.CreateNode(ctx, &store.Node{TenantGUID: tenant, GraphGUID: graph, GUID: guid, Name: guid})
		require.NoError(t, err)
	}
	_, err := c.CreateEdge(ctx, &store.Edge{TenantGUID: tenant, GraphGUID: graph, GUID: "AB", From: "A", To: "B", Cost: 1})
	require.NoError(t, err)
	_, err = c.CreateEdge(ctx, &store.Edge{TenantGUID: tenant, GraphGUID: graph, GUID: "BC", From: "B", To: "C", Cost: 2})
	require.NoError(t, err)

	routes, err := store.Collect(c.Routes(ctx, traversal.RouteRequest{TenantGUID: tenant, GraphGUID: graph, From: "A", To: "C"}))
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, 3, routes[0].TotalCost)

	req := traversal.NeighborRequest{TenantGUID: tenant, GraphGUID: graph, NodeGUID: "B"}
	parents, err := store.Collect(c.Parents(ctx, req))
	require.NoError(t, err)
	require.Len(t, parents, 1)
	assert.Equal(t, "A", parents[0].GUID)

	children, err := store.Collect(c.Children(ctx, req))
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "C", children[0].GUID)

	neighbors, err := store.Collect(c.Neighbors(ctx, req))
	require.NoError(t, err)
	assert.Len(t, neighbors, 2)

	res, err := c.Exists(ctx, tenant, graph, store.ExistenceRequest{Nodes: []string{"A", "Z"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, res.ExistingNodes)
	assert.Equal(t, []string{"Z"}, res.MissingNodes)

	stats, err := c.GraphStatistics(ctx, tenant, graph)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Nodes)
	assert.Equal(t, 2, stats.Edges)
}

func TestClient_RoutesRejectsSearchTypeFirst(t *testing.T) {
	c := openClient(t)

	_, err := store.Collect(c.Routes(context.Background(), traversal.RouteRequest{
		TenantGUID: "ghost", GraphGUID: "ghost", From: "a", To: "b", SearchType: "BreadthFirst",
	}))
	require.Error(t, err)
	assert.True(t, lgerr.HasCode(err, lgerr.CodeTraversalSearchInvalid))
}

func TestClient_EnumerationOrderCheckedBeforeScope(t *testing.T) {
	ctx := context.Background()
	c := openClient(t)

	invalid := func(err error) {
		t.Helper()
		require.Error(t, err)
		assert.True(t, lgerr.IsInvalidInput(err), "want invalid input, got %v", err)
		assert.False(t, lgerr.IsNotFound(err))
	}

	_, err := store.Collect(c.ReadNodes(ctx, "ghost", "ghost", store.ListQuery{Order: store.OrderCostDescending}))
	invalid(err)
	_, err = store.Collect(c.ReadGraphs(ctx, "ghost", store.ListQuery{Order: store.OrderCostAscending}))
	invalid(err)
	_, err = store.Collect(c.ReadEdgesFrom(ctx, "ghost", "ghost", "a", store.ListQuery{Skip: -1}))
	invalid(err)

	req := traversal.NeighborRequest{TenantGUID: "ghost", GraphGUID: "ghost", NodeGUID: "a", Order: store.OrderCostAscending}
	_, err = store.Collect(c.Children(ctx, req))
	invalid(err)
	_, err = store.Collect(c.Parents(ctx, req))
	invalid(err)
	_, err = store.Collect(c.Neighbors(ctx, req))
	invalid(err)
}

func TestClient_ScopeCheckedWhenRanged(t *testing.T) {
	ctx := context.Background()
	c := openClient(t)

	// Built before the graph exists, ranged after.
	seq := c.ReadNodes(ctx, tenant, graph, store.ListQuery{})

	_, err := c.CreateTenant(ctx, &store.Tenant{GUID: tenant, Name: "t", Active: true})
	require.NoError(t, err)
	_, err = c.CreateGraph(ctx, &store.Graph{TenantGUID: tenant, GUID: graph, Name: "g"})
	require.NoError(t, err)
	_, err = c.CreateNode(ctx, &store.Node{TenantGUID: tenant, GraphGUID: graph, GUID: "a", Name: "a"})
	require.NoError(t, err)

	nodes, err := store.Collect(seq)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "a", nodes[0].GUID)

	seq = c.ReadNodes(ctx, tenant, graph, store.ListQuery{})
	require.NoError(t, c.DeleteGraph(ctx, tenant, graph, true))
	_, err = store.Collect(seq)
	require.Error(t, err)
	assert.True(t, lgerr.IsNotFound(err))
}

func TestClient_SearchVectorsRequiresTenant(t *testing.T) {
	c := openClient(t)

	_, err := c.SearchVectors(context.Background(), store.VectorSearchRequest{
		TenantGUID: "ghost", Domain: store.VectorDomainGraph, Embeddings: []float32{1},
	})
	require.Error(t, err)
	assert.True(t, lgerr.IsNotFound(err))
}
