// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite_test

import (
	"context"
	"testing"

	"github.com/sigil-dev/litegraph/internal/store"
	"github.com/sigil-dev/litegraph/internal/store/sqlite"
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
	"github.com/sigil-dev/litegraph/pkg/expr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_CreateWithAttachments(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t, sqlite.Options{})
	_, err := repo.CreateTenant(ctx, &store.Tenant{GUID: testTenant, Name: "Tenant"})
	require.NoError(t, err)

	g, err := repo.CreateGraph(ctx, &store.Graph{
		TenantGUID: testTenant,
		GUID:       testGraph,
		Name:       "Social",
		Data:       map[string]any{"Region": "us-west"},
		Labels:     []string{"prod", "social"},
		Tags:       map[string]string{"owner": "ops"},
		Vectors:    []*store.VectorMetadata{{Model: "m", Content: "social graph", Vectors: []float32{0.1, 0.2, 0.3}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Social", g.Name)
	assert.Equal(t, map[string]any{"Region": "us-west"}, g.Data)
	assert.ElementsMatch(t, []string{"prod", "social"}, g.Labels)
	assert.Equal(t, map[string]string{"owner": "ops"}, g.Tags)

	vectors, err := store.Collect(repo.ReadVectors(ctx, testTenant, testGraph, store.MetadataFilter{GraphOnly: true}))
	require.NoError(t, err)
	require.Len(t, vectors, 1)
	assert.Equal(t, 3, vectors[0].Dimensionality)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vectors[0].Vectors)
}

func TestGraph_UpdateReplacesAttachments(t *testing.T) {
	ctx := context.Background()
	repo := seedGraph(t, sqlite.Options{})

	g, err := repo.ReadGraph(ctx, testTenant, testGraph)
	require.NoError(t, err)

	g.Name = "Renamed"
	g.Labels = []string{"v2"}
	g.Tags = map[string]string{"stage": "beta"}
	updated, err := repo.UpdateGraph(ctx, g)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, []string{"v2"}, updated.Labels)
	assert.Equal(t, map[string]string{"stage": "beta"}, updated.Tags)

	// nil labels and tags leave the stored rows alone
	updated.Labels, updated.Tags = nil, nil
	updated.Name = "Again"
	again, err := repo.UpdateGraph(ctx, updated)
	require.NoError(t, err)
	assert.Equal(t, []string{"v2"}, again.Labels)
	assert.Equal(t, map[string]string{"stage": "beta"}, again.Tags)
}

func TestGraph_UpdateMissing(t *testing.T) {
	ctx := context.Background()
	repo := seedGraph(t, sqlite.Options{})

	_, err := repo.UpdateGraph(ctx, &store.Graph{TenantGUID: testTenant, GUID: "ghost", Name: "x"})
	require.Error(t, err)
	assert.True(t, lgerr.IsNotFound(err))

	_, err = repo.UpdateGraph(ctx, &store.Graph{TenantGUID: "nobody", GUID: testGraph, Name: "x"})
	require.Error(t, err)
	assert.True(t, lgerr.IsNotFound(err))
}

func TestGraph_DeleteGuard(t *testing.T) {
	ctx := context.Background()
	repo := seedGraph(t, sqlite.Options{})
	addNode(t, repo, "n-1", "a", nil)

	err := repo.DeleteGraph(ctx, testTenant, testGraph, false)
	require.Error(t, err)
	assert.True(t, lgerr.HasCode(err, lgerr.CodeStoreGraphNotEmpty))
	assert.True(t, lgerr.IsConflict(err))

	require.NoError(t, repo.DeleteGraph(ctx, testTenant, testGraph, true))
	exists, err := repo.GraphExists(ctx, testTenant, testGraph)
	require.NoError(t, err)
	assert.False(t, exists)

	err = repo.DeleteGraph(ctx, testTenant, testGraph, true)
	require.Error(t, err)
	assert.True(t, lgerr.IsNotFound(err))
}

func TestGraph_DeleteEmptyWithoutForce(t *testing.T) {
	ctx := context.Background()
	repo := seedGraph(t, sqlite.Options{})

	require.NoError(t, repo.DeleteGraph(ctx, testTenant, testGraph, false))
}

func TestGraph_ListFilters(t *testing.T) {
	ctx := context.Background()
	repo := openRepo(t, sqlite.Options{PageSize: 1})
	_, err := repo.CreateTenant(ctx, &store.Tenant{GUID: testTenant, Name: "Tenant"})
	require.NoError(t, err)

	for _, g := range []*store.Graph{
		{GUID: "g-a", Name: "a", Labels: []string{"prod"}, Tags: map[string]string{"team": "core"}, Data: map[string]any{"Size": 10}},
		{GUID: "g-b", Name: "b", Labels: []string{"prod", "eu"}, Tags: map[string]string{"team": "edge"}, Data: map[string]any{"Size": 20}},
		{GUID: "g-c", Name: "c", Labels: []string{"dev"}, Data: map[string]any{"Size": 30}},
	} {
		g.TenantGUID = testTenant
		_, err := repo.CreateGraph(ctx, g)
		require.NoError(t, err)
	}

	tests := []struct {
		name string
		q    store.ListQuery
		want []string
	}{
		{"all", store.ListQuery{Order: store.OrderNameAscending}, []string{"g-a", "g-b", "g-c"}},
		{"label", store.ListQuery{Order: store.OrderNameAscending, Labels: []string{"prod"}}, []string{"g-a", "g-b"}},
		{"all labels required", store.ListQuery{Labels: []string{"prod", "eu"}}, []string{"g-b"}},
		{"tag key", store.ListQuery{Order: store.OrderNameAscending, Tags: map[string]string{"team": ""}}, []string{"g-a", "g-b"}},
		{"tag value", store.ListQuery{Tags: map[string]string{"team": "edge"}}, []string{"g-b"}},
		{"data", store.ListQuery{Order: store.OrderNameAscending, Filter: expr.New("Size", expr.GreaterThanOrEqualTo, 20)}, []string{"g-b", "g-c"}},
		{"combined", store.ListQuery{Labels: []string{"prod"}, Filter: expr.New("Size", expr.GreaterThan, 15)}, []string{"g-b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			graphs, err := store.Collect(repo.ReadGraphs(ctx, testTenant, tt.q))
			require.NoError(t, err)
			assert.Equal(t, tt.want, guidsOf(graphs))
		})
	}
}

func TestGraph_Statistics(t *testing.T) {
	ctx := context.Background()
	repo := seedGraph(t, sqlite.Options{})

	_, err := repo.CreateNode(ctx, &store.Node{
		TenantGUID: testTenant, GraphGUID: testGraph, GUID: "n-1", Name: "a",
		Labels: []string{"x", "y"}, Tags: map[string]string{"k": "v"},
		Vectors: []*store.VectorMetadata{{Vectors: []float32{1, 0}}},
	})
	require.NoError(t, err)
	addNode(t, repo, "n-2", "b", nil)
	addEdge(t, repo, "e-1", "n-1", "n-2", 3)

	stats, err := repo.GraphStatistics(ctx, testTenant, testGraph)
	require.NoError(t, err)
	assert.Equal(t, &store.GraphStatistics{Nodes: 2, Edges: 1, Labels: 2, Tags: 1, Vectors: 1}, stats)

	_, err = repo.GraphStatistics(ctx, testTenant, "ghost")
	require.Error(t, err)
	assert.True(t, lgerr.IsNotFound(err))
}
