// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite_test

import (
	"context"
	"testing"

	"github.com/sigil-dev/litegraph/internal/store"
	"github.com/sigil-dev/litegraph/internal/store/sqlite"
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVector_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := seedGraph(t, sqlite.Options{})
	addNode(t, repo, "n-1", "a", nil)

	v, err := repo.CreateVector(ctx, &store.VectorMetadata{
		TenantGUID: testTenant, GraphGUID: testGraph, NodeGUID: "n-1", GUID: "v-1",
		Model: "all-minilm", Content: "hello", Vectors: []float32{0.5, -0.25, 1},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, v.Dimensionality)
	assert.Equal(t, []float32{0.5, -0.25, 1}, v.Vectors)

	v.Vectors = []float32{1, 2}
	v.Dimensionality = 0
	v.Content = "bye"
	updated, err := repo.UpdateVector(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.Dimensionality)
	assert.Equal(t, "bye", updated.Content)

	require.NoError(t, repo.DeleteVector(ctx, testTenant, testGraph, "v-1"))
	err = repo.DeleteVector(ctx, testTenant, testGraph, "v-1")
	require.Error(t, err)
	assert.True(t, lgerr.IsNotFound(err))
}

func TestVector_DimensionalityMismatch(t *testing.T) {
	repo := seedGraph(t, sqlite.Options{})

	_, err := repo.CreateVector(context.Background(), &store.VectorMetadata{
		TenantGUID: testTenant, GraphGUID: testGraph, GUID: "v-1", Dimensionality: 4, Vectors: []float32{1, 2},
	})
	require.Error(t, err)
	assert.True(t, lgerr.IsInvalidInput(err))
}

func TestVector_SearchNodes(t *testing.T) {
	ctx := context.Background()
	repo := seedGraph(t, sqlite.Options{})

	for _, n := range []*store.Node{
		{GUID: "east", Vectors: []*store.VectorMetadata{{Vectors: []float32{1, 0}}}},
		{GUID: "north", Vectors: []*store.VectorMetadata{{Vectors: []float32{0, 1}}}},
		{GUID: "northeast", Vectors: []*store.VectorMetadata{{Vectors: []float32{0.7, 0.7}}}},
		{GUID: "other-dims", Vectors: []*store.VectorMetadata{{Vectors: []float32{1, 0, 0}}}},
	} {
		n.TenantGUID, n.GraphGUID, n.Name = testTenant, testGraph, n.GUID
		_, err := repo.CreateNode(ctx, n)
		require.NoError(t, err)
	}
	// graph-level vectors are outside the node domain
	_, err := repo.CreateVector(ctx, &store.VectorMetadata{TenantGUID: testTenant, GraphGUID: testGraph, GUID: "gv", Vectors: []float32{1, 0}})
	require.NoError(t, err)

	hits, err := repo.SearchVectors(ctx, store.VectorSearchRequest{
		TenantGUID: testTenant, GraphGUID: testGraph,
		Domain: store.VectorDomainNode, SearchType: store.VectorSearchCosine,
		Embeddings: []float32{1, 0}, TopK: 2,
	})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "east", hits[0].Node.GUID)
	assert.Equal(t, "northeast", hits[1].Node.GUID)
	assert.InDelta(t, 0, hits[0].Distance, 1e-6)
	assert.Less(t, hits[0].Distance, hits[1].Distance)
	assert.Nil(t, hits[0].Graph)

	hits, err = repo.SearchVectors(ctx, store.VectorSearchRequest{
		TenantGUID: testTenant, GraphGUID: testGraph,
		Domain: store.VectorDomainNode, SearchType: store.VectorSearchEuclidean,
		Embeddings: []float32{0, 1},
	})
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "north", hits[0].Node.GUID)
	assert.Equal(t, "east", hits[2].Node.GUID)
}

func TestVector_SearchGraphs(t *testing.T) {
	ctx := context.Background()
	repo := seedGraph(t, sqlite.Options{})
	_, err := repo.CreateGraph(ctx, &store.Graph{
		TenantGUID: testTenant, GUID: "g-2", Name: "second",
		Vectors: []*store.VectorMetadata{{Vectors: []float32{0, 1}}},
	})
	require.NoError(t, err)
	_, err = repo.CreateVector(ctx, &store.VectorMetadata{TenantGUID: testTenant, GraphGUID: testGraph, GUID: "gv-1", Vectors: []float32{1, 0}})
	require.NoError(t, err)

	hits, err := repo.SearchVectors(ctx, store.VectorSearchRequest{
		TenantGUID: testTenant, Domain: store.VectorDomainGraph, Embeddings: []float32{0, 1},
	})
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "g-2", hits[0].Graph.GUID)
	assert.Equal(t, testGraph, hits[1].Graph.GUID)
}

func TestVector_SearchSkipsDanglingOwners(t *testing.T) {
	ctx := context.Background()
	repo := seedGraph(t, sqlite.Options{})
	addNode(t, repo, "n-1", "a", nil)
	_, err := repo.CreateVector(ctx, &store.VectorMetadata{TenantGUID: testTenant, GraphGUID: testGraph, NodeGUID: "n-1", GUID: "v-1", Vectors: []float32{1, 0}})
	require.NoError(t, err)
	_, err = repo.CreateVector(ctx, &store.VectorMetadata{TenantGUID: testTenant, GraphGUID: testGraph, NodeGUID: "gone", GUID: "v-2", Vectors: []float32{1, 0}})
	require.NoError(t, err)

	hits, err := repo.SearchVectors(ctx, store.VectorSearchRequest{
		TenantGUID: testTenant, GraphGUID: testGraph, Domain: store.VectorDomainNode, Embeddings: []float32{1, 0},
	})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "n-1", hits[0].Node.GUID)
}

func TestVector_SearchValidation(t *testing.T) {
	repo := seedGraph(t, sqlite.Options{})

	_, err := repo.SearchVectors(context.Background(), store.VectorSearchRequest{
		TenantGUID: testTenant, Domain: store.VectorDomainEdge, Embeddings: []float32{1},
	})
	require.Error(t, err)
	assert.True(t, lgerr.IsInvalidInput(err))
}
