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

func TestTag_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := seedGraph(t, sqlite.Options{})
	addNode(t, repo, "n-1", "a", nil)

	tag, err := repo.CreateTag(ctx, &store.TagMetadata{TenantGUID: testTenant, GraphGUID: testGraph, NodeGUID: "n-1", GUID: "t-1", Key: "color", Value: "red"})
	require.NoError(t, err)
	assert.Equal(t, "n-1", tag.NodeGUID)
	assert.Empty(t, tag.EdgeGUID)

	again, err := repo.CreateTag(ctx, &store.TagMetadata{TenantGUID: testTenant, GraphGUID: testGraph, GUID: "t-1", Key: "other"})
	require.NoError(t, err)
	assert.Equal(t, "color", again.Key)

	tag.Value = "blue"
	updated, err := repo.UpdateTag(ctx, tag)
	require.NoError(t, err)
	assert.Equal(t, "blue", updated.Value)

	n, err := repo.ReadNode(ctx, testTenant, testGraph, "n-1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"color": "blue"}, n.Tags)

	require.NoError(t, repo.DeleteTag(ctx, testTenant, testGraph, "t-1"))
	err = repo.DeleteTag(ctx, testTenant, testGraph, "t-1")
	require.Error(t, err)
	assert.True(t, lgerr.IsNotFound(err))

	_, err = repo.UpdateTag(ctx, tag)
	require.Error(t, err)
	assert.True(t, lgerr.IsNotFound(err))
}

func TestTag_ReadFiltered(t *testing.T) {
	ctx := context.Background()
	repo := seedGraph(t, sqlite.Options{PageSize: 1})
	addNode(t, repo, "n-1", "a", nil)
	addNode(t, repo, "n-2", "b", nil)
	addEdge(t, repo, "e-1", "n-1", "n-2", 1)

	for _, tag := range []*store.TagMetadata{
		{GUID: "g", Key: "scope"},
		{GUID: "n1", NodeGUID: "n-1", Key: "k"},
		{GUID: "n2", NodeGUID: "n-2", Key: "k"},
		{GUID: "e1", EdgeGUID: "e-1", Key: "k"},
	} {
		tag.TenantGUID, tag.GraphGUID = testTenant, testGraph
		_, err := repo.CreateTag(ctx, tag)
		require.NoError(t, err)
	}

	keys := func(f store.MetadataFilter) []string {
		tags, err := store.Collect(repo.ReadTags(ctx, testTenant, testGraph, f))
		require.NoError(t, err)
		out := make([]string, len(tags))
		for i, tg := range tags {
			out[i] = tg.GUID
		}
		return out
	}
	assert.ElementsMatch(t, []string{"g", "n1", "n2", "e1"}, keys(store.MetadataFilter{}))
	assert.Equal(t, []string{"g"}, keys(store.MetadataFilter{GraphOnly: true}))
	assert.Equal(t, []string{"n2"}, keys(store.MetadataFilter{NodeGUID: "n-2"}))
	assert.Equal(t, []string{"e1"}, keys(store.MetadataFilter{EdgeGUID: "e-1"}))

	_, err := store.Collect(repo.ReadTags(ctx, testTenant, testGraph, store.MetadataFilter{NodeGUID: "n-1", EdgeGUID: "e-1"}))
	require.Error(t, err)
}

func TestLabel_CRUD(t *testing.T) {
	ctx := context.Background()
	repo := seedGraph(t, sqlite.Options{})
	addNode(t, repo, "a", "a", nil)
	addNode(t, repo, "b", "b", nil)
	addEdge(t, repo, "ab", "a", "b", 1)

	l, err := repo.CreateLabel(ctx, &store.LabelMetadata{TenantGUID: testTenant, GraphGUID: testGraph, EdgeGUID: "ab", GUID: "l-1", Label: "friend"})
	require.NoError(t, err)
	assert.Equal(t, "ab", l.EdgeGUID)

	e, err := repo.ReadEdge(ctx, testTenant, testGraph, "ab")
	require.NoError(t, err)
	assert.Equal(t, []string{"friend"}, e.Labels)

	l.Label = "colleague"
	updated, err := repo.UpdateLabel(ctx, l)
	require.NoError(t, err)
	assert.Equal(t, "colleague", updated.Label)

	labels, err := store.Collect(repo.ReadLabels(ctx, testTenant, testGraph, store.MetadataFilter{EdgeGUID: "ab"}))
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "colleague", labels[0].Label)

	require.NoError(t, repo.DeleteLabel(ctx, testTenant, testGraph, "l-1"))
	got, err := repo.ReadLabel(ctx, testTenant, testGraph, "l-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLabel_Validation(t *testing.T) {
	repo := seedGraph(t, sqlite.Options{})

	_, err := repo.CreateLabel(context.Background(), &store.LabelMetadata{TenantGUID: testTenant, GraphGUID: testGraph, GUID: "l-1"})
	require.Error(t, err)
	assert.True(t, lgerr.IsInvalidInput(err))

	_, err = repo.CreateLabel(context.Background(), &store.LabelMetadata{
		TenantGUID: testTenant, GraphGUID: testGraph, GUID: "l-1", Label: "x", NodeGUID: "n", EdgeGUID: "e",
	})
	require.Error(t, err)
	assert.True(t, lgerr.IsInvalidInput(err))
}
