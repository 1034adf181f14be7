// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store_test

import (
	"errors"
	"testing"

	"github.com/sigil-dev/litegraph/internal/store"
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFound(t *testing.T) {
	err := store.NotFound(store.EntityEdge, "e-1")
	assert.True(t, lgerr.IsNotFound(err))
	assert.Equal(t, "edge", lgerr.FieldsOf(err)["entity"])
}

func TestBatchConflict_Err(t *testing.T) {
	empty := store.BatchConflict{Entity: store.EntityNode}
	assert.True(t, empty.Empty())
	assert.NoError(t, empty.Err("t", "g"))

	c := store.BatchConflict{
		Entity:     store.EntityEdge,
		Existing:   []string{"e1"},
		Duplicates: []string{"e2"},
		Missing:    []string{"n9"},
	}
	err := c.Err("t", "g")
	require.Error(t, err)
	assert.True(t, lgerr.IsConflict(err))
	assert.True(t, lgerr.HasCode(err, lgerr.CodeStoreBatchConflict))

	fields := lgerr.FieldsOf(err)
	assert.Equal(t, []string{"e1"}, fields["existing"])
	assert.Equal(t, []string{"e2"}, fields["duplicates"])
	assert.Equal(t, []string{"n9"}, fields["missing"])
	assert.Contains(t, err.Error(), "edge batch rejected")
}

func TestDuplicates(t *testing.T) {
	assert.Empty(t, store.Duplicates([]string{"a", "b"}))
	assert.Equal(t, []string{"a", "c"}, store.Duplicates([]string{"a", "c", "a", "a", "c", "b"}))
}

func TestCollect(t *testing.T) {
	seq := func(yield func(int, error) bool) {
		for i := range 3 {
			if !yield(i, nil) {
				return
			}
		}
	}
	got, err := store.Collect(seq)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, got)

	boom := errors.New("boom")
	_, err = store.Collect(store.Fail[int](boom))
	assert.ErrorIs(t, err, boom)
}
