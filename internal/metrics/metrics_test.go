// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package metrics_test

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sigil-dev/litegraph/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusObserver_Statement(t *testing.T) {
	obs := metrics.New(true)

	okBefore := testutil.ToFloat64(metrics.StatementsTotal.WithLabelValues("query", metrics.OutcomeOK))
	errBefore := testutil.ToFloat64(metrics.StatementsTotal.WithLabelValues("query", metrics.OutcomeError))

	obs.Statement("query", time.Millisecond, nil)
	obs.Statement("query", time.Millisecond, errors.New("boom"))

	assert.InDelta(t, okBefore+1, testutil.ToFloat64(metrics.StatementsTotal.WithLabelValues("query", metrics.OutcomeOK)), 0.001)
	assert.InDelta(t, errBefore+1, testutil.ToFloat64(metrics.StatementsTotal.WithLabelValues("query", metrics.OutcomeError)), 0.001)
}

func TestPrometheusObserver_Created(t *testing.T) {
	obs := metrics.New(true)
	before := testutil.ToFloat64(metrics.EntitiesCreated.WithLabelValues("node"))

	obs.Created("node", 3)
	obs.Created("node", 0)

	assert.InDelta(t, before+3, testutil.ToFloat64(metrics.EntitiesCreated.WithLabelValues("node")), 0.001)
}

func TestNoopObserver(t *testing.T) {
	obs := metrics.New(false)
	before := testutil.ToFloat64(metrics.EntitiesCreated.WithLabelValues("edge"))

	obs.Created("edge", 5)
	obs.Statement("exec", time.Second, nil)
	obs.LockWait("query", time.Second)

	assert.InDelta(t, before, testutil.ToFloat64(metrics.EntitiesCreated.WithLabelValues("edge")), 0.001)
}

func TestSnapshot_OnlyLitegraphFamilies(t *testing.T) {
	metrics.New(true).LockWait("create", time.Microsecond)

	samples, err := metrics.Snapshot()
	require.NoError(t, err)
	require.NotEmpty(t, samples)

	found := false
	for _, s := range samples {
		assert.Contains(t, s.Name, "litegraph_")
		if s.Name == "litegraph_lock_wait_seconds" && s.Labels == "lock=create" {
			found = true
			assert.GreaterOrEqual(t, s.Value, 1.0)
		}
	}
	assert.True(t, found)
}
