// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"github.com/sigil-dev/litegraph/internal/metrics"
	"github.com/spf13/cobra"
)

func newStatsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show graph statistics",
		Long:  "Count the nodes, edges and metadata rows of a graph. --metrics appends the instrumentation recorded by this invocation.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenant, graph := scope(cmd)
			withMetrics, _ := cmd.Flags().GetBool("metrics")

			c, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			s, err := c.GraphStatistics(cmd.Context(), tenant, graph)
			if err != nil {
				return err
			}

			v := statsView{
				TenantGUID: tenant,
				GraphGUID:  graph,
				Nodes:      s.Nodes,
				Edges:      s.Edges,
				Labels:     s.Labels,
				Tags:       s.Tags,
				Vectors:    s.Vectors,
			}
			if withMetrics {
				if v.Metrics, err = metrics.Snapshot(); err != nil {
					return err
				}
			}
			return a.render(cmd, v, v)
		},
	}

	addScopeFlags(cmd, true)
	cmd.Flags().Bool("metrics", false, "include Prometheus metrics")

	return cmd
}
