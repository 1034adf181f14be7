// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"iter"

	"github.com/sigil-dev/litegraph/internal/store"
	"github.com/sigil-dev/litegraph/internal/traversal"
	"github.com/spf13/cobra"
)

func newRouteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "route",
		Short: "Find every route between two nodes",
		Long:  "Enumerate the cycle-free routes from --from to --to with a depth-first search. --sort orders them by total cost.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenant, graph := scope(cmd)
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			limit, _ := cmd.Flags().GetInt("limit")
			sortByCost, _ := cmd.Flags().GetBool("sort")

			rawEdge, _ := cmd.Flags().GetString("edge-filter")
			edgeFilter, err := parseFilter("edge-filter", rawEdge)
			if err != nil {
				return err
			}
			rawNode, _ := cmd.Flags().GetString("node-filter")
			nodeFilter, err := parseFilter("node-filter", rawNode)
			if err != nil {
				return err
			}

			c, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			routes, err := take(c.Routes(cmd.Context(), traversal.RouteRequest{
				TenantGUID: tenant,
				GraphGUID:  graph,
				From:       from,
				To:         to,
				SearchType: traversal.DepthFirst,
				EdgeFilter: edgeFilter,
				NodeFilter: nodeFilter,
			}), limit)
			if err != nil {
				return err
			}
			if sortByCost {
				traversal.SortRoutesByCost(routes)
			}

			views := make(routeViews, len(routes))
			for i, r := range routes {
				views[i] = newRouteView(r)
			}
			return a.render(cmd, views, views)
		},
	}

	addScopeFlags(cmd, true)
	cmd.Flags().String("from", "", "source node GUID")
	cmd.Flags().String("to", "", "destination node GUID")
	cmd.Flags().String("edge-filter", "", "JSON expression every edge on a route must match")
	cmd.Flags().String("node-filter", "", "JSON expression every intermediate node must match")
	cmd.Flags().Int("limit", 0, "stop after this many routes (0 for all)")
	cmd.Flags().Bool("sort", false, "sort routes by ascending total cost")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// newAdjacencyCmd builds the parents, children and neighbors commands, which
// differ only in the engine call.
func newAdjacencyCmd(a *app, use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use + " [node-guid]",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenant, graph := scope(cmd)
			order, _ := cmd.Flags().GetString("order")
			req := traversal.NeighborRequest{
				TenantGUID: tenant,
				GraphGUID:  graph,
				NodeGUID:   args[0],
				Order:      store.EnumerationOrder(order),
			}

			c, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx := cmd.Context()
			var seq iter.Seq2[*store.Node, error]
			switch use {
			case "parents":
				seq = c.Parents(ctx, req)
			case "children":
				seq = c.Children(ctx, req)
			default:
				seq = c.Neighbors(ctx, req)
			}

			nodes, err := store.Collect(seq)
			if err != nil {
				return err
			}
			return a.renderNodes(cmd, nodes)
		},
	}

	addScopeFlags(cmd, true)
	cmd.Flags().String("order", "", "order of the edge scan, e.g. CreatedAscending")

	return cmd
}
