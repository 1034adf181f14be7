// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"fmt"
	"iter"

	"github.com/sigil-dev/litegraph/internal/store"
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
	"github.com/spf13/cobra"
)

func newEdgeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edge",
		Short: "Manage edges",
		Long:  "Create, list, inspect and delete the edges of a graph.",
	}
	addScopeFlags(cmd, true)

	cmd.AddCommand(
		newEdgeCreateCmd(a),
		newEdgeListCmd(a),
		newEdgeGetCmd(a),
		newEdgeDeleteCmd(a),
	)

	return cmd
}

func newEdgeCreateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an edge between two existing nodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenant, graph := scope(cmd)
			attrs, err := readAttributes(cmd)
			if err != nil {
				return err
			}
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			cost, _ := cmd.Flags().GetInt("cost")

			c, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			e, err := c.CreateEdge(cmd.Context(), &store.Edge{
				TenantGUID: tenant,
				GraphGUID:  graph,
				GUID:       attrs.GUID,
				Name:       attrs.Name,
				From:       from,
				To:         to,
				Cost:       cost,
				Data:       attrs.Data,
				Labels:     attrs.Labels,
				Tags:       attrs.Tags,
			})
			if err != nil {
				return err
			}
			v := newEdgeView(e)
			return a.render(cmd, v, edgeViews{v})
		},
	}
	addAttributeFlags(cmd)
	cmd.Flags().String("from", "", "source node GUID")
	cmd.Flags().String("to", "", "target node GUID")
	cmd.Flags().Int("cost", 0, "non-negative traversal cost")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newEdgeListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List edges",
		Long:  "List the edges of a graph, optionally only those leaving --from, entering --to, or both.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenant, graph := scope(cmd)
			q, limit, err := readListQuery(cmd)
			if err != nil {
				return err
			}
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")

			c, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			ctx := cmd.Context()
			var seq iter.Seq2[*store.Edge, error]
			switch {
			case from != "" && to != "":
				seq = c.ReadEdgesBetween(ctx, tenant, graph, from, to, q)
			case from != "":
				seq = c.ReadEdgesFrom(ctx, tenant, graph, from, q)
			case to != "":
				seq = c.ReadEdgesTo(ctx, tenant, graph, to, q)
			default:
				seq = c.ReadEdges(ctx, tenant, graph, q)
			}

			edges, err := take(seq, limit)
			if err != nil {
				return err
			}
			views := make(edgeViews, len(edges))
			for i, e := range edges {
				views[i] = newEdgeView(e)
			}
			return a.render(cmd, views, views)
		},
	}
	addListFlags(cmd)
	cmd.Flags().String("from", "", "only edges leaving this node")
	cmd.Flags().String("to", "", "only edges entering this node")
	return cmd
}

func newEdgeGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get [guid]",
		Short: "Show an edge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenant, graph := scope(cmd)

			c, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			e, err := c.ReadEdge(cmd.Context(), tenant, graph, args[0])
			if err != nil {
				return err
			}
			if e == nil {
				return lgerr.NotFound(string(store.EntityEdge), args[0], lgerr.FieldGraphID(graph))
			}
			v := newEdgeView(e)
			return a.render(cmd, v, edgeViews{v})
		},
	}
}

func newEdgeDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [guid...]",
		Short: "Delete edges",
		Long:  "Delete one or more edges. With --all every edge of the graph is deleted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			tenant, graph := scope(cmd)
			all, _ := cmd.Flags().GetBool("all")
			if all == (len(args) > 0) {
				return lgerr.New(lgerr.CodeCLIInputInvalid, "pass either edge GUIDs or --all")
			}

			c, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			switch {
			case all:
				err = c.DeleteAllEdges(cmd.Context(), tenant, graph)
			case len(args) == 1:
				err = c.DeleteEdge(cmd.Context(), tenant, graph, args[0])
			default:
				err = c.DeleteEdges(cmd.Context(), tenant, graph, args)
			}
			if err != nil {
				return err
			}
			if all {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted all edges of graph %q\n", graph)
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d edge(s)\n", len(args))
			return err
		},
	}
	cmd.Flags().Bool("all", false, "delete every edge of the graph")
	return cmd
}
