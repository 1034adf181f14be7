// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"fmt"

	"github.com/sigil-dev/litegraph/internal/store"
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
	"github.com/spf13/cobra"
)

func newNodeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "node",
		Short: "Manage nodes",
		Long:  "Create, list, inspect and delete the nodes of a graph.",
	}
	addScopeFlags(cmd, true)

	cmd.AddCommand(
		newNodeCreateCmd(a),
		newNodeListCmd(a),
		newNodeGetCmd(a),
		newNodeDeleteCmd(a),
	)

	return cmd
}

func newNodeCreateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a node",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenant, graph := scope(cmd)
			attrs, err := readAttributes(cmd)
			if err != nil {
				return err
			}

			c, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			n, err := c.CreateNode(cmd.Context(), &store.Node{
				TenantGUID: tenant,
				GraphGUID:  graph,
				GUID:       attrs.GUID,
				Name:       attrs.Name,
				Data:       attrs.Data,
				Labels:     attrs.Labels,
				Tags:       attrs.Tags,
			})
			if err != nil {
				return err
			}
			v := newNodeView(n)
			return a.render(cmd, v, nodeViews{v})
		},
	}
	addAttributeFlags(cmd)
	return cmd
}

func newNodeListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List nodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenant, graph := scope(cmd)
			q, limit, err := readListQuery(cmd)
			if err != nil {
				return err
			}

			c, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			nodes, err := take(c.ReadNodes(cmd.Context(), tenant, graph, q), limit)
			if err != nil {
				return err
			}
			return a.renderNodes(cmd, nodes)
		},
	}
	addListFlags(cmd)
	return cmd
}

func newNodeGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get [guid]",
		Short: "Show a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenant, graph := scope(cmd)

			c, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			n, err := c.ReadNode(cmd.Context(), tenant, graph, args[0])
			if err != nil {
				return err
			}
			if n == nil {
				return lgerr.NotFound(string(store.EntityNode), args[0], lgerr.FieldGraphID(graph))
			}
			v := newNodeView(n)
			return a.render(cmd, v, nodeViews{v})
		},
	}
}

func newNodeDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [guid...]",
		Short: "Delete nodes and their edges",
		Long:  "Delete one or more nodes together with every edge that touches them. With --all every node of the graph is deleted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			tenant, graph := scope(cmd)
			all, _ := cmd.Flags().GetBool("all")
			if all == (len(args) > 0) {
				return lgerr.New(lgerr.CodeCLIInputInvalid, "pass either node GUIDs or --all")
			}

			c, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			switch {
			case all:
				err = c.DeleteAllNodes(cmd.Context(), tenant, graph)
			case len(args) == 1:
				err = c.DeleteNode(cmd.Context(), tenant, graph, args[0])
			default:
				err = c.DeleteNodes(cmd.Context(), tenant, graph, args)
			}
			if err != nil {
				return err
			}
			if all {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted all nodes of graph %q\n", graph)
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d node(s)\n", len(args))
			return err
		},
	}
	cmd.Flags().Bool("all", false, "delete every node of the graph")
	return cmd
}

func (a *app) renderNodes(cmd *cobra.Command, nodes []*store.Node) error {
	views := make(nodeViews, len(nodes))
	for i, n := range nodes {
		views[i] = newNodeView(n)
	}
	return a.render(cmd, views, views)
}
