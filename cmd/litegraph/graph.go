// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"fmt"

	"github.com/sigil-dev/litegraph/internal/store"
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
	"github.com/spf13/cobra"
)

func newGraphCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Manage graphs",
		Long:  "Create, list, inspect and delete the graphs of a tenant.",
	}
	addScopeFlags(cmd, false)

	cmd.AddCommand(
		newGraphCreateCmd(a),
		newGraphListCmd(a),
		newGraphGetCmd(a),
		newGraphDeleteCmd(a),
	)

	return cmd
}

func newGraphCreateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenant, _ := scope(cmd)
			attrs, err := readAttributes(cmd)
			if err != nil {
				return err
			}

			c, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			g, err := c.CreateGraph(cmd.Context(), &store.Graph{
				TenantGUID: tenant,
				GUID:       attrs.GUID,
				Name:       attrs.Name,
				Data:       attrs.Data,
				Labels:     attrs.Labels,
				Tags:       attrs.Tags,
			})
			if err != nil {
				return err
			}
			v := newGraphView(g)
			return a.render(cmd, v, graphViews{v})
		},
	}
	addAttributeFlags(cmd)
	return cmd
}

func newGraphListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List graphs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tenant, _ := scope(cmd)
			q, limit, err := readListQuery(cmd)
			if err != nil {
				return err
			}

			c, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			graphs, err := take(c.ReadGraphs(cmd.Context(), tenant, q), limit)
			if err != nil {
				return err
			}
			views := make(graphViews, len(graphs))
			for i, g := range graphs {
				views[i] = newGraphView(g)
			}
			return a.render(cmd, views, views)
		},
	}
	addListFlags(cmd)
	return cmd
}

func newGraphGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get [guid]",
		Short: "Show a graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenant, _ := scope(cmd)

			c, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			g, err := c.ReadGraph(cmd.Context(), tenant, args[0])
			if err != nil {
				return err
			}
			if g == nil {
				return lgerr.NotFound(string(store.EntityGraph), args[0], lgerr.FieldTenantID(tenant))
			}
			v := newGraphView(g)
			return a.render(cmd, v, graphViews{v})
		},
	}
}

func newGraphDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [guid]",
		Short: "Delete a graph",
		Long:  "Delete a graph. A graph that still has nodes or edges is only deleted with --force.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tenant, _ := scope(cmd)
			force, _ := cmd.Flags().GetBool("force")

			c, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			if err := c.DeleteGraph(cmd.Context(), tenant, args[0], force); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted graph %q\n", args[0])
			return err
		},
	}
	cmd.Flags().Bool("force", false, "delete the graph together with its nodes, edges and metadata")
	return cmd
}
