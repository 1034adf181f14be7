// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sigil-dev/litegraph/internal/store"
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
	"github.com/spf13/cobra"
)

func newTenantCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants",
		Long:  "Create, list, inspect and delete tenants.",
	}

	cmd.AddCommand(
		newTenantCreateCmd(a),
		newTenantListCmd(a),
		newTenantGetCmd(a),
		newTenantDeleteCmd(a),
	)

	return cmd
}

func newTenantCreateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a tenant",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			guid, _ := cmd.Flags().GetString("guid")
			if guid == "" {
				guid = uuid.NewString()
			}
			name, _ := cmd.Flags().GetString("name")
			inactive, _ := cmd.Flags().GetBool("inactive")

			c, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			t, err := c.CreateTenant(cmd.Context(), &store.Tenant{GUID: guid, Name: name, Active: !inactive})
			if err != nil {
				return err
			}
			v := newTenantView(t)
			return a.render(cmd, v, tenantViews{v})
		},
	}

	cmd.Flags().String("guid", "", "GUID to assign (random when empty)")
	cmd.Flags().String("name", "", "tenant name")
	cmd.Flags().Bool("inactive", false, "create the tenant as inactive")

	return cmd
}

func newTenantListCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tenants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			order, _ := cmd.Flags().GetString("order")
			skip, _ := cmd.Flags().GetInt("skip")
			limit, _ := cmd.Flags().GetInt("limit")

			c, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			tenants, err := take(c.ReadTenants(cmd.Context(), store.ListQuery{Order: store.EnumerationOrder(order), Skip: skip}), limit)
			if err != nil {
				return err
			}
			views := make(tenantViews, len(tenants))
			for i, t := range tenants {
				views[i] = newTenantView(t)
			}
			return a.render(cmd, views, views)
		},
	}

	cmd.Flags().String("order", "", "enumeration order, e.g. NameAscending")
	cmd.Flags().Int("skip", 0, "number of results to skip")
	cmd.Flags().Int("limit", 0, "maximum number of results (0 for all)")

	return cmd
}

func newTenantGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get [guid]",
		Short: "Show a tenant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			t, err := c.ReadTenant(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if t == nil {
				return lgerr.NotFound(string(store.EntityTenant), args[0])
			}
			v := newTenantView(t)
			return a.render(cmd, v, tenantViews{v})
		},
	}
}

func newTenantDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [guid]",
		Short: "Delete a tenant",
		Long:  "Delete a tenant. A tenant that still owns graphs is only deleted with --force, which removes everything it owns.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			c, err := a.open()
			if err != nil {
				return err
			}
			defer func() { _ = c.Close() }()

			if err := c.DeleteTenant(cmd.Context(), args[0], force); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted tenant %q\n", args[0])
			return err
		},
	}

	cmd.Flags().Bool("force", false, "delete the tenant together with everything it owns")

	return cmd
}
