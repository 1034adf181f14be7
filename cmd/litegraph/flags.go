// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"encoding/json"
	"iter"

	"github.com/google/uuid"
	"github.com/sigil-dev/litegraph/internal/store"
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
	"github.com/sigil-dev/litegraph/pkg/expr"
	"github.com/spf13/cobra"
)

// addScopeFlags registers --tenant, and --graph when withGraph is set, on
// cmd and all of its subcommands.
func addScopeFlags(cmd *cobra.Command, withGraph bool) {
	cmd.PersistentFlags().String("tenant", "", "tenant GUID")
	_ = cmd.MarkPersistentFlagRequired("tenant")
	if withGraph {
		cmd.PersistentFlags().String("graph", "", "graph GUID")
		_ = cmd.MarkPersistentFlagRequired("graph")
	}
}

func scope(cmd *cobra.Command) (tenant, graph string) {
	tenant, _ = cmd.Flags().GetString("tenant")
	graph, _ = cmd.Flags().GetString("graph")
	return tenant, graph
}

// addAttributeFlags registers the flags shared by every create command.
func addAttributeFlags(cmd *cobra.Command) {
	cmd.Flags().String("guid", "", "GUID to assign (random when empty)")
	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("data", "", "JSON data document")
	cmd.Flags().StringSlice("label", nil, "label to attach (repeatable)")
	cmd.Flags().StringToString("tag", nil, "tag to attach as key=value (repeatable)")
}

type attributes struct {
	GUID   string
	Name   string
	Data   any
	Labels []string
	Tags   map[string]string
}

func readAttributes(cmd *cobra.Command) (attributes, error) {
	var a attributes
	a.GUID, _ = cmd.Flags().GetString("guid")
	if a.GUID == "" {
		a.GUID = uuid.NewString()
	}
	a.Name, _ = cmd.Flags().GetString("name")
	a.Labels, _ = cmd.Flags().GetStringSlice("label")
	a.Tags, _ = cmd.Flags().GetStringToString("tag")

	raw, _ := cmd.Flags().GetString("data")
	data, err := parseData(raw)
	if err != nil {
		return a, err
	}
	a.Data = data
	return a, nil
}

func parseData(raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, lgerr.Errorf(lgerr.CodeCLIInputInvalid, "--data is not valid JSON: %w", err)
	}
	return v, nil
}

func parseFilter(flag, raw string) (*expr.Expr, error) {
	if raw == "" {
		return nil, nil
	}
	var e expr.Expr
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return nil, lgerr.Errorf(lgerr.CodeCLIInputInvalid, "--%s is not a valid expression: %w", flag, err)
	}
	return &e, nil
}

// addListFlags registers the enumeration flags of list commands.
func addListFlags(cmd *cobra.Command) {
	cmd.Flags().String("order", "", "enumeration order, e.g. CreatedDescending, NameAscending, CostAscending")
	cmd.Flags().StringSlice("label", nil, "require label (repeatable)")
	cmd.Flags().StringToString("tag", nil, "require tag key=value (repeatable)")
	cmd.Flags().String("filter", "", `JSON expression over the data document, e.g. {"Left":"Age","Operator":"GreaterThan","Right":30}`)
	cmd.Flags().Int("skip", 0, "number of results to skip")
	cmd.Flags().Int("limit", 0, "maximum number of results (0 for all)")
}

func readListQuery(cmd *cobra.Command) (store.ListQuery, int, error) {
	var q store.ListQuery
	order, _ := cmd.Flags().GetString("order")
	q.Order = store.EnumerationOrder(order)
	q.Labels, _ = cmd.Flags().GetStringSlice("label")
	q.Tags, _ = cmd.Flags().GetStringToString("tag")
	q.Skip, _ = cmd.Flags().GetInt("skip")

	raw, _ := cmd.Flags().GetString("filter")
	filter, err := parseFilter("filter", raw)
	if err != nil {
		return q, 0, err
	}
	q.Filter = filter

	limit, _ := cmd.Flags().GetInt("limit")
	if limit < 0 {
		return q, 0, lgerr.Errorf(lgerr.CodeCLIInputInvalid, "--limit must be >= 0, got %d", limit)
	}
	return q, limit, nil
}

// take collects at most limit items from seq, or all of them when limit is 0.
func take[T any](seq iter.Seq2[T, error], limit int) ([]T, error) {
	var out []T
	for v, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, v)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
