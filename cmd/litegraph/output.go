// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package main

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/sigil-dev/litegraph/internal/metrics"
	"github.com/sigil-dev/litegraph/internal/store"
	"github.com/sigil-dev/litegraph/internal/traversal"
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type outputFormat string

const (
	outputTable outputFormat = "table"
	outputJSON  outputFormat = "json"
	outputYAML  outputFormat = "yaml"
)

func parseOutputFormat(s string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(s)); f {
	case outputTable, outputJSON, outputYAML:
		return f, nil
	default:
		return "", lgerr.Errorf(lgerr.CodeCLIInputInvalid, "unsupported output format %q (want table, json or yaml)", s)
	}
}

// tabular is anything that can be printed as a table.
type tabular interface {
	header() []string
	rows() [][]string
}

// render writes v in the selected format. Table output uses t.
func (a *app) render(cmd *cobra.Command, v any, t tabular) error {
	w := cmd.OutOrStdout()
	switch a.output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		table := tablewriter.NewWriter(w)
		table.Header(cells(t.header())...)
		for _, row := range t.rows() {
			if err := table.Append(cells(row)...); err != nil {
				return err
			}
		}
		return table.Render()
	}
}

func cells(row []string) []any {
	out := make([]any, len(row))
	for i, c := range row {
		out[i] = c
	}
	return out
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func formatTags(tags map[string]string) string {
	pairs := make([]string, 0, len(tags))
	for k, v := range tags {
		pairs = append(pairs, k+"="+v)
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ",")
}

func formatData(data any) string {
	if data == nil {
		return ""
	}
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Sprint(data)
	}
	return string(b)
}

// --- Views ---

type tenantView struct {
	GUID          string    `json:"guid" yaml:"guid"`
	Name          string    `json:"name" yaml:"name"`
	Active        bool      `json:"active" yaml:"active"`
	CreatedUTC    time.Time `json:"created_utc" yaml:"created_utc"`
	LastUpdateUTC time.Time `json:"last_update_utc" yaml:"last_update_utc"`
}

func newTenantView(t *store.Tenant) tenantView {
	return tenantView{GUID: t.GUID, Name: t.Name, Active: t.Active, CreatedUTC: t.CreatedUTC, LastUpdateUTC: t.LastUpdateUTC}
}

type tenantViews []tenantView

func (tenantViews) header() []string { return []string{"GUID", "Name", "Active", "Created"} }

func (v tenantViews) rows() [][]string {
	out := make([][]string, len(v))
	for i, t := range v {
		out[i] = []string{t.GUID, t.Name, strconv.FormatBool(t.Active), formatTime(t.CreatedUTC)}
	}
	return out
}

type graphView struct {
	TenantGUID    string            `json:"tenant_guid" yaml:"tenant_guid"`
	GUID          string            `json:"guid" yaml:"guid"`
	Name          string            `json:"name" yaml:"name"`
	Labels        []string          `json:"labels,omitempty" yaml:"labels,omitempty"`
	Tags          map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Data          any               `json:"data,omitempty" yaml:"data,omitempty"`
	CreatedUTC    time.Time         `json:"created_utc" yaml:"created_utc"`
	LastUpdateUTC time.Time         `json:"last_update_utc" yaml:"last_update_utc"`
}

func newGraphView(g *store.Graph) graphView {
	return graphView{
		TenantGUID: g.TenantGUID, GUID: g.GUID, Name: g.Name,
		Labels: g.Labels, Tags: g.Tags, Data: g.Data,
		CreatedUTC: g.CreatedUTC, LastUpdateUTC: g.LastUpdateUTC,
	}
}

type graphViews []graphView

func (graphViews) header() []string { return []string{"GUID", "Name", "Labels", "Tags", "Created"} }

func (v graphViews) rows() [][]string {
	out := make([][]string, len(v))
	for i, g := range v {
		out[i] = []string{g.GUID, g.Name, strings.Join(g.Labels, ","), formatTags(g.Tags), formatTime(g.CreatedUTC)}
	}
	return out
}

type nodeView struct {
	GraphGUID     string            `json:"graph_guid" yaml:"graph_guid"`
	GUID          string            `json:"guid" yaml:"guid"`
	Name          string            `json:"name" yaml:"name"`
	Labels        []string          `json:"labels,omitempty" yaml:"labels,omitempty"`
	Tags          map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Data          any               `json:"data,omitempty" yaml:"data,omitempty"`
	CreatedUTC    time.Time         `json:"created_utc" yaml:"created_utc"`
	LastUpdateUTC time.Time         `json:"last_update_utc" yaml:"last_update_utc"`
}

func newNodeView(n *store.Node) nodeView {
	return nodeView{
		GraphGUID: n.GraphGUID, GUID: n.GUID, Name: n.Name,
		Labels: n.Labels, Tags: n.Tags, Data: n.Data,
		CreatedUTC: n.CreatedUTC, LastUpdateUTC: n.LastUpdateUTC,
	}
}

type nodeViews []nodeView

func (nodeViews) header() []string { return []string{"GUID", "Name", "Labels", "Tags", "Data"} }

func (v nodeViews) rows() [][]string {
	out := make([][]string, len(v))
	for i, n := range v {
		out[i] = []string{n.GUID, n.Name, strings.Join(n.Labels, ","), formatTags(n.Tags), formatData(n.Data)}
	}
	return out
}

type edgeView struct {
	GraphGUID     string            `json:"graph_guid" yaml:"graph_guid"`
	GUID          string            `json:"guid" yaml:"guid"`
	Name          string            `json:"name" yaml:"name"`
	From          string            `json:"from" yaml:"from"`
	To            string            `json:"to" yaml:"to"`
	Cost          int               `json:"cost" yaml:"cost"`
	Labels        []string          `json:"labels,omitempty" yaml:"labels,omitempty"`
	Tags          map[string]string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Data          any               `json:"data,omitempty" yaml:"data,omitempty"`
	CreatedUTC    time.Time         `json:"created_utc" yaml:"created_utc"`
	LastUpdateUTC time.Time         `json:"last_update_utc" yaml:"last_update_utc"`
}

func newEdgeView(e *store.Edge) edgeView {
	return edgeView{
		GraphGUID: e.GraphGUID, GUID: e.GUID, Name: e.Name,
		From: e.From, To: e.To, Cost: e.Cost,
		Labels: e.Labels, Tags: e.Tags, Data: e.Data,
		CreatedUTC: e.CreatedUTC, LastUpdateUTC: e.LastUpdateUTC,
	}
}

type edgeViews []edgeView

func (edgeViews) header() []string { return []string{"GUID", "Name", "From", "To", "Cost", "Labels"} }

func (v edgeViews) rows() [][]string {
	out := make([][]string, len(v))
	for i, e := range v {
		out[i] = []string{e.GUID, e.Name, e.From, e.To, strconv.Itoa(e.Cost), strings.Join(e.Labels, ",")}
	}
	return out
}

type routeView struct {
	Nodes     []string `json:"nodes" yaml:"nodes"`
	Edges     []string `json:"edges" yaml:"edges"`
	TotalCost int      `json:"total_cost" yaml:"total_cost"`
}

func newRouteView(r *traversal.Route) routeView {
	edges := make([]string, len(r.Edges))
	for i, e := range r.Edges {
		edges[i] = e.GUID
	}
	return routeView{Nodes: r.Nodes, Edges: edges, TotalCost: r.TotalCost}
}

type routeViews []routeView

func (routeViews) header() []string { return []string{"#", "Path", "Edges", "Cost"} }

func (v routeViews) rows() [][]string {
	out := make([][]string, len(v))
	for i, r := range v {
		out[i] = []string{strconv.Itoa(i + 1), strings.Join(r.Nodes, " -> "), strings.Join(r.Edges, ","), strconv.Itoa(r.TotalCost)}
	}
	return out
}

type statsView struct {
	TenantGUID string           `json:"tenant_guid" yaml:"tenant_guid"`
	GraphGUID  string           `json:"graph_guid" yaml:"graph_guid"`
	Nodes      int              `json:"nodes" yaml:"nodes"`
	Edges      int              `json:"edges" yaml:"edges"`
	Labels     int              `json:"labels" yaml:"labels"`
	Tags       int              `json:"tags" yaml:"tags"`
	Vectors    int              `json:"vectors" yaml:"vectors"`
	Metrics    []metrics.Sample `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

func (statsView) header() []string { return []string{"Metric", "Value"} }

func (s statsView) rows() [][]string {
	out := [][]string{
		{"nodes", strconv.Itoa(s.Nodes)},
		{"edges", strconv.Itoa(s.Edges)},
		{"labels", strconv.Itoa(s.Labels)},
		{"tags", strconv.Itoa(s.Tags)},
		{"vectors", strconv.Itoa(s.Vectors)},
	}
	for _, m := range s.Metrics {
		name := m.Name
		if m.Labels != "" {
			name += "{" + m.Labels + "}"
		}
		out = append(out, []string{name, strconv.FormatFloat(m.Value, 'g', -1, 64)})
	}
	return out
}
