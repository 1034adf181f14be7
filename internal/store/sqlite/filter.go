// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite

import (
	"fmt"
	"slices"
	"strings"

	"github.com/sigil-dev/litegraph/internal/store"
	"github.com/sigil-dev/litegraph/pkg/expr"
)

// listSpec describes a paged SELECT over one entity table.
type listSpec struct {
	table   string // table name
	alias   string // table alias used by every clause
	columns string // alias-qualified select list

	// owner is the tags/labels column referencing this table's guid;
	// empty for tables without metadata.
	owner string
	// graphLevel selects graph-attached metadata rows (node and edge NULL).
	graphLevel bool
	hasData    bool

	tenantGUID string
	graphGUID  string

	where []string
	args  []any
}

// tagCondition is one requested tag. An empty value only requires the key.
type tagCondition struct {
	key   string
	value string
}

func tagConditions(tags map[string]string) []tagCondition {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	out := make([]tagCondition, 0, len(keys))
	for _, k := range keys {
		out = append(out, tagCondition{key: k, value: tags[k]})
	}
	return out
}

// tagJoins emits one INNER JOIN per tag condition, each with its own alias,
// so several conditions can hold for the same row.
func (s listSpec) tagJoins(conds []tagCondition) (string, []any) {
	var b strings.Builder
	var args []any
	for i, c := range conds {
		t := fmt.Sprintf("t%d", i)
		fmt.Fprintf(&b, " INNER JOIN tags %[1]s ON %[1]s.tenant_guid = %[2]s.tenant_guid", t, s.alias)
		if s.graphLevel {
			fmt.Fprintf(&b, " AND %[1]s.graph_guid = %[2]s.guid AND %[1]s.node_guid IS NULL AND %[1]s.edge_guid IS NULL", t, s.alias)
		} else {
			fmt.Fprintf(&b, " AND %[1]s.graph_guid = %[2]s.graph_guid AND %[1]s.%[3]s = %[2]s.guid", t, s.alias, s.owner)
		}
		fmt.Fprintf(&b, " AND %s.tag_key = ?", t)
		args = append(args, c.key)
		if c.value != "" {
			fmt.Fprintf(&b, " AND %s.tag_value = ?", t)
			args = append(args, c.value)
		}
	}
	return b.String(), args
}

// labelMembership requires every requested label: rows are grouped by owner
// and kept only when the number of distinct matched labels equals the number
// of distinct labels requested. A row carrying just one of them is excluded.
func (s listSpec) labelMembership(labels []string) (string, []any) {
	distinct := slices.Clone(labels)
	slices.Sort(distinct)
	distinct = slices.Compact(distinct)

	ownerCol := s.owner
	scope := "l.graph_guid = ?"
	args := []any{s.tenantGUID}
	if s.graphLevel {
		ownerCol = "graph_guid"
		scope = "l.node_guid IS NULL AND l.edge_guid IS NULL"
	} else {
		args = append(args, s.graphGUID)
	}

	for _, l := range distinct {
		args = append(args, l)
	}
	args = append(args, len(distinct))

	clause := fmt.Sprintf(
		"%s.guid IN (SELECT l.%s FROM labels l WHERE l.tenant_guid = ? AND %s AND l.label IN (%s) GROUP BY l.%s HAVING COUNT(DISTINCT l.label) = ?)",
		s.alias, ownerCol, scope, placeholders(len(distinct)), ownerCol,
	)
	return clause, args
}

func orderClause(alias string, order store.EnumerationOrder) string {
	col, dir := "created_utc", "DESC"
	switch order.OrDefault() {
	case store.OrderCreatedAscending:
		col, dir = "created_utc", "ASC"
	case store.OrderCreatedDescending:
		col, dir = "created_utc", "DESC"
	case store.OrderNameAscending:
		col, dir = "name", "ASC"
	case store.OrderNameDescending:
		col, dir = "name", "DESC"
	case store.OrderGUIDAscending:
		return alias + ".guid ASC"
	case store.OrderGUIDDescending:
		return alias + ".guid DESC"
	case store.OrderCostAscending:
		col, dir = "cost", "ASC"
	case store.OrderCostDescending:
		col, dir = "cost", "DESC"
	}
	// guid breaks ties so offsets stay stable between pages.
	return fmt.Sprintf("%[1]s.%[2]s %[3]s, %[1]s.guid %[3]s", alias, col, dir)
}

// build renders the page query. The second result is false when q.Filter
// was given but could not be compiled and was therefore omitted.
func (s listSpec) build(q store.ListQuery, limit, offset int) (string, []any, bool) {
	var b strings.Builder
	var args []any

	conds := tagConditions(q.Tags)
	if len(conds) > 0 {
		b.WriteString("SELECT DISTINCT ")
	} else {
		b.WriteString("SELECT ")
	}
	fmt.Fprintf(&b, "%s FROM %s %s", s.columns, s.table, s.alias)

	if len(conds) > 0 {
		joins, joinArgs := s.tagJoins(conds)
		b.WriteString(joins)
		args = append(args, joinArgs...)
	}

	where := slices.Clone(s.where)
	args = append(args, s.args...)

	if len(q.Labels) > 0 {
		clause, labelArgs := s.labelMembership(q.Labels)
		where = append(where, clause)
		args = append(args, labelArgs...)
	}

	filterApplied := true
	if q.Filter != nil && s.hasData {
		if pred, ok := expr.Compile(q.Filter, s.alias+".data"); ok {
			where = append(where, "("+pred+")")
		} else {
			filterApplied = false
		}
	}

	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}

	b.WriteString(" ORDER BY ")
	b.WriteString(orderClause(s.alias, q.Order))
	b.WriteString(" LIMIT ? OFFSET ?")
	args = append(args, limit, offset)

	return b.String(), args, filterApplied
}
