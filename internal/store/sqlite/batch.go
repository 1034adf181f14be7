// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/sigil-dev/litegraph/internal/store"
)

// Exists partitions each candidate set into existing and missing members.
// Every set is answered with one statement per chunk by left-joining a VALUES
// table of candidates against the entity table. Results keep input order and
// list each candidate once.
func (r *Repository) Exists(ctx context.Context, tenantGUID, graphGUID string, req store.ExistenceRequest) (*store.ExistenceResult, error) {
	var res store.ExistenceResult

	nodes, err := r.existingGUIDs(ctx, "nodes", tenantGUID, graphGUID, req.Nodes)
	if err != nil {
		return nil, err
	}
	res.ExistingNodes, res.MissingNodes = partition(dedupe(req.Nodes), nodes)

	edges, err := r.existingGUIDs(ctx, "edges", tenantGUID, graphGUID, req.Edges)
	if err != nil {
		return nil, err
	}
	res.ExistingEdges, res.MissingEdges = partition(dedupe(req.Edges), edges)

	pairs, err := r.existingPairs(ctx, tenantGUID, graphGUID, req.EdgesBetween)
	if err != nil {
		return nil, err
	}
	seen := make(map[store.EdgeBetween]struct{}, len(req.EdgesBetween))
	for _, p := range req.EdgesBetween {
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		if _, ok := pairs[p]; ok {
			res.ExistingEdgesBetween = append(res.ExistingEdgesBetween, p)
		} else {
			res.MissingEdgesBetween = append(res.MissingEdgesBetween, p)
		}
	}
	return &res, nil
}

func partition(guids []string, existing map[string]struct{}) (found, missing []string) {
	for _, g := range guids {
		if _, ok := existing[g]; ok {
			found = append(found, g)
		} else {
			missing = append(missing, g)
		}
	}
	return found, missing
}

func valuesTable(rows, width int) string {
	row := "(" + placeholders(width) + ")"
	return strings.TrimSuffix(strings.Repeat(row+", ", rows), ", ")
}

// existingGUIDs returns the subset of guids stored in table for the graph.
func (r *Repository) existingGUIDs(ctx context.Context, table, tenantGUID, graphGUID string, guids []string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	for _, chunk := range chunks(dedupe(guids), maxBoundParams) {
		stmt := `WITH candidates(guid) AS (VALUES ` + valuesTable(len(chunk), 1) + `)
SELECT c.guid, x.guid IS NOT NULL FROM candidates c
LEFT JOIN ` + table + ` x ON x.guid = c.guid AND x.tenant_guid = ? AND x.graph_guid = ?`
		args := append(toArgs(chunk), tenantGUID, graphGUID)

		err := r.query(ctx, stmt, args, func(rows *sql.Rows) error {
			var guid string
			var present bool
			if err := rows.Scan(&guid, &present); err != nil {
				return err
			}
			if present {
				out[guid] = struct{}{}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// existingPairs returns the (from, to) pairs joined by at least one edge.
func (r *Repository) existingPairs(ctx context.Context, tenantGUID, graphGUID string, pairs []store.EdgeBetween) (map[store.EdgeBetween]struct{}, error) {
	out := make(map[store.EdgeBetween]struct{})
	for _, chunk := range chunks(pairs, maxBoundParams/2) {
		stmt := `WITH candidates(from_guid, to_guid) AS (VALUES ` + valuesTable(len(chunk), 2) + `)
SELECT DISTINCT c.from_guid, c.to_guid, e.guid IS NOT NULL FROM candidates c
LEFT JOIN edges e ON e.from_guid = c.from_guid AND e.to_guid = c.to_guid AND e.tenant_guid = ? AND e.graph_guid = ?`
		args := make([]any, 0, len(chunk)*2+2)
		for _, p := range chunk {
			args = append(args, p.From, p.To)
		}
		args = append(args, tenantGUID, graphGUID)

		err := r.query(ctx, stmt, args, func(rows *sql.Rows) error {
			var p store.EdgeBetween
			var present bool
			if err := rows.Scan(&p.From, &p.To, &present); err != nil {
				return err
			}
			if present {
				out[p] = struct{}{}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
