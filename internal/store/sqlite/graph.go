// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite

import (
	"context"
	"database/sql"
	"iter"

	"github.com/sigil-dev/litegraph/internal/store"
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
)

const graphColumns = `g.guid, g.tenant_guid, g.name, g.data, g.created_utc, g.last_update_utc`

func (r *Repository) scanGraph(row rowScanner) (*store.Graph, error) {
	var g store.Graph
	var data sql.NullString
	var created, updated string
	if err := row.Scan(&g.GUID, &g.TenantGUID, &g.Name, &data, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if g.CreatedUTC, g.LastUpdateUTC, err = parseTimes(created, updated); err != nil {
		return nil, err
	}
	g.Data = decodeData(r.logger, g.GUID, data)
	return &g, nil
}

// hydrateGraphs attaches graph-level labels and tags.
func (r *Repository) hydrateGraphs(ctx context.Context, tenantGUID string, graphs []*store.Graph) error {
	if len(graphs) == 0 {
		return nil
	}
	guids := make([]string, len(graphs))
	for i, g := range graphs {
		guids[i] = g.GUID
	}
	labels, tags, err := r.loadAttachments(ctx, attachmentScope{tenantGUID: tenantGUID, column: "graph_guid"}, guids)
	if err != nil {
		return err
	}
	for _, g := range graphs {
		g.Labels = labels[g.GUID]
		g.Tags = tags[g.GUID]
	}
	return nil
}

// CreateGraph inserts graph with its labels, tags and vectors, or returns the
// stored graph when the GUID already exists for the tenant.
func (r *Repository) CreateGraph(ctx context.Context, graph *store.Graph) (*store.Graph, error) {
	if graph == nil {
		return nil, lgerr.InvalidInput("graph is required")
	}
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	data, err := encodeData(graph.Data)
	if err != nil {
		return nil, err
	}

	unlock := r.lockCreate()
	defer unlock()

	existing, err := r.ReadGraph(ctx, graph.TenantGUID, graph.GUID)
	if err != nil || existing != nil {
		return existing, err
	}

	g := *graph
	stamp(&g.CreatedUTC, &g.LastUpdateUTC)

	err = r.withTx(ctx, func(tx *txn) error {
		const q = `INSERT INTO graphs (guid, tenant_guid, name, data, created_utc, last_update_utc) VALUES (?, ?, ?, ?, ?, ?)`
		if _, err := tx.exec(q, g.GUID, g.TenantGUID, g.Name, data, formatTime(g.CreatedUTC), formatTime(g.LastUpdateUTC)); err != nil {
			return err
		}
		return insertAttachments(tx, graphOwner(g.TenantGUID, g.GUID), g.Labels, g.Tags, g.Vectors, g.CreatedUTC)
	})
	if err != nil {
		return nil, lgerr.With(err, lgerr.FieldTenantID(g.TenantGUID), lgerr.FieldGUID(g.GUID))
	}
	r.obs.Created(string(store.EntityGraph), 1)

	return r.ReadGraph(ctx, g.TenantGUID, g.GUID)
}

// ReadGraph returns the graph or nil when absent.
func (r *Repository) ReadGraph(ctx context.Context, tenantGUID, guid string) (*store.Graph, error) {
	var out *store.Graph
	err := r.query(ctx, `SELECT `+graphColumns+` FROM graphs g WHERE g.tenant_guid = ? AND g.guid = ?`, []any{tenantGUID, guid},
		func(rows *sql.Rows) error {
			g, err := r.scanGraph(rows)
			out = g
			return err
		})
	if err != nil || out == nil {
		return nil, err
	}
	if err := r.hydrateGraphs(ctx, tenantGUID, []*store.Graph{out}); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadGraphs enumerates the tenant's graphs.
func (r *Repository) ReadGraphs(ctx context.Context, tenantGUID string, q store.ListQuery) iter.Seq2[*store.Graph, error] {
	if err := q.Validate(store.EntityGraph); err != nil {
		return store.Fail[*store.Graph](err)
	}

	spec := listSpec{
		table:      "graphs",
		alias:      "g",
		columns:    graphColumns,
		graphLevel: true,
		hasData:    true,
		tenantGUID: tenantGUID,
		where:      []string{"g.tenant_guid = ?"},
		args:       []any{tenantGUID},
	}
	return paginate(ctx, r.pageSize, q.Skip, func(ctx context.Context, limit, offset int) ([]*store.Graph, error) {
		page, err := listPage(ctx, r, spec, q, limit, offset, r.scanGraph)
		if err != nil {
			return nil, err
		}
		return page, r.hydrateGraphs(ctx, tenantGUID, page)
	})
}

// UpdateGraph replaces name and data. Non-nil Labels or Tags replace the
// graph-level labels or tags.
func (r *Repository) UpdateGraph(ctx context.Context, graph *store.Graph) (*store.Graph, error) {
	if graph == nil {
		return nil, lgerr.InvalidInput("graph is required")
	}
	if err := graph.Validate(); err != nil {
		return nil, err
	}
	data, err := encodeData(graph.Data)
	if err != nil {
		return nil, err
	}

	ok, err := r.TenantExists(ctx, graph.TenantGUID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, store.NotFound(store.EntityTenant, graph.TenantGUID)
	}

	err = r.withTx(ctx, func(tx *txn) error {
		ts := now()
		const q = `UPDATE graphs SET name = ?, data = ?, last_update_utc = ? WHERE tenant_guid = ? AND guid = ?`
		n, err := tx.affected(q, graph.Name, data, formatTime(ts), graph.TenantGUID, graph.GUID)
		if err != nil {
			return err
		}
		if n == 0 {
			return store.NotFound(store.EntityGraph, graph.GUID, lgerr.FieldTenantID(graph.TenantGUID))
		}
		return replaceAttachments(tx, graphOwner(graph.TenantGUID, graph.GUID), graph.Labels, graph.Tags, ts)
	})
	if err != nil {
		return nil, err
	}
	return r.ReadGraph(ctx, graph.TenantGUID, graph.GUID)
}

// DeleteGraph removes the graph. Without force it is rejected while nodes or
// edges remain; with force every node, edge and metadata row goes with it.
func (r *Repository) DeleteGraph(ctx context.Context, tenantGUID, guid string, force bool) error {
	return r.withTx(ctx, func(tx *txn) error {
		exists, err := tx.count(`SELECT COUNT(*) FROM graphs WHERE tenant_guid = ? AND guid = ?`, tenantGUID, guid)
		if err != nil {
			return err
		}
		if exists == 0 {
			return store.NotFound(store.EntityGraph, guid, lgerr.FieldTenantID(tenantGUID))
		}

		if !force {
			nodes, err := tx.count(`SELECT COUNT(*) FROM nodes WHERE tenant_guid = ? AND graph_guid = ?`, tenantGUID, guid)
			if err != nil {
				return err
			}
			edges, err := tx.count(`SELECT COUNT(*) FROM edges WHERE tenant_guid = ? AND graph_guid = ?`, tenantGUID, guid)
			if err != nil {
				return err
			}
			if nodes > 0 || edges > 0 {
				return lgerr.New(lgerr.CodeStoreGraphNotEmpty, "graph still has nodes or edges",
					lgerr.FieldTenantID(tenantGUID), lgerr.FieldGraphID(guid),
					lgerr.Field("nodes", nodes), lgerr.Field("edges", edges))
			}
		}

		if err := deleteMetadata(tx, `tenant_guid = ? AND graph_guid = ?`, tenantGUID, guid); err != nil {
			return err
		}
		for _, table := range []string{"edges", "nodes"} {
			if _, err := tx.exec(`DELETE FROM `+table+` WHERE tenant_guid = ? AND graph_guid = ?`, tenantGUID, guid); err != nil {
				return err
			}
		}
		_, err = tx.exec(`DELETE FROM graphs WHERE tenant_guid = ? AND guid = ?`, tenantGUID, guid)
		return err
	})
}

// GraphExists reports whether the graph is stored for the tenant.
func (r *Repository) GraphExists(ctx context.Context, tenantGUID, guid string) (bool, error) {
	n, err := r.count(ctx, `SELECT COUNT(*) FROM graphs WHERE tenant_guid = ? AND guid = ?`, tenantGUID, guid)
	return n > 0, err
}

// GraphStatistics counts the rows owned by the graph.
func (r *Repository) GraphStatistics(ctx context.Context, tenantGUID, guid string) (*store.GraphStatistics, error) {
	ok, err := r.GraphExists(ctx, tenantGUID, guid)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, store.NotFound(store.EntityGraph, guid, lgerr.FieldTenantID(tenantGUID))
	}

	const q = `SELECT
	(SELECT COUNT(*) FROM nodes   WHERE tenant_guid = ?1 AND graph_guid = ?2),
	(SELECT COUNT(*) FROM edges   WHERE tenant_guid = ?1 AND graph_guid = ?2),
	(SELECT COUNT(*) FROM labels  WHERE tenant_guid = ?1 AND graph_guid = ?2),
	(SELECT COUNT(*) FROM tags    WHERE tenant_guid = ?1 AND graph_guid = ?2),
	(SELECT COUNT(*) FROM vectors WHERE tenant_guid = ?1 AND graph_guid = ?2)`

	var stats store.GraphStatistics
	err = r.query(ctx, q, []any{tenantGUID, guid}, func(rows *sql.Rows) error {
		return rows.Scan(&stats.Nodes, &stats.Edges, &stats.Labels, &stats.Tags, &stats.Vectors)
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
