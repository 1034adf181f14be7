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

const edgeColumns = `e.guid, e.tenant_guid, e.graph_guid, e.name, e.from_guid, e.to_guid, e.cost, e.data, e.created_utc, e.last_update_utc`

func (r *Repository) scanEdge(row rowScanner) (*store.Edge, error) {
	var e store.Edge
	var data sql.NullString
	var created, updated string
	if err := row.Scan(&e.GUID, &e.TenantGUID, &e.GraphGUID, &e.Name, &e.From, &e.To, &e.Cost, &data, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if e.CreatedUTC, e.LastUpdateUTC, err = parseTimes(created, updated); err != nil {
		return nil, err
	}
	e.Data = decodeData(r.logger, e.GUID, data)
	return &e, nil
}

func (r *Repository) hydrateEdges(ctx context.Context, tenantGUID, graphGUID string, edges []*store.Edge) error {
	if len(edges) == 0 {
		return nil
	}
	guids := make([]string, len(edges))
	for i, e := range edges {
		guids[i] = e.GUID
	}
	labels, tags, err := r.loadAttachments(ctx, attachmentScope{tenantGUID: tenantGUID, graphGUID: graphGUID, column: "edge_guid"}, guids)
	if err != nil {
		return err
	}
	for _, e := range edges {
		e.Labels = labels[e.GUID]
		e.Tags = tags[e.GUID]
	}
	return nil
}

func insertEdge(tx *txn, e *store.Edge, data sql.NullString) error {
	const q = `INSERT INTO edges (guid, tenant_guid, graph_guid, name, from_guid, to_guid, cost, data, created_utc, last_update_utc)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.exec(q, e.GUID, e.TenantGUID, e.GraphGUID, e.Name, e.From, e.To, e.Cost, data,
		formatTime(e.CreatedUTC), formatTime(e.LastUpdateUTC)); err != nil {
		return err
	}
	return insertAttachments(tx, edgeOwner(e.TenantGUID, e.GraphGUID, e.GUID), e.Labels, e.Tags, e.Vectors, e.CreatedUTC)
}

// CreateEdge inserts edge with its labels, tags and vectors, or returns the
// stored edge when the GUID already exists in the graph.
func (r *Repository) CreateEdge(ctx context.Context, edge *store.Edge) (*store.Edge, error) {
	if edge == nil {
		return nil, lgerr.InvalidInput("edge is required")
	}
	if err := edge.Validate(); err != nil {
		return nil, err
	}
	data, err := encodeData(edge.Data)
	if err != nil {
		return nil, err
	}

	unlock := r.lockCreate()
	defer unlock()

	existing, err := r.ReadEdge(ctx, edge.TenantGUID, edge.GraphGUID, edge.GUID)
	if err != nil || existing != nil {
		return existing, err
	}

	e := *edge
	stamp(&e.CreatedUTC, &e.LastUpdateUTC)

	if err := r.withTx(ctx, func(tx *txn) error { return insertEdge(tx, &e, data) }); err != nil {
		return nil, lgerr.With(err, lgerr.FieldGraphID(e.GraphGUID), lgerr.FieldGUID(e.GUID))
	}
	r.obs.Created(string(store.EntityEdge), 1)

	return r.ReadEdge(ctx, e.TenantGUID, e.GraphGUID, e.GUID)
}

// CreateEdges inserts every edge in one transaction. Stored or repeated GUIDs
// and endpoints that are not nodes of the graph reject the whole batch.
func (r *Repository) CreateEdges(ctx context.Context, tenantGUID, graphGUID string, edges []*store.Edge) ([]*store.Edge, error) {
	if len(edges) == 0 {
		return nil, nil
	}

	batch := make([]*store.Edge, len(edges))
	encoded := make([]sql.NullString, len(edges))
	guids := make([]string, len(edges))
	var endpoints []string
	for i, edge := range edges {
		if edge == nil {
			return nil, lgerr.InvalidInput("edge %d is nil", i)
		}
		e := *edge
		if err := adoptScope(&e.TenantGUID, &e.GraphGUID, tenantGUID, graphGUID); err != nil {
			return nil, err
		}
		if err := e.Validate(); err != nil {
			return nil, err
		}
		data, err := encodeData(e.Data)
		if err != nil {
			return nil, err
		}
		batch[i], encoded[i], guids[i] = &e, data, e.GUID
		endpoints = append(endpoints, e.From, e.To)
	}

	unlock := r.lockCreate()
	defer unlock()

	found, err := r.Exists(ctx, tenantGUID, graphGUID, store.ExistenceRequest{Edges: guids, Nodes: endpoints})
	if err != nil {
		return nil, err
	}
	conflict := store.BatchConflict{
		Entity:     store.EntityEdge,
		Existing:   found.ExistingEdges,
		Duplicates: store.Duplicates(guids),
		Missing:    found.MissingNodes,
	}
	if err := conflict.Err(tenantGUID, graphGUID); err != nil {
		return nil, err
	}

	err = r.withTx(ctx, func(tx *txn) error {
		ts := now()
		for i, e := range batch {
			e.CreatedUTC, e.LastUpdateUTC = ts, ts
			if err := insertEdge(tx, e, encoded[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, lgerr.With(err, lgerr.FieldGraphID(graphGUID))
	}
	r.obs.Created(string(store.EntityEdge), len(batch))

	return r.readEdgesByGUID(ctx, tenantGUID, graphGUID, guids)
}

// readEdgesByGUID returns the stored edges in the order of guids.
func (r *Repository) readEdgesByGUID(ctx context.Context, tenantGUID, graphGUID string, guids []string) ([]*store.Edge, error) {
	byGUID := make(map[string]*store.Edge, len(guids))
	for _, chunk := range chunks(dedupe(guids), maxBoundParams) {
		args := append([]any{tenantGUID, graphGUID}, toArgs(chunk)...)
		stmt := `SELECT ` + edgeColumns + ` FROM edges e WHERE e.tenant_guid = ? AND e.graph_guid = ? AND e.guid IN (` + placeholders(len(chunk)) + `)`
		err := r.query(ctx, stmt, args, func(rows *sql.Rows) error {
			e, err := r.scanEdge(rows)
			if err != nil {
				return err
			}
			byGUID[e.GUID] = e
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	out := make([]*store.Edge, 0, len(guids))
	for _, g := range guids {
		if e, ok := byGUID[g]; ok {
			out = append(out, e)
		}
	}
	if err := r.hydrateEdges(ctx, tenantGUID, graphGUID, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadEdge returns the edge or nil when absent.
func (r *Repository) ReadEdge(ctx context.Context, tenantGUID, graphGUID, guid string) (*store.Edge, error) {
	edges, err := r.readEdgesByGUID(ctx, tenantGUID, graphGUID, []string{guid})
	if err != nil || len(edges) == 0 {
		return nil, err
	}
	return edges[0], nil
}

// ReadEdges enumerates the graph's edges.
func (r *Repository) ReadEdges(ctx context.Context, tenantGUID, graphGUID string, q store.ListQuery) iter.Seq2[*store.Edge, error] {
	return r.listEdges(ctx, tenantGUID, graphGUID, q, nil, nil)
}

// ReadEdgesFrom enumerates edges leaving nodeGUID.
func (r *Repository) ReadEdgesFrom(ctx context.Context, tenantGUID, graphGUID, nodeGUID string, q store.ListQuery) iter.Seq2[*store.Edge, error] {
	return r.listEdges(ctx, tenantGUID, graphGUID, q, []string{"e.from_guid = ?"}, []any{nodeGUID})
}

// ReadEdgesTo enumerates edges entering nodeGUID.
func (r *Repository) ReadEdgesTo(ctx context.Context, tenantGUID, graphGUID, nodeGUID string, q store.ListQuery) iter.Seq2[*store.Edge, error] {
	return r.listEdges(ctx, tenantGUID, graphGUID, q, []string{"e.to_guid = ?"}, []any{nodeGUID})
}

// ReadEdgesBetween enumerates edges from fromGUID to toGUID.
func (r *Repository) ReadEdgesBetween(ctx context.Context, tenantGUID, graphGUID, fromGUID, toGUID string, q store.ListQuery) iter.Seq2[*store.Edge, error] {
	return r.listEdges(ctx, tenantGUID, graphGUID, q, []string{"e.from_guid = ?", "e.to_guid = ?"}, []any{fromGUID, toGUID})
}

// ReadNodeEdges enumerates edges touching nodeGUID in either direction.
func (r *Repository) ReadNodeEdges(ctx context.Context, tenantGUID, graphGUID, nodeGUID string, q store.ListQuery) iter.Seq2[*store.Edge, error] {
	return r.listEdges(ctx, tenantGUID, graphGUID, q, []string{"(e.from_guid = ? OR e.to_guid = ?)"}, []any{nodeGUID, nodeGUID})
}

func (r *Repository) listEdges(ctx context.Context, tenantGUID, graphGUID string, q store.ListQuery, where []string, args []any) iter.Seq2[*store.Edge, error] {
	if err := q.Validate(store.EntityEdge); err != nil {
		return store.Fail[*store.Edge](err)
	}

	spec := listSpec{
		table:      "edges",
		alias:      "e",
		columns:    edgeColumns,
		owner:      "edge_guid",
		hasData:    true,
		tenantGUID: tenantGUID,
		graphGUID:  graphGUID,
		where:      append([]string{"e.tenant_guid = ?", "e.graph_guid = ?"}, where...),
		args:       append([]any{tenantGUID, graphGUID}, args...),
	}
	return paginate(ctx, r.pageSize, q.Skip, func(ctx context.Context, limit, offset int) ([]*store.Edge, error) {
		page, err := listPage(ctx, r, spec, q, limit, offset, r.scanEdge)
		if err != nil {
			return nil, err
		}
		return page, r.hydrateEdges(ctx, tenantGUID, graphGUID, page)
	})
}

// UpdateEdge replaces name, endpoints, cost and data. Both endpoints must be
// nodes of the graph. Non-nil Labels or Tags replace the edge's labels or tags.
func (r *Repository) UpdateEdge(ctx context.Context, edge *store.Edge) (*store.Edge, error) {
	if edge == nil {
		return nil, lgerr.InvalidInput("edge is required")
	}
	if err := edge.Validate(); err != nil {
		return nil, err
	}
	data, err := encodeData(edge.Data)
	if err != nil {
		return nil, err
	}
	if err := r.requireGraph(ctx, edge.TenantGUID, edge.GraphGUID); err != nil {
		return nil, err
	}
	if err := r.requireEndpoints(ctx, edge); err != nil {
		return nil, err
	}

	err = r.withTx(ctx, func(tx *txn) error {
		ts := now()
		const q = `UPDATE edges SET name = ?, from_guid = ?, to_guid = ?, cost = ?, data = ?, last_update_utc = ?
WHERE tenant_guid = ? AND graph_guid = ? AND guid = ?`
		n, err := tx.affected(q, edge.Name, edge.From, edge.To, edge.Cost, data, formatTime(ts),
			edge.TenantGUID, edge.GraphGUID, edge.GUID)
		if err != nil {
			return err
		}
		if n == 0 {
			return store.NotFound(store.EntityEdge, edge.GUID, lgerr.FieldGraphID(edge.GraphGUID))
		}
		return replaceAttachments(tx, edgeOwner(edge.TenantGUID, edge.GraphGUID, edge.GUID), edge.Labels, edge.Tags, ts)
	})
	if err != nil {
		return nil, err
	}
	return r.ReadEdge(ctx, edge.TenantGUID, edge.GraphGUID, edge.GUID)
}

// requireEndpoints returns not-found naming the first endpoint that is not a
// node of the edge's graph.
func (r *Repository) requireEndpoints(ctx context.Context, edge *store.Edge) error {
	for _, end := range []struct{ role, guid string }{{"from", edge.From}, {"to", edge.To}} {
		ok, err := r.NodeExists(ctx, edge.TenantGUID, edge.GraphGUID, end.guid)
		if err != nil {
			return err
		}
		if !ok {
			return store.NotFound(store.EntityNode, end.guid,
				lgerr.FieldGraphID(edge.GraphGUID), lgerr.Field("endpoint", end.role))
		}
	}
	return nil
}

// DeleteEdge removes the edge and its metadata.
func (r *Repository) DeleteEdge(ctx context.Context, tenantGUID, graphGUID, guid string) error {
	return r.withTx(ctx, func(tx *txn) error {
		n, err := deleteEdges(tx, tenantGUID, graphGUID, []string{guid})
		if err != nil {
			return err
		}
		if n == 0 {
			return store.NotFound(store.EntityEdge, guid, lgerr.FieldGraphID(graphGUID))
		}
		return nil
	})
}

// DeleteEdges removes the listed edges. GUIDs that do not exist are ignored.
func (r *Repository) DeleteEdges(ctx context.Context, tenantGUID, graphGUID string, guids []string) error {
	if len(guids) == 0 {
		return nil
	}
	return r.withTx(ctx, func(tx *txn) error {
		for _, chunk := range chunks(dedupe(guids), maxBoundParams) {
			if _, err := deleteEdges(tx, tenantGUID, graphGUID, chunk); err != nil {
				return err
			}
		}
		return nil
	})
}

func deleteEdges(tx *txn, tenantGUID, graphGUID string, guids []string) (int64, error) {
	in := placeholders(len(guids))
	args := append([]any{tenantGUID, graphGUID}, toArgs(guids)...)
	if err := deleteMetadata(tx, `tenant_guid = ? AND graph_guid = ? AND edge_guid IN (`+in+`)`, args...); err != nil {
		return 0, err
	}
	return tx.affected(`DELETE FROM edges WHERE tenant_guid = ? AND graph_guid = ? AND guid IN (`+in+`)`, args...)
}

// DeleteAllEdges removes every edge of the graph. Nodes stay.
func (r *Repository) DeleteAllEdges(ctx context.Context, tenantGUID, graphGUID string) error {
	return r.withTx(ctx, func(tx *txn) error {
		if err := deleteMetadata(tx, `tenant_guid = ? AND graph_guid = ? AND edge_guid IS NOT NULL`, tenantGUID, graphGUID); err != nil {
			return err
		}
		_, err := tx.exec(`DELETE FROM edges WHERE tenant_guid = ? AND graph_guid = ?`, tenantGUID, graphGUID)
		return err
	})
}

// EdgeExists reports whether the edge is stored in the graph.
func (r *Repository) EdgeExists(ctx context.Context, tenantGUID, graphGUID, guid string) (bool, error) {
	n, err := r.count(ctx, `SELECT COUNT(*) FROM edges WHERE tenant_guid = ? AND graph_guid = ? AND guid = ?`, tenantGUID, graphGUID, guid)
	return n > 0, err
}
