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

const nodeColumns = `n.guid, n.tenant_guid, n.graph_guid, n.name, n.data, n.created_utc, n.last_update_utc`

func (r *Repository) scanNode(row rowScanner) (*store.Node, error) {
	var n store.Node
	var data sql.NullString
	var created, updated string
	if err := row.Scan(&n.GUID, &n.TenantGUID, &n.GraphGUID, &n.Name, &data, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if n.CreatedUTC, n.LastUpdateUTC, err = parseTimes(created, updated); err != nil {
		return nil, err
	}
	n.Data = decodeData(r.logger, n.GUID, data)
	return &n, nil
}

func (r *Repository) hydrateNodes(ctx context.Context, tenantGUID, graphGUID string, nodes []*store.Node) error {
	if len(nodes) == 0 {
		return nil
	}
	guids := make([]string, len(nodes))
	for i, n := range nodes {
		guids[i] = n.GUID
	}
	labels, tags, err := r.loadAttachments(ctx, attachmentScope{tenantGUID: tenantGUID, graphGUID: graphGUID, column: "node_guid"}, guids)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		n.Labels = labels[n.GUID]
		n.Tags = tags[n.GUID]
	}
	return nil
}

func insertNode(tx *txn, n *store.Node, data sql.NullString) error {
	const q = `INSERT INTO nodes (guid, tenant_guid, graph_guid, name, data, created_utc, last_update_utc) VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.exec(q, n.GUID, n.TenantGUID, n.GraphGUID, n.Name, data, formatTime(n.CreatedUTC), formatTime(n.LastUpdateUTC)); err != nil {
		return err
	}
	return insertAttachments(tx, nodeOwner(n.TenantGUID, n.GraphGUID, n.GUID), n.Labels, n.Tags, n.Vectors, n.CreatedUTC)
}

// CreateNode inserts node with its labels, tags and vectors, or returns the
// stored node when the GUID already exists in the graph.
func (r *Repository) CreateNode(ctx context.Context, node *store.Node) (*store.Node, error) {
	if node == nil {
		return nil, lgerr.InvalidInput("node is required")
	}
	if err := node.Validate(); err != nil {
		return nil, err
	}
	data, err := encodeData(node.Data)
	if err != nil {
		return nil, err
	}

	unlock := r.lockCreate()
	defer unlock()

	existing, err := r.ReadNode(ctx, node.TenantGUID, node.GraphGUID, node.GUID)
	if err != nil || existing != nil {
		return existing, err
	}

	n := *node
	stamp(&n.CreatedUTC, &n.LastUpdateUTC)

	if err := r.withTx(ctx, func(tx *txn) error { return insertNode(tx, &n, data) }); err != nil {
		return nil, lgerr.With(err, lgerr.FieldGraphID(n.GraphGUID), lgerr.FieldGUID(n.GUID))
	}
	r.obs.Created(string(store.EntityNode), 1)

	return r.ReadNode(ctx, n.TenantGUID, n.GraphGUID, n.GUID)
}

// CreateNodes inserts every node in one transaction. Duplicate GUIDs in the
// batch or GUIDs already stored reject the whole batch with one conflict.
func (r *Repository) CreateNodes(ctx context.Context, tenantGUID, graphGUID string, nodes []*store.Node) ([]*store.Node, error) {
	if len(nodes) == 0 {
		return nil, nil
	}

	batch := make([]*store.Node, len(nodes))
	encoded := make([]sql.NullString, len(nodes))
	guids := make([]string, len(nodes))
	for i, node := range nodes {
		if node == nil {
			return nil, lgerr.InvalidInput("node %d is nil", i)
		}
		n := *node
		if err := adoptScope(&n.TenantGUID, &n.GraphGUID, tenantGUID, graphGUID); err != nil {
			return nil, err
		}
		if err := n.Validate(); err != nil {
			return nil, err
		}
		data, err := encodeData(n.Data)
		if err != nil {
			return nil, err
		}
		batch[i], encoded[i], guids[i] = &n, data, n.GUID
	}

	unlock := r.lockCreate()
	defer unlock()

	conflict := store.BatchConflict{Entity: store.EntityNode, Duplicates: store.Duplicates(guids)}
	existing, err := r.Exists(ctx, tenantGUID, graphGUID, store.ExistenceRequest{Nodes: guids})
	if err != nil {
		return nil, err
	}
	conflict.Existing = existing.ExistingNodes
	if err := conflict.Err(tenantGUID, graphGUID); err != nil {
		return nil, err
	}

	err = r.withTx(ctx, func(tx *txn) error {
		ts := now()
		for i, n := range batch {
			n.CreatedUTC, n.LastUpdateUTC = ts, ts
			if err := insertNode(tx, n, encoded[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, lgerr.With(err, lgerr.FieldGraphID(graphGUID))
	}
	r.obs.Created(string(store.EntityNode), len(batch))

	return r.readNodesByGUID(ctx, tenantGUID, graphGUID, guids)
}

// adoptScope fills an empty tenant or graph from the batch scope and rejects
// a row that names a different one.
func adoptScope(tenant, graph *string, tenantGUID, graphGUID string) error {
	if *tenant == "" {
		*tenant = tenantGUID
	}
	if *graph == "" {
		*graph = graphGUID
	}
	if *tenant != tenantGUID || *graph != graphGUID {
		return lgerr.InvalidInput("batch item belongs to tenant %q graph %q, batch targets tenant %q graph %q",
			*tenant, *graph, tenantGUID, graphGUID)
	}
	return nil
}

// readNodesByGUID returns the stored nodes in the order of guids.
func (r *Repository) readNodesByGUID(ctx context.Context, tenantGUID, graphGUID string, guids []string) ([]*store.Node, error) {
	byGUID := make(map[string]*store.Node, len(guids))
	for _, chunk := range chunks(dedupe(guids), maxBoundParams) {
		args := append([]any{tenantGUID, graphGUID}, toArgs(chunk)...)
		stmt := `SELECT ` + nodeColumns + ` FROM nodes n WHERE n.tenant_guid = ? AND n.graph_guid = ? AND n.guid IN (` + placeholders(len(chunk)) + `)`
		err := r.query(ctx, stmt, args, func(rows *sql.Rows) error {
			n, err := r.scanNode(rows)
			if err != nil {
				return err
			}
			byGUID[n.GUID] = n
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	out := make([]*store.Node, 0, len(guids))
	for _, g := range guids {
		if n, ok := byGUID[g]; ok {
			out = append(out, n)
		}
	}
	if err := r.hydrateNodes(ctx, tenantGUID, graphGUID, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ReadNode returns the node or nil when absent.
func (r *Repository) ReadNode(ctx context.Context, tenantGUID, graphGUID, guid string) (*store.Node, error) {
	nodes, err := r.readNodesByGUID(ctx, tenantGUID, graphGUID, []string{guid})
	if err != nil || len(nodes) == 0 {
		return nil, err
	}
	return nodes[0], nil
}

// ReadNodes enumerates the graph's nodes.
func (r *Repository) ReadNodes(ctx context.Context, tenantGUID, graphGUID string, q store.ListQuery) iter.Seq2[*store.Node, error] {
	if err := q.Validate(store.EntityNode); err != nil {
		return store.Fail[*store.Node](err)
	}

	spec := listSpec{
		table:      "nodes",
		alias:      "n",
		columns:    nodeColumns,
		owner:      "node_guid",
		hasData:    true,
		tenantGUID: tenantGUID,
		graphGUID:  graphGUID,
		where:      []string{"n.tenant_guid = ?", "n.graph_guid = ?"},
		args:       []any{tenantGUID, graphGUID},
	}
	return paginate(ctx, r.pageSize, q.Skip, func(ctx context.Context, limit, offset int) ([]*store.Node, error) {
		page, err := listPage(ctx, r, spec, q, limit, offset, r.scanNode)
		if err != nil {
			return nil, err
		}
		return page, r.hydrateNodes(ctx, tenantGUID, graphGUID, page)
	})
}

// UpdateNode replaces name and data. Non-nil Labels or Tags replace the
// node's labels or tags.
func (r *Repository) UpdateNode(ctx context.Context, node *store.Node) (*store.Node, error) {
	if node == nil {
		return nil, lgerr.InvalidInput("node is required")
	}
	if err := node.Validate(); err != nil {
		return nil, err
	}
	data, err := encodeData(node.Data)
	if err != nil {
		return nil, err
	}
	if err := r.requireGraph(ctx, node.TenantGUID, node.GraphGUID); err != nil {
		return nil, err
	}

	err = r.withTx(ctx, func(tx *txn) error {
		ts := now()
		const q = `UPDATE nodes SET name = ?, data = ?, last_update_utc = ? WHERE tenant_guid = ? AND graph_guid = ? AND guid = ?`
		n, err := tx.affected(q, node.Name, data, formatTime(ts), node.TenantGUID, node.GraphGUID, node.GUID)
		if err != nil {
			return err
		}
		if n == 0 {
			return store.NotFound(store.EntityNode, node.GUID, lgerr.FieldGraphID(node.GraphGUID))
		}
		return replaceAttachments(tx, nodeOwner(node.TenantGUID, node.GraphGUID, node.GUID), node.Labels, node.Tags, ts)
	})
	if err != nil {
		return nil, err
	}
	return r.ReadNode(ctx, node.TenantGUID, node.GraphGUID, node.GUID)
}

// requireGraph returns not-found unless the graph exists.
func (r *Repository) requireGraph(ctx context.Context, tenantGUID, graphGUID string) error {
	ok, err := r.GraphExists(ctx, tenantGUID, graphGUID)
	if err != nil {
		return err
	}
	if !ok {
		return store.NotFound(store.EntityGraph, graphGUID, lgerr.FieldTenantID(tenantGUID))
	}
	return nil
}

// DeleteNode removes the node, every edge touching it, and the metadata of both.
func (r *Repository) DeleteNode(ctx context.Context, tenantGUID, graphGUID, guid string) error {
	return r.withTx(ctx, func(tx *txn) error {
		n, err := deleteNodes(tx, tenantGUID, graphGUID, []string{guid})
		if err != nil {
			return err
		}
		if n == 0 {
			return store.NotFound(store.EntityNode, guid, lgerr.FieldGraphID(graphGUID))
		}
		return nil
	})
}

// DeleteNodes removes the listed nodes with their incident edges. GUIDs that
// do not exist are ignored.
func (r *Repository) DeleteNodes(ctx context.Context, tenantGUID, graphGUID string, guids []string) error {
	if len(guids) == 0 {
		return nil
	}
	return r.withTx(ctx, func(tx *txn) error {
		for _, chunk := range chunks(dedupe(guids), maxBoundParams/2) {
			if _, err := deleteNodes(tx, tenantGUID, graphGUID, chunk); err != nil {
				return err
			}
		}
		return nil
	})
}

// deleteNodes cascades to incident edges before removing the node rows and
// returns the number of nodes deleted.
func deleteNodes(tx *txn, tenantGUID, graphGUID string, guids []string) (int64, error) {
	in := placeholders(len(guids))
	ids := toArgs(guids)
	scope := []any{tenantGUID, graphGUID}

	incident := `SELECT guid FROM edges WHERE tenant_guid = ? AND graph_guid = ? AND (from_guid IN (` + in + `) OR to_guid IN (` + in + `))`
	incidentArgs := append(append(append([]any{}, scope...), ids...), ids...)

	edgeMeta := append(append([]any{}, scope...), incidentArgs...)
	if err := deleteMetadata(tx, `tenant_guid = ? AND graph_guid = ? AND edge_guid IN (`+incident+`)`, edgeMeta...); err != nil {
		return 0, err
	}
	if _, err := tx.exec(`DELETE FROM edges WHERE tenant_guid = ? AND graph_guid = ? AND (from_guid IN (`+in+`) OR to_guid IN (`+in+`))`, incidentArgs...); err != nil {
		return 0, err
	}

	nodeArgs := append(append([]any{}, scope...), ids...)
	if err := deleteMetadata(tx, `tenant_guid = ? AND graph_guid = ? AND node_guid IN (`+in+`)`, nodeArgs...); err != nil {
		return 0, err
	}
	return tx.affected(`DELETE FROM nodes WHERE tenant_guid = ? AND graph_guid = ? AND guid IN (`+in+`)`, nodeArgs...)
}

// DeleteAllNodes empties the graph of nodes and edges. Graph-level metadata stays.
func (r *Repository) DeleteAllNodes(ctx context.Context, tenantGUID, graphGUID string) error {
	return r.withTx(ctx, func(tx *txn) error {
		if err := deleteMetadata(tx, `tenant_guid = ? AND graph_guid = ? AND (node_guid IS NOT NULL OR edge_guid IS NOT NULL)`, tenantGUID, graphGUID); err != nil {
			return err
		}
		for _, table := range []string{"edges", "nodes"} {
			if _, err := tx.exec(`DELETE FROM `+table+` WHERE tenant_guid = ? AND graph_guid = ?`, tenantGUID, graphGUID); err != nil {
				return err
			}
		}
		return nil
	})
}

// NodeExists reports whether the node is stored in the graph.
func (r *Repository) NodeExists(ctx context.Context, tenantGUID, graphGUID, guid string) (bool, error) {
	n, err := r.ReadNode(ctx, tenantGUID, graphGUID, guid)
	return n != nil, err
}
