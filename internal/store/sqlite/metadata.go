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

// metadataWhere renders the conditions selecting tags, labels or vectors of
// one graph narrowed by f.
func metadataWhere(tenantGUID, graphGUID string, f store.MetadataFilter) (string, []any) {
	where := "tenant_guid = ? AND graph_guid = ?"
	args := []any{tenantGUID, graphGUID}
	switch {
	case f.GraphOnly:
		where += " AND node_guid IS NULL AND edge_guid IS NULL"
	case f.NodeGUID != "":
		where += " AND node_guid = ?"
		args = append(args, f.NodeGUID)
	case f.EdgeGUID != "":
		where += " AND edge_guid = ?"
		args = append(args, f.EdgeGUID)
	}
	return where, args
}

// listMetadata pages through table in creation order.
func listMetadata[T any](ctx context.Context, r *Repository, table, columns string, tenantGUID, graphGUID string, f store.MetadataFilter, scan func(rowScanner) (T, error)) iter.Seq2[T, error] {
	if f.NodeGUID != "" && f.EdgeGUID != "" {
		return store.Fail[T](lgerr.InvalidInput("metadata filter: NodeGUID and EdgeGUID are mutually exclusive"))
	}
	where, args := metadataWhere(tenantGUID, graphGUID, f)
	stmt := `SELECT ` + columns + ` FROM ` + table + ` WHERE ` + where + ` ORDER BY created_utc ASC, guid ASC LIMIT ? OFFSET ?`

	return paginate(ctx, r.pageSize, 0, func(ctx context.Context, limit, offset int) ([]T, error) {
		var out []T
		err := r.query(ctx, stmt, append(append([]any{}, args...), limit, offset), func(rows *sql.Rows) error {
			item, err := scan(rows)
			if err != nil {
				return err
			}
			out = append(out, item)
			return nil
		})
		return out, err
	})
}

// --- Tags ---

const tagColumns = `guid, tenant_guid, graph_guid, node_guid, edge_guid, tag_key, tag_value, created_utc, last_update_utc`

func scanTag(row rowScanner) (*store.TagMetadata, error) {
	var t store.TagMetadata
	var nodeGUID, edgeGUID, value sql.NullString
	var created, updated string
	if err := row.Scan(&t.GUID, &t.TenantGUID, &t.GraphGUID, &nodeGUID, &edgeGUID, &t.Key, &value, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if t.CreatedUTC, t.LastUpdateUTC, err = parseTimes(created, updated); err != nil {
		return nil, err
	}
	t.NodeGUID, t.EdgeGUID, t.Value = nodeGUID.String, edgeGUID.String, value.String
	return &t, nil
}

// CreateTag inserts tag, or returns the stored tag when the GUID exists.
func (r *Repository) CreateTag(ctx context.Context, tag *store.TagMetadata) (*store.TagMetadata, error) {
	if tag == nil {
		return nil, lgerr.InvalidInput("tag is required")
	}
	if err := tag.Validate(); err != nil {
		return nil, err
	}

	unlock := r.lockCreate()
	defer unlock()

	existing, err := r.ReadTag(ctx, tag.TenantGUID, tag.GraphGUID, tag.GUID)
	if err != nil || existing != nil {
		return existing, err
	}

	t := *tag
	stamp(&t.CreatedUTC, &t.LastUpdateUTC)

	err = r.withTx(ctx, func(tx *txn) error {
		const q = `INSERT INTO tags (guid, tenant_guid, graph_guid, node_guid, edge_guid, tag_key, tag_value, created_utc, last_update_utc)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.exec(q, t.GUID, t.TenantGUID, t.GraphGUID, nullable(t.NodeGUID), nullable(t.EdgeGUID), t.Key, nullable(t.Value),
			formatTime(t.CreatedUTC), formatTime(t.LastUpdateUTC))
		return err
	})
	if err != nil {
		return nil, lgerr.With(err, lgerr.FieldGraphID(t.GraphGUID), lgerr.FieldGUID(t.GUID))
	}
	r.obs.Created(string(store.EntityTag), 1)

	return r.ReadTag(ctx, t.TenantGUID, t.GraphGUID, t.GUID)
}

// ReadTag returns the tag or nil when absent.
func (r *Repository) ReadTag(ctx context.Context, tenantGUID, graphGUID, guid string) (*store.TagMetadata, error) {
	var out *store.TagMetadata
	err := r.query(ctx, `SELECT `+tagColumns+` FROM tags WHERE tenant_guid = ? AND graph_guid = ? AND guid = ?`,
		[]any{tenantGUID, graphGUID, guid},
		func(rows *sql.Rows) error {
			t, err := scanTag(rows)
			out = t
			return err
		})
	return out, err
}

// ReadTags enumerates the graph's tags in creation order.
func (r *Repository) ReadTags(ctx context.Context, tenantGUID, graphGUID string, f store.MetadataFilter) iter.Seq2[*store.TagMetadata, error] {
	return listMetadata(ctx, r, "tags", tagColumns, tenantGUID, graphGUID, f, scanTag)
}

// UpdateTag replaces the tag's owner, key and value.
func (r *Repository) UpdateTag(ctx context.Context, tag *store.TagMetadata) (*store.TagMetadata, error) {
	if tag == nil {
		return nil, lgerr.InvalidInput("tag is required")
	}
	if err := tag.Validate(); err != nil {
		return nil, err
	}
	if err := r.requireGraph(ctx, tag.TenantGUID, tag.GraphGUID); err != nil {
		return nil, err
	}

	err := r.withTx(ctx, func(tx *txn) error {
		const q = `UPDATE tags SET node_guid = ?, edge_guid = ?, tag_key = ?, tag_value = ?, last_update_utc = ?
WHERE tenant_guid = ? AND graph_guid = ? AND guid = ?`
		n, err := tx.affected(q, nullable(tag.NodeGUID), nullable(tag.EdgeGUID), tag.Key, nullable(tag.Value), formatTime(now()),
			tag.TenantGUID, tag.GraphGUID, tag.GUID)
		if err != nil {
			return err
		}
		if n == 0 {
			return store.NotFound(store.EntityTag, tag.GUID, lgerr.FieldGraphID(tag.GraphGUID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.ReadTag(ctx, tag.TenantGUID, tag.GraphGUID, tag.GUID)
}

// DeleteTag removes one tag row.
func (r *Repository) DeleteTag(ctx context.Context, tenantGUID, graphGUID, guid string) error {
	return r.deleteMetadataRow(ctx, "tags", store.EntityTag, tenantGUID, graphGUID, guid)
}

// --- Labels ---

const labelColumns = `guid, tenant_guid, graph_guid, node_guid, edge_guid, label, created_utc, last_update_utc`

func scanLabel(row rowScanner) (*store.LabelMetadata, error) {
	var l store.LabelMetadata
	var nodeGUID, edgeGUID sql.NullString
	var created, updated string
	if err := row.Scan(&l.GUID, &l.TenantGUID, &l.GraphGUID, &nodeGUID, &edgeGUID, &l.Label, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if l.CreatedUTC, l.LastUpdateUTC, err = parseTimes(created, updated); err != nil {
		return nil, err
	}
	l.NodeGUID, l.EdgeGUID = nodeGUID.String, edgeGUID.String
	return &l, nil
}

// CreateLabel inserts label, or returns the stored label when the GUID exists.
func (r *Repository) CreateLabel(ctx context.Context, label *store.LabelMetadata) (*store.LabelMetadata, error) {
	if label == nil {
		return nil, lgerr.InvalidInput("label is required")
	}
	if err := label.Validate(); err != nil {
		return nil, err
	}

	unlock := r.lockCreate()
	defer unlock()

	existing, err := r.ReadLabel(ctx, label.TenantGUID, label.GraphGUID, label.GUID)
	if err != nil || existing != nil {
		return existing, err
	}

	l := *label
	stamp(&l.CreatedUTC, &l.LastUpdateUTC)

	err = r.withTx(ctx, func(tx *txn) error {
		const q = `INSERT INTO labels (guid, tenant_guid, graph_guid, node_guid, edge_guid, label, created_utc, last_update_utc)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
		_, err := tx.exec(q, l.GUID, l.TenantGUID, l.GraphGUID, nullable(l.NodeGUID), nullable(l.EdgeGUID), l.Label,
			formatTime(l.CreatedUTC), formatTime(l.LastUpdateUTC))
		return err
	})
	if err != nil {
		return nil, lgerr.With(err, lgerr.FieldGraphID(l.GraphGUID), lgerr.FieldGUID(l.GUID))
	}
	r.obs.Created(string(store.EntityLabel), 1)

	return r.ReadLabel(ctx, l.TenantGUID, l.GraphGUID, l.GUID)
}

// ReadLabel returns the label or nil when absent.
func (r *Repository) ReadLabel(ctx context.Context, tenantGUID, graphGUID, guid string) (*store.LabelMetadata, error) {
	var out *store.LabelMetadata
	err := r.query(ctx, `SELECT `+labelColumns+` FROM labels WHERE tenant_guid = ? AND graph_guid = ? AND guid = ?`,
		[]any{tenantGUID, graphGUID, guid},
		func(rows *sql.Rows) error {
			l, err := scanLabel(rows)
			out = l
			return err
		})
	return out, err
}

// ReadLabels enumerates the graph's labels in creation order.
func (r *Repository) ReadLabels(ctx context.Context, tenantGUID, graphGUID string, f store.MetadataFilter) iter.Seq2[*store.LabelMetadata, error] {
	return listMetadata(ctx, r, "labels", labelColumns, tenantGUID, graphGUID, f, scanLabel)
}

// UpdateLabel replaces the label's owner and text.
func (r *Repository) UpdateLabel(ctx context.Context, label *store.LabelMetadata) (*store.LabelMetadata, error) {
	if label == nil {
		return nil, lgerr.InvalidInput("label is required")
	}
	if err := label.Validate(); err != nil {
		return nil, err
	}
	if err := r.requireGraph(ctx, label.TenantGUID, label.GraphGUID); err != nil {
		return nil, err
	}

	err := r.withTx(ctx, func(tx *txn) error {
		const q = `UPDATE labels SET node_guid = ?, edge_guid = ?, label = ?, last_update_utc = ?
WHERE tenant_guid = ? AND graph_guid = ? AND guid = ?`
		n, err := tx.affected(q, nullable(label.NodeGUID), nullable(label.EdgeGUID), label.Label, formatTime(now()),
			label.TenantGUID, label.GraphGUID, label.GUID)
		if err != nil {
			return err
		}
		if n == 0 {
			return store.NotFound(store.EntityLabel, label.GUID, lgerr.FieldGraphID(label.GraphGUID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.ReadLabel(ctx, label.TenantGUID, label.GraphGUID, label.GUID)
}

// DeleteLabel removes one label row.
func (r *Repository) DeleteLabel(ctx context.Context, tenantGUID, graphGUID, guid string) error {
	return r.deleteMetadataRow(ctx, "labels", store.EntityLabel, tenantGUID, graphGUID, guid)
}

func (r *Repository) deleteMetadataRow(ctx context.Context, table string, entity store.Entity, tenantGUID, graphGUID, guid string) error {
	return r.withTx(ctx, func(tx *txn) error {
		n, err := tx.affected(`DELETE FROM `+table+` WHERE tenant_guid = ? AND graph_guid = ? AND guid = ?`, tenantGUID, graphGUID, guid)
		if err != nil {
			return err
		}
		if n == 0 {
			return store.NotFound(entity, guid, lgerr.FieldGraphID(graphGUID))
		}
		return nil
	})
}
