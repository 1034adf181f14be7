// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/sigil-dev/litegraph/internal/store"
)

// owner identifies the row that tags, labels and vectors hang off.
// Graph-level rows have neither a node nor an edge.
type owner struct {
	tenantGUID string
	graphGUID  string
	nodeGUID   string
	edgeGUID   string
}

func graphOwner(tenantGUID, graphGUID string) owner {
	return owner{tenantGUID: tenantGUID, graphGUID: graphGUID}
}

func nodeOwner(tenantGUID, graphGUID, nodeGUID string) owner {
	return owner{tenantGUID: tenantGUID, graphGUID: graphGUID, nodeGUID: nodeGUID}
}

func edgeOwner(tenantGUID, graphGUID, edgeGUID string) owner {
	return owner{tenantGUID: tenantGUID, graphGUID: graphGUID, edgeGUID: edgeGUID}
}

// insertAttachments writes the labels, tags and vectors supplied inline with
// an entity. Tag keys are written in sorted order.
func insertAttachments(tx *txn, o owner, labels []string, tags map[string]string, vectors []*store.VectorMetadata, ts time.Time) error {
	created := formatTime(ts)

	for _, label := range labels {
		const q = `INSERT INTO labels (guid, tenant_guid, graph_guid, node_guid, edge_guid, label, created_utc, last_update_utc)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
		if _, err := tx.exec(q, uuid.NewString(), o.tenantGUID, o.graphGUID, nullable(o.nodeGUID), nullable(o.edgeGUID), label, created, created); err != nil {
			return err
		}
	}

	for _, c := range tagConditions(tags) {
		const q = `INSERT INTO tags (guid, tenant_guid, graph_guid, node_guid, edge_guid, tag_key, tag_value, created_utc, last_update_utc)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
		if _, err := tx.exec(q, uuid.NewString(), o.tenantGUID, o.graphGUID, nullable(o.nodeGUID), nullable(o.edgeGUID), c.key, nullable(c.value), created, created); err != nil {
			return err
		}
	}

	for _, v := range vectors {
		vec := *v
		vec.TenantGUID, vec.GraphGUID, vec.NodeGUID, vec.EdgeGUID = o.tenantGUID, o.graphGUID, o.nodeGUID, o.edgeGUID
		if vec.GUID == "" {
			vec.GUID = uuid.NewString()
		}
		vec.CreatedUTC, vec.LastUpdateUTC = ts, ts
		if err := insertVector(tx, &vec); err != nil {
			return err
		}
	}
	return nil
}

// replaceAttachments swaps labels and tags of o. A nil slice or map leaves
// the corresponding rows untouched.
func replaceAttachments(tx *txn, o owner, labels []string, tags map[string]string, ts time.Time) error {
	where, args := o.match()
	if labels != nil {
		if _, err := tx.exec(`DELETE FROM labels WHERE `+where, args...); err != nil {
			return err
		}
	}
	if tags != nil {
		if _, err := tx.exec(`DELETE FROM tags WHERE `+where, args...); err != nil {
			return err
		}
	}
	return insertAttachments(tx, o, labels, tags, nil, ts)
}

// match returns the condition selecting exactly the metadata rows of o.
func (o owner) match() (string, []any) {
	switch {
	case o.nodeGUID != "":
		return "tenant_guid = ? AND graph_guid = ? AND node_guid = ?", []any{o.tenantGUID, o.graphGUID, o.nodeGUID}
	case o.edgeGUID != "":
		return "tenant_guid = ? AND graph_guid = ? AND edge_guid = ?", []any{o.tenantGUID, o.graphGUID, o.edgeGUID}
	default:
		return "tenant_guid = ? AND graph_guid = ? AND node_guid IS NULL AND edge_guid IS NULL", []any{o.tenantGUID, o.graphGUID}
	}
}

// deleteMetadata removes tags, labels and vectors matching where.
func deleteMetadata(tx *txn, where string, args ...any) error {
	for _, table := range []string{"tags", "labels", "vectors"} {
		if _, err := tx.exec(`DELETE FROM `+table+` WHERE `+where, args...); err != nil {
			return err
		}
	}
	return nil
}

// attachmentScope selects which owner column a hydration query keys on.
type attachmentScope struct {
	tenantGUID string
	graphGUID  string
	column     string // graph_guid, node_guid or edge_guid
}

func (s attachmentScope) where(guids []string) (string, []any) {
	args := []any{s.tenantGUID}
	if s.column == "graph_guid" {
		args = append(args, toArgs(guids)...)
		return "tenant_guid = ? AND graph_guid IN (" + placeholders(len(guids)) + ") AND node_guid IS NULL AND edge_guid IS NULL", args
	}
	args = append(args, s.graphGUID)
	args = append(args, toArgs(guids)...)
	return "tenant_guid = ? AND graph_guid = ? AND " + s.column + " IN (" + placeholders(len(guids)) + ")", args
}

// loadAttachments reads labels and tags for every owner GUID, keyed by owner.
func (r *Repository) loadAttachments(ctx context.Context, s attachmentScope, guids []string) (map[string][]string, map[string]map[string]string, error) {
	labels := make(map[string][]string)
	tags := make(map[string]map[string]string)

	for _, chunk := range chunks(dedupe(guids), maxBoundParams) {
		where, args := s.where(chunk)

		err := r.query(ctx, `SELECT `+s.column+`, label FROM labels WHERE `+where+` ORDER BY created_utc ASC, guid ASC`, args,
			func(rows *sql.Rows) error {
				var ownerGUID, label string
				if err := rows.Scan(&ownerGUID, &label); err != nil {
					return err
				}
				labels[ownerGUID] = append(labels[ownerGUID], label)
				return nil
			})
		if err != nil {
			return nil, nil, err
		}

		err = r.query(ctx, `SELECT `+s.column+`, tag_key, tag_value FROM tags WHERE `+where+` ORDER BY created_utc ASC, guid ASC`, args,
			func(rows *sql.Rows) error {
				var ownerGUID, key string
				var value sql.NullString
				if err := rows.Scan(&ownerGUID, &key, &value); err != nil {
					return err
				}
				if tags[ownerGUID] == nil {
					tags[ownerGUID] = make(map[string]string)
				}
				tags[ownerGUID][key] = value.String
				return nil
			})
		if err != nil {
			return nil, nil, err
		}
	}
	return labels, tags, nil
}
