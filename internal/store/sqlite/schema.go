// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite

import "database/sql"

// Timestamps are TEXT in expr.TimestampFormat so they sort lexically.
// Tags, labels and vectors reference at most one of node_guid and edge_guid;
// both NULL means the row belongs to the graph itself.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS tenants (
	guid            TEXT PRIMARY KEY,
	name            TEXT NOT NULL DEFAULT '',
	active          INTEGER NOT NULL DEFAULT 1,
	created_utc     TEXT NOT NULL,
	last_update_utc TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS graphs (
	guid            TEXT PRIMARY KEY,
	tenant_guid     TEXT NOT NULL,
	name            TEXT NOT NULL DEFAULT '',
	data            TEXT,
	created_utc     TEXT NOT NULL,
	last_update_utc TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS nodes (
	guid            TEXT PRIMARY KEY,
	tenant_guid     TEXT NOT NULL,
	graph_guid      TEXT NOT NULL,
	name            TEXT NOT NULL DEFAULT '',
	data            TEXT,
	created_utc     TEXT NOT NULL,
	last_update_utc TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS edges (
	guid            TEXT PRIMARY KEY,
	tenant_guid     TEXT NOT NULL,
	graph_guid      TEXT NOT NULL,
	name            TEXT NOT NULL DEFAULT '',
	from_guid       TEXT NOT NULL,
	to_guid         TEXT NOT NULL,
	cost            INTEGER NOT NULL DEFAULT 0,
	data            TEXT,
	created_utc     TEXT NOT NULL,
	last_update_utc TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS labels (
	guid            TEXT PRIMARY KEY,
	tenant_guid     TEXT NOT NULL,
	graph_guid      TEXT NOT NULL,
	node_guid       TEXT,
	edge_guid       TEXT,
	label           TEXT NOT NULL,
	created_utc     TEXT NOT NULL,
	last_update_utc TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tags (
	guid            TEXT PRIMARY KEY,
	tenant_guid     TEXT NOT NULL,
	graph_guid      TEXT NOT NULL,
	node_guid       TEXT,
	edge_guid       TEXT,
	tag_key         TEXT NOT NULL,
	tag_value       TEXT,
	created_utc     TEXT NOT NULL,
	last_update_utc TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS vectors (
	guid            TEXT PRIMARY KEY,
	tenant_guid     TEXT NOT NULL,
	graph_guid      TEXT NOT NULL,
	node_guid       TEXT,
	edge_guid       TEXT,
	model           TEXT NOT NULL DEFAULT '',
	dimensionality  INTEGER NOT NULL,
	content         TEXT NOT NULL DEFAULT '',
	embeddings      BLOB NOT NULL,
	created_utc     TEXT NOT NULL,
	last_update_utc TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tenants_name ON tenants(name);
CREATE INDEX IF NOT EXISTS idx_tenants_created ON tenants(created_utc);

CREATE INDEX IF NOT EXISTS idx_graphs_tenant ON graphs(tenant_guid);
CREATE INDEX IF NOT EXISTS idx_graphs_name ON graphs(tenant_guid, name);
CREATE INDEX IF NOT EXISTS idx_graphs_created ON graphs(tenant_guid, created_utc);
CREATE INDEX IF NOT EXISTS idx_graphs_updated ON graphs(last_update_utc);

CREATE INDEX IF NOT EXISTS idx_nodes_graph ON nodes(tenant_guid, graph_guid);
CREATE INDEX IF NOT EXISTS idx_nodes_name ON nodes(tenant_guid, graph_guid, name);
CREATE INDEX IF NOT EXISTS idx_nodes_created ON nodes(tenant_guid, graph_guid, created_utc);
CREATE INDEX IF NOT EXISTS idx_nodes_updated ON nodes(last_update_utc);

CREATE INDEX IF NOT EXISTS idx_edges_graph ON edges(tenant_guid, graph_guid);
CREATE INDEX IF NOT EXISTS idx_edges_name ON edges(tenant_guid, graph_guid, name);
CREATE INDEX IF NOT EXISTS idx_edges_from ON edges(tenant_guid, graph_guid, from_guid);
CREATE INDEX IF NOT EXISTS idx_edges_to ON edges(tenant_guid, graph_guid, to_guid);
CREATE INDEX IF NOT EXISTS idx_edges_cost ON edges(tenant_guid, graph_guid, cost);
CREATE INDEX IF NOT EXISTS idx_edges_created ON edges(tenant_guid, graph_guid, created_utc);
CREATE INDEX IF NOT EXISTS idx_edges_updated ON edges(last_update_utc);

CREATE INDEX IF NOT EXISTS idx_labels_graph ON labels(tenant_guid, graph_guid, label);
CREATE INDEX IF NOT EXISTS idx_labels_node ON labels(node_guid, label);
CREATE INDEX IF NOT EXISTS idx_labels_edge ON labels(edge_guid, label);

CREATE INDEX IF NOT EXISTS idx_tags_graph ON tags(tenant_guid, graph_guid, tag_key);
CREATE INDEX IF NOT EXISTS idx_tags_node ON tags(node_guid, tag_key, tag_value);
CREATE INDEX IF NOT EXISTS idx_tags_edge ON tags(edge_guid, tag_key, tag_value);

CREATE INDEX IF NOT EXISTS idx_vectors_graph ON vectors(tenant_guid, graph_guid, dimensionality);
CREATE INDEX IF NOT EXISTS idx_vectors_node ON vectors(node_guid);
CREATE INDEX IF NOT EXISTS idx_vectors_edge ON vectors(edge_guid);
`

const dataIndexDDL = `
CREATE INDEX IF NOT EXISTS idx_graphs_data ON graphs(data);
CREATE INDEX IF NOT EXISTS idx_nodes_data ON nodes(data);
CREATE INDEX IF NOT EXISTS idx_edges_data ON edges(data);
`

func migrate(db *sql.DB, indexData bool) error {
	if _, err := db.Exec(schemaDDL); err != nil {
		return err
	}
	if indexData {
		if _, err := db.Exec(dataIndexDDL); err != nil {
			return err
		}
	}
	return nil
}
