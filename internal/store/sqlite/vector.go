// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package sqlite

import (
	"context"
	"database/sql"
	"iter"
	"log/slog"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"

	"github.com/sigil-dev/litegraph/internal/store"
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
)

func init() {
	sqlite_vec.Auto()
}

const defaultTopK = 10

const vectorColumns = `v.guid, v.tenant_guid, v.graph_guid, v.node_guid, v.edge_guid, v.model, v.dimensionality, v.content, v.embeddings, v.created_utc, v.last_update_utc`

func scanVector(row rowScanner, extra ...any) (*store.VectorMetadata, error) {
	var v store.VectorMetadata
	var nodeGUID, edgeGUID sql.NullString
	var blob []byte
	var created, updated string
	dest := append([]any{&v.GUID, &v.TenantGUID, &v.GraphGUID, &nodeGUID, &edgeGUID, &v.Model, &v.Dimensionality, &v.Content, &blob, &created, &updated}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	var err error
	if v.CreatedUTC, v.LastUpdateUTC, err = parseTimes(created, updated); err != nil {
		return nil, err
	}
	if v.Vectors, err = decodeEmbedding(blob); err != nil {
		return nil, lgerr.With(err, lgerr.FieldGUID(v.GUID))
	}
	v.NodeGUID, v.EdgeGUID = nodeGUID.String, edgeGUID.String
	return &v, nil
}

// insertVector writes v, deriving Dimensionality from the embedding when unset.
func insertVector(tx *txn, v *store.VectorMetadata) error {
	if v.Dimensionality == 0 {
		v.Dimensionality = len(v.Vectors)
	}
	blob, err := encodeEmbedding(v.Vectors)
	if err != nil {
		return err
	}
	const q = `INSERT INTO vectors (guid, tenant_guid, graph_guid, node_guid, edge_guid, model, dimensionality, content, embeddings, created_utc, last_update_utc)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.exec(q, v.GUID, v.TenantGUID, v.GraphGUID, nullable(v.NodeGUID), nullable(v.EdgeGUID), v.Model, v.Dimensionality, v.Content, blob,
		formatTime(v.CreatedUTC), formatTime(v.LastUpdateUTC))
	return err
}

// CreateVector inserts vector, or returns the stored vector when the GUID exists.
func (r *Repository) CreateVector(ctx context.Context, vector *store.VectorMetadata) (*store.VectorMetadata, error) {
	if vector == nil {
		return nil, lgerr.InvalidInput("vector is required")
	}
	if err := vector.Validate(); err != nil {
		return nil, err
	}

	unlock := r.lockCreate()
	defer unlock()

	existing, err := r.ReadVector(ctx, vector.TenantGUID, vector.GraphGUID, vector.GUID)
	if err != nil || existing != nil {
		return existing, err
	}

	v := *vector
	stamp(&v.CreatedUTC, &v.LastUpdateUTC)

	if err := r.withTx(ctx, func(tx *txn) error { return insertVector(tx, &v) }); err != nil {
		return nil, lgerr.With(err, lgerr.FieldGraphID(v.GraphGUID), lgerr.FieldGUID(v.GUID))
	}
	r.obs.Created(string(store.EntityVector), 1)

	return r.ReadVector(ctx, v.TenantGUID, v.GraphGUID, v.GUID)
}

// ReadVector returns the vector or nil when absent.
func (r *Repository) ReadVector(ctx context.Context, tenantGUID, graphGUID, guid string) (*store.VectorMetadata, error) {
	var out *store.VectorMetadata
	err := r.query(ctx, `SELECT `+vectorColumns+` FROM vectors v WHERE v.tenant_guid = ? AND v.graph_guid = ? AND v.guid = ?`,
		[]any{tenantGUID, graphGUID, guid},
		func(rows *sql.Rows) error {
			v, err := scanVector(rows)
			out = v
			return err
		})
	return out, err
}

// ReadVectors enumerates the graph's vectors in creation order.
func (r *Repository) ReadVectors(ctx context.Context, tenantGUID, graphGUID string, f store.MetadataFilter) iter.Seq2[*store.VectorMetadata, error] {
	return listMetadata(ctx, r, "vectors v", vectorColumns, tenantGUID, graphGUID, f,
		func(row rowScanner) (*store.VectorMetadata, error) { return scanVector(row) })
}

// UpdateVector replaces the vector's owner, model, content and embedding.
func (r *Repository) UpdateVector(ctx context.Context, vector *store.VectorMetadata) (*store.VectorMetadata, error) {
	if vector == nil {
		return nil, lgerr.InvalidInput("vector is required")
	}
	if err := vector.Validate(); err != nil {
		return nil, err
	}
	blob, err := encodeEmbedding(vector.Vectors)
	if err != nil {
		return nil, err
	}
	if err := r.requireGraph(ctx, vector.TenantGUID, vector.GraphGUID); err != nil {
		return nil, err
	}

	err = r.withTx(ctx, func(tx *txn) error {
		const q = `UPDATE vectors SET node_guid = ?, edge_guid = ?, model = ?, dimensionality = ?, content = ?, embeddings = ?, last_update_utc = ?
WHERE tenant_guid = ? AND graph_guid = ? AND guid = ?`
		n, err := tx.affected(q, nullable(vector.NodeGUID), nullable(vector.EdgeGUID), vector.Model, len(vector.Vectors), vector.Content, blob,
			formatTime(now()), vector.TenantGUID, vector.GraphGUID, vector.GUID)
		if err != nil {
			return err
		}
		if n == 0 {
			return store.NotFound(store.EntityVector, vector.GUID, lgerr.FieldGraphID(vector.GraphGUID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.ReadVector(ctx, vector.TenantGUID, vector.GraphGUID, vector.GUID)
}

// DeleteVector removes one vector row.
func (r *Repository) DeleteVector(ctx context.Context, tenantGUID, graphGUID, guid string) error {
	return r.deleteMetadataRow(ctx, "vectors", store.EntityVector, tenantGUID, graphGUID, guid)
}

// SearchVectors ranks the stored vectors of the request domain that have the
// same dimensionality as the query embedding. Lower distance ranks first and
// GUID breaks ties. Hits whose owning entity no longer exists are skipped.
func (r *Repository) SearchVectors(ctx context.Context, req store.VectorSearchRequest) ([]*store.VectorSearchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	query, err := encodeEmbedding(req.Embeddings)
	if err != nil {
		return nil, err
	}

	distance := "vec_distance_cosine"
	if req.SearchType == store.VectorSearchEuclidean {
		distance = "vec_distance_l2"
	}
	topK := req.TopK
	if topK == 0 {
		topK = defaultTopK
	}

	stmt := `SELECT ` + vectorColumns + `, ` + distance + `(v.embeddings, ?) AS distance FROM vectors v WHERE v.tenant_guid = ? AND v.dimensionality = ?`
	args := []any{query, req.TenantGUID, len(req.Embeddings)}
	switch req.Domain {
	case store.VectorDomainGraph:
		stmt += ` AND v.node_guid IS NULL AND v.edge_guid IS NULL`
		if req.GraphGUID != "" {
			stmt += ` AND v.graph_guid = ?`
			args = append(args, req.GraphGUID)
		}
	case store.VectorDomainNode:
		stmt += ` AND v.graph_guid = ? AND v.node_guid IS NOT NULL`
		args = append(args, req.GraphGUID)
	case store.VectorDomainEdge:
		stmt += ` AND v.graph_guid = ? AND v.edge_guid IS NOT NULL`
		args = append(args, req.GraphGUID)
	}
	stmt += ` ORDER BY distance ASC, v.guid ASC LIMIT ?`
	args = append(args, topK)

	var hits []*store.VectorSearchResult
	err = r.query(ctx, stmt, args, func(rows *sql.Rows) error {
		var d float64
		v, err := scanVector(rows, &d)
		if err != nil {
			return err
		}
		hits = append(hits, &store.VectorSearchResult{Distance: d, Vector: v})
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]*store.VectorSearchResult, 0, len(hits))
	for _, h := range hits {
		ok, err := r.resolveHit(ctx, req.Domain, h)
		if err != nil {
			return nil, err
		}
		if !ok {
			r.logger.Warn("vector owner missing, skipping search hit",
				slog.String("vector", h.Vector.GUID),
				slog.String("domain", string(req.Domain)),
			)
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

// resolveHit attaches the entity owning the hit's vector.
func (r *Repository) resolveHit(ctx context.Context, domain store.VectorSearchDomain, h *store.VectorSearchResult) (bool, error) {
	v := h.Vector
	var err error
	switch domain {
	case store.VectorDomainGraph:
		h.Graph, err = r.ReadGraph(ctx, v.TenantGUID, v.GraphGUID)
		return h.Graph != nil, err
	case store.VectorDomainNode:
		h.Node, err = r.ReadNode(ctx, v.TenantGUID, v.GraphGUID, v.NodeGUID)
		return h.Node != nil, err
	default:
		h.Edge, err = r.ReadEdge(ctx, v.TenantGUID, v.GraphGUID, v.EdgeGUID)
		return h.Edge != nil, err
	}
}
