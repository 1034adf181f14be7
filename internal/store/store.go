// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

import (
	"context"
	"iter"
)

// Read-one methods return (nil, nil) when the entity is absent. Operations
// that require an existing entity (update, delete) return a not-found error.
// Read-many methods page through the backend lazily; the sequence can be
// restarted only from the beginning.

// TenantStore manages tenants.
type TenantStore interface {
	CreateTenant(ctx context.Context, tenant *Tenant) (*Tenant, error)
	ReadTenant(ctx context.Context, guid string) (*Tenant, error)
	ReadTenants(ctx context.Context, q ListQuery) iter.Seq2[*Tenant, error]
	UpdateTenant(ctx context.Context, tenant *Tenant) (*Tenant, error)
	// DeleteTenant fails while graphs remain unless force is set.
	DeleteTenant(ctx context.Context, guid string, force bool) error
	TenantExists(ctx context.Context, guid string) (bool, error)
}

// GraphStore manages graphs.
type GraphStore interface {
	CreateGraph(ctx context.Context, graph *Graph) (*Graph, error)
	ReadGraph(ctx context.Context, tenantGUID, guid string) (*Graph, error)
	ReadGraphs(ctx context.Context, tenantGUID string, q ListQuery) iter.Seq2[*Graph, error]
	UpdateGraph(ctx context.Context, graph *Graph) (*Graph, error)
	// DeleteGraph fails while nodes or edges remain unless force is set.
	DeleteGraph(ctx context.Context, tenantGUID, guid string, force bool) error
	GraphExists(ctx context.Context, tenantGUID, guid string) (bool, error)
	GraphStatistics(ctx context.Context, tenantGUID, guid string) (*GraphStatistics, error)
}

// NodeStore manages nodes.
type NodeStore interface {
	CreateNode(ctx context.Context, node *Node) (*Node, error)
	// CreateNodes inserts every node or none.
	CreateNodes(ctx context.Context, tenantGUID, graphGUID string, nodes []*Node) ([]*Node, error)
	ReadNode(ctx context.Context, tenantGUID, graphGUID, guid string) (*Node, error)
	ReadNodes(ctx context.Context, tenantGUID, graphGUID string, q ListQuery) iter.Seq2[*Node, error]
	UpdateNode(ctx context.Context, node *Node) (*Node, error)
	// DeleteNode removes the node and every edge touching it.
	DeleteNode(ctx context.Context, tenantGUID, graphGUID, guid string) error
	DeleteNodes(ctx context.Context, tenantGUID, graphGUID string, guids []string) error
	DeleteAllNodes(ctx context.Context, tenantGUID, graphGUID string) error
	NodeExists(ctx context.Context, tenantGUID, graphGUID, guid string) (bool, error)
}

// EdgeStore manages edges.
type EdgeStore interface {
	CreateEdge(ctx context.Context, edge *Edge) (*Edge, error)
	// CreateEdges inserts every edge or none.
	CreateEdges(ctx context.Context, tenantGUID, graphGUID string, edges []*Edge) ([]*Edge, error)
	ReadEdge(ctx context.Context, tenantGUID, graphGUID, guid string) (*Edge, error)
	ReadEdges(ctx context.Context, tenantGUID, graphGUID string, q ListQuery) iter.Seq2[*Edge, error]
	ReadEdgesFrom(ctx context.Context, tenantGUID, graphGUID, nodeGUID string, q ListQuery) iter.Seq2[*Edge, error]
	ReadEdgesTo(ctx context.Context, tenantGUID, graphGUID, nodeGUID string, q ListQuery) iter.Seq2[*Edge, error]
	ReadEdgesBetween(ctx context.Context, tenantGUID, graphGUID, fromGUID, toGUID string, q ListQuery) iter.Seq2[*Edge, error]
	// ReadNodeEdges returns edges in either direction.
	ReadNodeEdges(ctx context.Context, tenantGUID, graphGUID, nodeGUID string, q ListQuery) iter.Seq2[*Edge, error]
	UpdateEdge(ctx context.Context, edge *Edge) (*Edge, error)
	DeleteEdge(ctx context.Context, tenantGUID, graphGUID, guid string) error
	DeleteEdges(ctx context.Context, tenantGUID, graphGUID string, guids []string) error
	DeleteAllEdges(ctx context.Context, tenantGUID, graphGUID string) error
	EdgeExists(ctx context.Context, tenantGUID, graphGUID, guid string) (bool, error)
}

// TagStore manages tag rows.
type TagStore interface {
	CreateTag(ctx context.Context, tag *TagMetadata) (*TagMetadata, error)
	ReadTag(ctx context.Context, tenantGUID, graphGUID, guid string) (*TagMetadata, error)
	ReadTags(ctx context.Context, tenantGUID, graphGUID string, f MetadataFilter) iter.Seq2[*TagMetadata, error]
	UpdateTag(ctx context.Context, tag *TagMetadata) (*TagMetadata, error)
	DeleteTag(ctx context.Context, tenantGUID, graphGUID, guid string) error
}

// LabelStore manages label rows.
type LabelStore interface {
	CreateLabel(ctx context.Context, label *LabelMetadata) (*LabelMetadata, error)
	ReadLabel(ctx context.Context, tenantGUID, graphGUID, guid string) (*LabelMetadata, error)
	ReadLabels(ctx context.Context, tenantGUID, graphGUID string, f MetadataFilter) iter.Seq2[*LabelMetadata, error]
	UpdateLabel(ctx context.Context, label *LabelMetadata) (*LabelMetadata, error)
	DeleteLabel(ctx context.Context, tenantGUID, graphGUID, guid string) error
}

// VectorStore manages embeddings and similarity search.
type VectorStore interface {
	CreateVector(ctx context.Context, vector *VectorMetadata) (*VectorMetadata, error)
	ReadVector(ctx context.Context, tenantGUID, graphGUID, guid string) (*VectorMetadata, error)
	ReadVectors(ctx context.Context, tenantGUID, graphGUID string, f MetadataFilter) iter.Seq2[*VectorMetadata, error]
	UpdateVector(ctx context.Context, vector *VectorMetadata) (*VectorMetadata, error)
	DeleteVector(ctx context.Context, tenantGUID, graphGUID, guid string) error
	SearchVectors(ctx context.Context, req VectorSearchRequest) ([]*VectorSearchResult, error)
}

// BatchStore answers set-based existence checks in one round trip per set.
type BatchStore interface {
	Exists(ctx context.Context, tenantGUID, graphGUID string, req ExistenceRequest) (*ExistenceResult, error)
}

// Repository is the full storage contract implemented by a backend.
type Repository interface {
	TenantStore
	GraphStore
	NodeStore
	EdgeStore
	TagStore
	LabelStore
	VectorStore
	BatchStore
	Close() error
}
