// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

import (
	"time"

	"github.com/sigil-dev/litegraph/pkg/expr"
)

// Entity names an entity family. It appears in not-found errors and selects
// which enumeration orders are accepted.
type Entity string

const (
	EntityTenant Entity = "tenant"
	EntityGraph  Entity = "graph"
	EntityNode   Entity = "node"
	EntityEdge   Entity = "edge"
	EntityTag    Entity = "tag"
	EntityLabel  Entity = "label"
	EntityVector Entity = "vector"
)

// --- Graph entities ---

// Tenant is the top-level ownership boundary. Every graph belongs to one tenant.
type Tenant struct {
	GUID          string
	Name          string
	Active        bool
	CreatedUTC    time.Time
	LastUpdateUTC time.Time
}

// Graph is a named container of nodes and edges.
type Graph struct {
	TenantGUID    string
	GUID          string
	Name          string
	Data          any
	Labels        []string
	Tags          map[string]string
	Vectors       []*VectorMetadata
	CreatedUTC    time.Time
	LastUpdateUTC time.Time
}

// Node is a graph vertex carrying an opaque data document.
// A tag with an empty value means only the key is present.
type Node struct {
	TenantGUID    string
	GraphGUID     string
	GUID          string
	Name          string
	Data          any
	Labels        []string
	Tags          map[string]string
	Vectors       []*VectorMetadata
	CreatedUTC    time.Time
	LastUpdateUTC time.Time
}

// Edge is a directed, costed connection between two nodes of one graph.
type Edge struct {
	TenantGUID    string
	GraphGUID     string
	GUID          string
	Name          string
	From          string
	To            string
	Cost          int
	Data          any
	Labels        []string
	Tags          map[string]string
	Vectors       []*VectorMetadata
	CreatedUTC    time.Time
	LastUpdateUTC time.Time
}

// --- Metadata rows ---
//
// Tags, labels and vectors belong to a graph and optionally to one node or
// one edge of that graph, never both.

// TagMetadata is a key with an optional value.
type TagMetadata struct {
	TenantGUID    string
	GraphGUID     string
	NodeGUID      string
	EdgeGUID      string
	GUID          string
	Key           string
	Value         string
	CreatedUTC    time.Time
	LastUpdateUTC time.Time
}

// LabelMetadata is a bare label string.
type LabelMetadata struct {
	TenantGUID    string
	GraphGUID     string
	NodeGUID      string
	EdgeGUID      string
	GUID          string
	Label         string
	CreatedUTC    time.Time
	LastUpdateUTC time.Time
}

// VectorMetadata is an embedding together with the model and content that produced it.
type VectorMetadata struct {
	TenantGUID     string
	GraphGUID      string
	NodeGUID       string
	EdgeGUID       string
	GUID           string
	Model          string
	Dimensionality int
	Content        string
	Vectors        []float32
	CreatedUTC     time.Time
	LastUpdateUTC  time.Time
}

// MetadataFilter narrows a tag, label or vector enumeration within a graph.
// Empty fields match everything.
type MetadataFilter struct {
	NodeGUID string
	EdgeGUID string
	// GraphOnly restricts the result to rows attached to the graph itself.
	GraphOnly bool
}

// --- Enumeration ---

// EnumerationOrder selects the sort order of a read-many operation.
type EnumerationOrder string

const (
	OrderCreatedAscending  EnumerationOrder = "CreatedAscending"
	OrderCreatedDescending EnumerationOrder = "CreatedDescending"
	OrderNameAscending     EnumerationOrder = "NameAscending"
	OrderNameDescending    EnumerationOrder = "NameDescending"
	OrderGUIDAscending     EnumerationOrder = "GuidAscending"
	OrderGUIDDescending    EnumerationOrder = "GuidDescending"
	OrderCostAscending     EnumerationOrder = "CostAscending"
	OrderCostDescending    EnumerationOrder = "CostDescending"
)

// DefaultOrder is used when a ListQuery leaves Order empty.
const DefaultOrder = OrderCreatedDescending

// ListQuery controls a read-many operation. Label and tag conditions are
// ANDed with Filter; every listed label must be present.
type ListQuery struct {
	Order  EnumerationOrder
	Labels []string
	Tags   map[string]string
	Filter *expr.Expr
	Skip   int
}

// --- Batch existence ---

// EdgeBetween is a directed (from, to) node pair.
type EdgeBetween struct {
	From string
	To   string
}

// ExistenceRequest lists candidates to partition into existing and missing.
type ExistenceRequest struct {
	Nodes        []string
	Edges        []string
	EdgesBetween []EdgeBetween
}

// ExistenceResult partitions each candidate set of an ExistenceRequest.
type ExistenceResult struct {
	ExistingNodes        []string
	MissingNodes         []string
	ExistingEdges        []string
	MissingEdges         []string
	ExistingEdgesBetween []EdgeBetween
	MissingEdgesBetween  []EdgeBetween
}

// --- Vector search ---

// VectorSearchDomain selects which entity family a vector search ranks.
type VectorSearchDomain string

const (
	VectorDomainGraph VectorSearchDomain = "Graph"
	VectorDomainNode  VectorSearchDomain = "Node"
	VectorDomainEdge  VectorSearchDomain = "Edge"
)

// VectorSearchType selects the distance function.
type VectorSearchType string

const (
	VectorSearchCosine    VectorSearchType = "CosineDistance"
	VectorSearchEuclidean VectorSearchType = "EuclideanDistance"
)

// VectorSearchRequest ranks stored vectors against Embeddings.
// GraphGUID is required for the node and edge domains.
type VectorSearchRequest struct {
	TenantGUID string
	GraphGUID  string
	Domain     VectorSearchDomain
	SearchType VectorSearchType
	Embeddings []float32
	TopK       int
}

// VectorSearchResult is one ranked hit. Exactly one of Graph, Node and Edge
// is set, matching the request domain.
type VectorSearchResult struct {
	Distance float64
	Vector   *VectorMetadata
	Graph    *Graph
	Node     *Node
	Edge     *Edge
}

// GraphStatistics counts the rows owned by one graph.
type GraphStatistics struct {
	Nodes   int
	Edges   int
	Labels  int
	Tags    int
	Vectors int
}
