// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package store

import (
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
)

// Valid reports whether o is a known enumeration order. The empty order is
// valid and means DefaultOrder.
func (o EnumerationOrder) Valid() bool {
	switch o {
	case "", OrderCreatedAscending, OrderCreatedDescending,
		OrderNameAscending, OrderNameDescending,
		OrderGUIDAscending, OrderGUIDDescending,
		OrderCostAscending, OrderCostDescending:
		return true
	default:
		return false
	}
}

// IsCost reports whether o sorts by edge cost.
func (o EnumerationOrder) IsCost() bool {
	return o == OrderCostAscending || o == OrderCostDescending
}

// OrDefault returns o, or DefaultOrder when o is empty.
func (o EnumerationOrder) OrDefault() EnumerationOrder {
	if o == "" {
		return DefaultOrder
	}
	return o
}

// Validate checks q for an enumeration of entity. Cost orders are only
// meaningful for edges.
func (q ListQuery) Validate(entity Entity) error {
	if q.Skip < 0 {
		return lgerr.Errorf(lgerr.CodeStoreInvalidInput, "list query: Skip must be >= 0, got %d", q.Skip)
	}
	if !q.Order.Valid() {
		return lgerr.Errorf(lgerr.CodeStoreInvalidInput, "list query: unknown order %q", q.Order)
	}
	if q.Order.IsCost() && entity != EntityEdge {
		return lgerr.Errorf(lgerr.CodeStoreInvalidInput, "list query: order %q is only valid for edges, not %s", q.Order, entity)
	}
	for _, label := range q.Labels {
		if label == "" {
			return lgerr.New(lgerr.CodeStoreInvalidInput, "list query: labels must not be empty")
		}
	}
	for key := range q.Tags {
		if key == "" {
			return lgerr.New(lgerr.CodeStoreInvalidInput, "list query: tag keys must not be empty")
		}
	}
	return nil
}

// Validate checks that the Tenant has all required fields set.
func (t Tenant) Validate() error {
	if t.GUID == "" {
		return lgerr.New(lgerr.CodeStoreInvalidInput, "tenant: GUID is required")
	}
	return nil
}

// Validate checks that the Graph has all required fields set.
func (g Graph) Validate() error {
	if g.TenantGUID == "" {
		return lgerr.New(lgerr.CodeStoreInvalidInput, "graph: TenantGUID is required")
	}
	if g.GUID == "" {
		return lgerr.New(lgerr.CodeStoreInvalidInput, "graph: GUID is required")
	}
	return validateAttachments("graph", g.Labels, g.Tags, g.Vectors)
}

// Validate checks that the Node has all required fields set.
func (n Node) Validate() error {
	if n.TenantGUID == "" {
		return lgerr.New(lgerr.CodeStoreInvalidInput, "node: TenantGUID is required")
	}
	if n.GraphGUID == "" {
		return lgerr.New(lgerr.CodeStoreInvalidInput, "node: GraphGUID is required")
	}
	if n.GUID == "" {
		return lgerr.New(lgerr.CodeStoreInvalidInput, "node: GUID is required")
	}
	return validateAttachments("node", n.Labels, n.Tags, n.Vectors)
}

// Validate checks that the Edge has all required fields set.
func (e Edge) Validate() error {
	if e.TenantGUID == "" {
		return lgerr.New(lgerr.CodeStoreInvalidInput, "edge: TenantGUID is required")
	}
	if e.GraphGUID == "" {
		return lgerr.New(lgerr.CodeStoreInvalidInput, "edge: GraphGUID is required")
	}
	if e.GUID == "" {
		return lgerr.New(lgerr.CodeStoreInvalidInput, "edge: GUID is required")
	}
	if e.From == "" || e.To == "" {
		return lgerr.New(lgerr.CodeStoreInvalidInput, "edge: From and To are required")
	}
	if e.Cost < 0 {
		return lgerr.Errorf(lgerr.CodeStoreInvalidInput, "edge: Cost must be >= 0, got %d", e.Cost)
	}
	return validateAttachments("edge", e.Labels, e.Tags, e.Vectors)
}

// Validate checks that the TagMetadata has all required fields set.
func (t TagMetadata) Validate() error {
	if err := validateScope("tag", t.TenantGUID, t.GraphGUID, t.GUID, t.NodeGUID, t.EdgeGUID); err != nil {
		return err
	}
	if t.Key == "" {
		return lgerr.New(lgerr.CodeStoreInvalidInput, "tag: Key is required")
	}
	return nil
}

// Validate checks that the LabelMetadata has all required fields set.
func (l LabelMetadata) Validate() error {
	if err := validateScope("label", l.TenantGUID, l.GraphGUID, l.GUID, l.NodeGUID, l.EdgeGUID); err != nil {
		return err
	}
	if l.Label == "" {
		return lgerr.New(lgerr.CodeStoreInvalidInput, "label: Label is required")
	}
	return nil
}

// Validate checks that the VectorMetadata has all required fields set and
// that Dimensionality matches the embedding length.
func (v VectorMetadata) Validate() error {
	if err := validateScope("vector", v.TenantGUID, v.GraphGUID, v.GUID, v.NodeGUID, v.EdgeGUID); err != nil {
		return err
	}
	return validateEmbedding(v)
}

// Validate checks the search parameters before any store access.
func (r VectorSearchRequest) Validate() error {
	if r.TenantGUID == "" {
		return lgerr.New(lgerr.CodeStoreInvalidInput, "vector search: TenantGUID is required")
	}
	switch r.Domain {
	case VectorDomainGraph:
	case VectorDomainNode, VectorDomainEdge:
		if r.GraphGUID == "" {
			return lgerr.Errorf(lgerr.CodeStoreInvalidInput, "vector search: GraphGUID is required for domain %q", r.Domain)
		}
	default:
		return lgerr.Errorf(lgerr.CodeStoreInvalidInput, "vector search: unknown domain %q", r.Domain)
	}
	switch r.SearchType {
	case "", VectorSearchCosine, VectorSearchEuclidean:
	default:
		return lgerr.Errorf(lgerr.CodeStoreInvalidInput, "vector search: unknown search type %q", r.SearchType)
	}
	if len(r.Embeddings) == 0 {
		return lgerr.New(lgerr.CodeStoreInvalidInput, "vector search: Embeddings are required")
	}
	if r.TopK < 0 {
		return lgerr.Errorf(lgerr.CodeStoreInvalidInput, "vector search: TopK must be >= 0, got %d", r.TopK)
	}
	return nil
}

func validateScope(kind, tenantGUID, graphGUID, guid, nodeGUID, edgeGUID string) error {
	if tenantGUID == "" {
		return lgerr.Errorf(lgerr.CodeStoreInvalidInput, "%s: TenantGUID is required", kind)
	}
	if graphGUID == "" {
		return lgerr.Errorf(lgerr.CodeStoreInvalidInput, "%s: GraphGUID is required", kind)
	}
	if guid == "" {
		return lgerr.Errorf(lgerr.CodeStoreInvalidInput, "%s: GUID is required", kind)
	}
	if nodeGUID != "" && edgeGUID != "" {
		return lgerr.Errorf(lgerr.CodeStoreInvalidInput, "%s: NodeGUID and EdgeGUID are mutually exclusive", kind)
	}
	return nil
}

func validateEmbedding(v VectorMetadata) error {
	if len(v.Vectors) == 0 {
		return lgerr.New(lgerr.CodeStoreInvalidInput, "vector: Vectors are required")
	}
	if v.Dimensionality != 0 && v.Dimensionality != len(v.Vectors) {
		return lgerr.Errorf(lgerr.CodeStoreInvalidInput,
			"vector: Dimensionality %d does not match %d values", v.Dimensionality, len(v.Vectors))
	}
	return nil
}

// validateAttachments checks labels, tags and vectors supplied inline with an
// entity. Their ownership fields are filled by the store.
func validateAttachments(kind string, labels []string, tags map[string]string, vectors []*VectorMetadata) error {
	for _, label := range labels {
		if label == "" {
			return lgerr.Errorf(lgerr.CodeStoreInvalidInput, "%s: labels must not be empty", kind)
		}
	}
	for key := range tags {
		if key == "" {
			return lgerr.Errorf(lgerr.CodeStoreInvalidInput, "%s: tag keys must not be empty", kind)
		}
	}
	for _, v := range vectors {
		if v == nil {
			return lgerr.Errorf(lgerr.CodeStoreInvalidInput, "%s: vectors must not be nil", kind)
		}
		if err := validateEmbedding(*v); err != nil {
			return err
		}
	}
	return nil
}
