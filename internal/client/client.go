// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

// Package client is the public entry point to a graph repository. It checks
// that referenced tenants, graphs, nodes and edges exist before delegating to
// the repository and the traversal engine.
package client

import (
	"context"
	"iter"
	"log/slog"

	"github.com/sigil-dev/litegraph/internal/store"
	"github.com/sigil-dev/litegraph/internal/traversal"
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
)

// The facade is itself a repository.
var _ store.Repository = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger passed to the traversal engine.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client wraps a repository with referential checks and traversal.
type Client struct {
	repo   store.Repository
	engine *traversal.Engine
	logger *slog.Logger
}

// New creates a Client over repo.
func New(repo store.Repository, opts ...Option) *Client {
	c := &Client{repo: repo, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	c.engine = traversal.New(repo, traversal.WithLogger(c.logger))
	return c
}

// Open resolves cfg through the backend registry and wraps the repository.
func Open(cfg store.StorageConfig, opts ...Option) (*Client, error) {
	repo, err := store.Open(cfg)
	if err != nil {
		return nil, err
	}
	return New(repo, opts...), nil
}

// Close releases the underlying repository.
func (c *Client) Close() error {
	return c.repo.Close()
}

// Repository exposes the wrapped repository.
func (c *Client) Repository() store.Repository {
	return c.repo
}

func (c *Client) requireTenant(ctx context.Context, tenantGUID string) error {
	ok, err := c.repo.TenantExists(ctx, tenantGUID)
	if err != nil {
		return err
	}
	if !ok {
		return store.NotFound(store.EntityTenant, tenantGUID)
	}
	return nil
}

func (c *Client) requireGraph(ctx context.Context, tenantGUID, graphGUID string) error {
	if err := c.requireTenant(ctx, tenantGUID); err != nil {
		return err
	}
	ok, err := c.repo.GraphExists(ctx, tenantGUID, graphGUID)
	if err != nil {
		return err
	}
	if !ok {
		return store.NotFound(store.EntityGraph, graphGUID, lgerr.FieldTenantID(tenantGUID))
	}
	return nil
}

func (c *Client) requireNode(ctx context.Context, tenantGUID, graphGUID, nodeGUID string, fields ...lgerr.Attr) error {
	ok, err := c.repo.NodeExists(ctx, tenantGUID, graphGUID, nodeGUID)
	if err != nil {
		return err
	}
	if !ok {
		return store.NotFound(store.EntityNode, nodeGUID, append(fields, lgerr.FieldGraphID(graphGUID))...)
	}
	return nil
}

// requireScope checks the graph and, when set, the node or edge a metadata row
// is attached to.
func (c *Client) requireScope(ctx context.Context, tenantGUID, graphGUID, nodeGUID, edgeGUID string) error {
	if err := c.requireGraph(ctx, tenantGUID, graphGUID); err != nil {
		return err
	}
	if nodeGUID != "" {
		if err := c.requireNode(ctx, tenantGUID, graphGUID, nodeGUID); err != nil {
			return err
		}
	}
	if edgeGUID != "" {
		ok, err := c.repo.EdgeExists(ctx, tenantGUID, graphGUID, edgeGUID)
		if err != nil {
			return err
		}
		if !ok {
			return store.NotFound(store.EntityEdge, edgeGUID, lgerr.FieldGraphID(graphGUID))
		}
	}
	return nil
}

// guarded runs check when the sequence is ranged over and yields only its
// error when it fails.
func guarded[T any](check func() error, next func() iter.Seq2[T, error]) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		if err := check(); err != nil {
			var zero T
			yield(zero, err)
			return
		}
		for v, err := range next() {
			if !yield(v, err) {
				return
			}
		}
	}
}

// inTenant returns a check that reports invalid before touching the store and
// then requires the tenant.
func (c *Client) inTenant(ctx context.Context, tenantGUID string, invalid error) func() error {
	return func() error {
		if invalid != nil {
			return invalid
		}
		return c.requireTenant(ctx, tenantGUID)
	}
}

// inGraph is inTenant for a graph.
func (c *Client) inGraph(ctx context.Context, tenantGUID, graphGUID string, invalid error) func() error {
	return func() error {
		if invalid != nil {
			return invalid
		}
		return c.requireGraph(ctx, tenantGUID, graphGUID)
	}
}

// --- Tenants ---

func (c *Client) CreateTenant(ctx context.Context, tenant *store.Tenant) (*store.Tenant, error) {
	return c.repo.CreateTenant(ctx, tenant)
}

func (c *Client) ReadTenant(ctx context.Context, guid string) (*store.Tenant, error) {
	return c.repo.ReadTenant(ctx, guid)
}

func (c *Client) ReadTenants(ctx context.Context, q store.ListQuery) iter.Seq2[*store.Tenant, error] {
	return c.repo.ReadTenants(ctx, q)
}

func (c *Client) UpdateTenant(ctx context.Context, tenant *store.Tenant) (*store.Tenant, error) {
	return c.repo.UpdateTenant(ctx, tenant)
}

func (c *Client) DeleteTenant(ctx context.Context, guid string, force bool) error {
	return c.repo.DeleteTenant(ctx, guid, force)
}

func (c *Client) TenantExists(ctx context.Context, guid string) (bool, error) {
	return c.repo.TenantExists(ctx, guid)
}

// --- Graphs ---

// CreateGraph requires the owning tenant.
func (c *Client) CreateGraph(ctx context.Context, graph *store.Graph) (*store.Graph, error) {
	if graph == nil {
		return nil, lgerr.InvalidInput("graph is required")
	}
	if err := c.requireTenant(ctx, graph.TenantGUID); err != nil {
		return nil, err
	}
	return c.repo.CreateGraph(ctx, graph)
}

func (c *Client) ReadGraph(ctx context.Context, tenantGUID, guid string) (*store.Graph, error) {
	return c.repo.ReadGraph(ctx, tenantGUID, guid)
}

func (c *Client) ReadGraphs(ctx context.Context, tenantGUID string, q store.ListQuery) iter.Seq2[*store.Graph, error] {
	return guarded(c.inTenant(ctx, tenantGUID, q.Validate(store.EntityGraph)), func() iter.Seq2[*store.Graph, error] {
		return c.repo.ReadGraphs(ctx, tenantGUID, q)
	})
}

func (c *Client) UpdateGraph(ctx context.Context, graph *store.Graph) (*store.Graph, error) {
	return c.repo.UpdateGraph(ctx, graph)
}

func (c *Client) DeleteGraph(ctx context.Context, tenantGUID, guid string, force bool) error {
	return c.repo.DeleteGraph(ctx, tenantGUID, guid, force)
}

func (c *Client) GraphExists(ctx context.Context, tenantGUID, guid string) (bool, error) {
	return c.repo.GraphExists(ctx, tenantGUID, guid)
}

func (c *Client) GraphStatistics(ctx context.Context, tenantGUID, guid string) (*store.GraphStatistics, error) {
	return c.repo.GraphStatistics(ctx, tenantGUID, guid)
}

// --- Nodes ---

// CreateNode requires the graph.
func (c *Client) CreateNode(ctx context.Context, node *store.Node) (*store.Node, error) {
	if node == nil {
		return nil, lgerr.InvalidInput("node is required")
	}
	if err := c.requireGraph(ctx, node.TenantGUID, node.GraphGUID); err != nil {
		return nil, err
	}
	return c.repo.CreateNode(ctx, node)
}

func (c *Client) CreateNodes(ctx context.Context, tenantGUID, graphGUID string, nodes []*store.Node) ([]*store.Node, error) {
	if err := c.requireGraph(ctx, tenantGUID, graphGUID); err != nil {
		return nil, err
	}
	return c.repo.CreateNodes(ctx, tenantGUID, graphGUID, nodes)
}

func (c *Client) ReadNode(ctx context.Context, tenantGUID, graphGUID, guid string) (*store.Node, error) {
	if err := c.requireGraph(ctx, tenantGUID, graphGUID); err != nil {
		return nil, err
	}
	return c.repo.ReadNode(ctx, tenantGUID, graphGUID, guid)
}

func (c *Client) ReadNodes(ctx context.Context, tenantGUID, graphGUID string, q store.ListQuery) iter.Seq2[*store.Node, error] {
	return guarded(c.inGraph(ctx, tenantGUID, graphGUID, q.Validate(store.EntityNode)), func() iter.Seq2[*store.Node, error] {
		return c.repo.ReadNodes(ctx, tenantGUID, graphGUID, q)
	})
}

func (c *Client) UpdateNode(ctx context.Context, node *store.Node) (*store.Node, error) {
	return c.repo.UpdateNode(ctx, node)
}

func (c *Client) DeleteNode(ctx context.Context, tenantGUID, graphGUID, guid string) error {
	return c.repo.DeleteNode(ctx, tenantGUID, graphGUID, guid)
}

func (c *Client) DeleteNodes(ctx context.Context, tenantGUID, graphGUID string, guids []string) error {
	if err := c.requireGraph(ctx, tenantGUID, graphGUID); err != nil {
		return err
	}
	return c.repo.DeleteNodes(ctx, tenantGUID, graphGUID, guids)
}

func (c *Client) DeleteAllNodes(ctx context.Context, tenantGUID, graphGUID string) error {
	if err := c.requireGraph(ctx, tenantGUID, graphGUID); err != nil {
		return err
	}
	return c.repo.DeleteAllNodes(ctx, tenantGUID, graphGUID)
}

func (c *Client) NodeExists(ctx context.Context, tenantGUID, graphGUID, guid string) (bool, error) {
	return c.repo.NodeExists(ctx, tenantGUID, graphGUID, guid)
}

// --- Edges ---

// CreateEdge requires the graph and both endpoints.
func (c *Client) CreateEdge(ctx context.Context, edge *store.Edge) (*store.Edge, error) {
	if edge == nil {
		return nil, lgerr.InvalidInput("edge is required")
	}
	if err := edge.Validate(); err != nil {
		return nil, err
	}
	if err := c.requireGraph(ctx, edge.TenantGUID, edge.GraphGUID); err != nil {
		return nil, err
	}
	if err := c.requireNode(ctx, edge.TenantGUID, edge.GraphGUID, edge.From, lgerr.Field("endpoint", "from")); err != nil {
		return nil, err
	}
	if err := c.requireNode(ctx, edge.TenantGUID, edge.GraphGUID, edge.To, lgerr.Field("endpoint", "to")); err != nil {
		return nil, err
	}
	return c.repo.CreateEdge(ctx, edge)
}

func (c *Client) CreateEdges(ctx context.Context, tenantGUID, graphGUID string, edges []*store.Edge) ([]*store.Edge, error) {
	if err := c.requireGraph(ctx, tenantGUID, graphGUID); err != nil {
		return nil, err
	}
	return c.repo.CreateEdges(ctx, tenantGUID, graphGUID, edges)
}

func (c *Client) ReadEdge(ctx context.Context, tenantGUID, graphGUID, guid string) (*store.Edge, error) {
	if err := c.requireGraph(ctx, tenantGUID, graphGUID); err != nil {
		return nil, err
	}
	return c.repo.ReadEdge(ctx, tenantGUID, graphGUID, guid)
}

func (c *Client) ReadEdges(ctx context.Context, tenantGUID, graphGUID string, q store.ListQuery) iter.Seq2[*store.Edge, error] {
	return guarded(c.inGraph(ctx, tenantGUID, graphGUID, q.Validate(store.EntityEdge)), func() iter.Seq2[*store.Edge, error] {
		return c.repo.ReadEdges(ctx, tenantGUID, graphGUID, q)
	})
}

func (c *Client) ReadEdgesFrom(ctx context.Context, tenantGUID, graphGUID, nodeGUID string, q store.ListQuery) iter.Seq2[*store.Edge, error] {
	return guarded(c.inGraph(ctx, tenantGUID, graphGUID, q.Validate(store.EntityEdge)), func() iter.Seq2[*store.Edge, error] {
		return c.repo.ReadEdgesFrom(ctx, tenantGUID, graphGUID, nodeGUID, q)
	})
}

func (c *Client) ReadEdgesTo(ctx context.Context, tenantGUID, graphGUID, nodeGUID string, q store.ListQuery) iter.Seq2[*store.Edge, error] {
	return guarded(c.inGraph(ctx, tenantGUID, graphGUID, q.Validate(store.EntityEdge)), func() iter.Seq2[*store.Edge, error] {
		return c.repo.ReadEdgesTo(ctx, tenantGUID, graphGUID, nodeGUID, q)
	})
}

func (c *Client) ReadEdgesBetween(ctx context.Context, tenantGUID, graphGUID, fromGUID, toGUID string, q store.ListQuery) iter.Seq2[*store.Edge, error] {
	return guarded(c.inGraph(ctx, tenantGUID, graphGUID, q.Validate(store.EntityEdge)), func() iter.Seq2[*store.Edge, error] {
		return c.repo.ReadEdgesBetween(ctx, tenantGUID, graphGUID, fromGUID, toGUID, q)
	})
}

func (c *Client) ReadNodeEdges(ctx context.Context, tenantGUID, graphGUID, nodeGUID string, q store.ListQuery) iter.Seq2[*store.Edge, error] {
	return guarded(c.inGraph(ctx, tenantGUID, graphGUID, q.Validate(store.EntityEdge)), func() iter.Seq2[*store.Edge, error] {
		return c.repo.ReadNodeEdges(ctx, tenantGUID, graphGUID, nodeGUID, q)
	})
}

func (c *Client) UpdateEdge(ctx context.Context, edge *store.Edge) (*store.Edge, error) {
	return c.repo.UpdateEdge(ctx, edge)
}

func (c *Client) DeleteEdge(ctx context.Context, tenantGUID, graphGUID, guid string) error {
	return c.repo.DeleteEdge(ctx, tenantGUID, graphGUID, guid)
}

func (c *Client) DeleteEdges(ctx context.Context, tenantGUID, graphGUID string, guids []string) error {
	if err := c.requireGraph(ctx, tenantGUID, graphGUID); err != nil {
		return err
	}
	return c.repo.DeleteEdges(ctx, tenantGUID, graphGUID, guids)
}

func (c *Client) DeleteAllEdges(ctx context.Context, tenantGUID, graphGUID string) error {
	if err := c.requireGraph(ctx, tenantGUID, graphGUID); err != nil {
		return err
	}
	return c.repo.DeleteAllEdges(ctx, tenantGUID, graphGUID)
}

func (c *Client) EdgeExists(ctx context.Context, tenantGUID, graphGUID, guid string) (bool, error) {
	return c.repo.EdgeExists(ctx, tenantGUID, graphGUID, guid)
}

// --- Metadata ---

// CreateTag requires the graph and the node or edge the tag is attached to.
func (c *Client) CreateTag(ctx context.Context, tag *store.TagMetadata) (*store.TagMetadata, error) {
	if tag == nil {
		return nil, lgerr.InvalidInput("tag is required")
	}
	if err := tag.Validate(); err != nil {
		return nil, err
	}
	if err := c.requireScope(ctx, tag.TenantGUID, tag.GraphGUID, tag.NodeGUID, tag.EdgeGUID); err != nil {
		return nil, err
	}
	return c.repo.CreateTag(ctx, tag)
}

func (c *Client) ReadTag(ctx context.Context, tenantGUID, graphGUID, guid string) (*store.TagMetadata, error) {
	return c.repo.ReadTag(ctx, tenantGUID, graphGUID, guid)
}

func (c *Client) ReadTags(ctx context.Context, tenantGUID, graphGUID string, f store.MetadataFilter) iter.Seq2[*store.TagMetadata, error] {
	return guarded(c.inGraph(ctx, tenantGUID, graphGUID, nil), func() iter.Seq2[*store.TagMetadata, error] {
		return c.repo.ReadTags(ctx, tenantGUID, graphGUID, f)
	})
}

func (c *Client) UpdateTag(ctx context.Context, tag *store.TagMetadata) (*store.TagMetadata, error) {
	if tag == nil {
		return nil, lgerr.InvalidInput("tag is required")
	}
	if err := c.requireScope(ctx, tag.TenantGUID, tag.GraphGUID, tag.NodeGUID, tag.EdgeGUID); err != nil {
		return nil, err
	}
	return c.repo.UpdateTag(ctx, tag)
}

func (c *Client) DeleteTag(ctx context.Context, tenantGUID, graphGUID, guid string) error {
	return c.repo.DeleteTag(ctx, tenantGUID, graphGUID, guid)
}

// CreateLabel requires the graph and the node or edge the label is attached to.
func (c *Client) CreateLabel(ctx context.Context, label *store.LabelMetadata) (*store.LabelMetadata, error) {
	if label == nil {
		return nil, lgerr.InvalidInput("label is required")
	}
	if err := label.Validate(); err != nil {
		return nil, err
	}
	if err := c.requireScope(ctx, label.TenantGUID, label.GraphGUID, label.NodeGUID, label.EdgeGUID); err != nil {
		return nil, err
	}
	return c.repo.CreateLabel(ctx, label)
}

func (c *Client) ReadLabel(ctx context.Context, tenantGUID, graphGUID, guid string) (*store.LabelMetadata, error) {
	return c.repo.ReadLabel(ctx, tenantGUID, graphGUID, guid)
}

func (c *Client) ReadLabels(ctx context.Context, tenantGUID, graphGUID string, f store.MetadataFilter) iter.Seq2[*store.LabelMetadata, error] {
	return guarded(c.inGraph(ctx, tenantGUID, graphGUID, nil), func() iter.Seq2[*store.LabelMetadata, error] {
		return c.repo.ReadLabels(ctx, tenantGUID, graphGUID, f)
	})
}

func (c *Client) UpdateLabel(ctx context.Context, label *store.LabelMetadata) (*store.LabelMetadata, error) {
	if label == nil {
		return nil, lgerr.InvalidInput("label is required")
	}
	if err := c.requireScope(ctx, label.TenantGUID, label.GraphGUID, label.NodeGUID, label.EdgeGUID); err != nil {
		return nil, err
	}
	return c.repo.UpdateLabel(ctx, label)
}

func (c *Client) DeleteLabel(ctx context.Context, tenantGUID, graphGUID, guid string) error {
	return c.repo.DeleteLabel(ctx, tenantGUID, graphGUID, guid)
}

// CreateVector requires the graph and the node or edge the vector is attached to.
func (c *Client) CreateVector(ctx context.Context, vector *store.VectorMetadata) (*store.VectorMetadata, error) {
	if vector == nil {
		return nil, lgerr.InvalidInput("vector is required")
	}
	if err := vector.Validate(); err != nil {
		return nil, err
	}
	if err := c.requireScope(ctx, vector.TenantGUID, vector.GraphGUID, vector.NodeGUID, vector.EdgeGUID); err != nil {
		return nil, err
	}
	return c.repo.CreateVector(ctx, vector)
}

func (c *Client) ReadVector(ctx context.Context, tenantGUID, graphGUID, guid string) (*store.VectorMetadata, error) {
	return c.repo.ReadVector(ctx, tenantGUID, graphGUID, guid)
}

func (c *Client) ReadVectors(ctx context.Context, tenantGUID, graphGUID string, f store.MetadataFilter) iter.Seq2[*store.VectorMetadata, error] {
	return guarded(c.inGraph(ctx, tenantGUID, graphGUID, nil), func() iter.Seq2[*store.VectorMetadata, error] {
		return c.repo.ReadVectors(ctx, tenantGUID, graphGUID, f)
	})
}

func (c *Client) UpdateVector(ctx context.Context, vector *store.VectorMetadata) (*store.VectorMetadata, error) {
	if vector == nil {
		return nil, lgerr.InvalidInput("vector is required")
	}
	if err := c.requireScope(ctx, vector.TenantGUID, vector.GraphGUID, vector.NodeGUID, vector.EdgeGUID); err != nil {
		return nil, err
	}
	return c.repo.UpdateVector(ctx, vector)
}

func (c *Client) DeleteVector(ctx context.Context, tenantGUID, graphGUID, guid string) error {
	return c.repo.DeleteVector(ctx, tenantGUID, graphGUID, guid)
}

// SearchVectors requires the tenant, and the graph when one is named.
func (c *Client) SearchVectors(ctx context.Context, req store.VectorSearchRequest) ([]*store.VectorSearchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var err error
	if req.GraphGUID != "" {
		err = c.requireGraph(ctx, req.TenantGUID, req.GraphGUID)
	} else {
		err = c.requireTenant(ctx, req.TenantGUID)
	}
	if err != nil {
		return nil, err
	}
	return c.repo.SearchVectors(ctx, req)
}

// --- Batch ---

func (c *Client) Exists(ctx context.Context, tenantGUID, graphGUID string, req store.ExistenceRequest) (*store.ExistenceResult, error) {
	if err := c.requireGraph(ctx, tenantGUID, graphGUID); err != nil {
		return nil, err
	}
	return c.repo.Exists(ctx, tenantGUID, graphGUID, req)
}

// --- Traversal ---

func (c *Client) Parents(ctx context.Context, req traversal.NeighborRequest) iter.Seq2[*store.Node, error] {
	return guarded(c.inGraph(ctx, req.TenantGUID, req.GraphGUID, req.Validate()), func() iter.Seq2[*store.Node, error] {
		return c.engine.Parents(ctx, req)
	})
}

func (c *Client) Children(ctx context.Context, req traversal.NeighborRequest) iter.Seq2[*store.Node, error] {
	return guarded(c.inGraph(ctx, req.TenantGUID, req.GraphGUID, req.Validate()), func() iter.Seq2[*store.Node, error] {
		return c.engine.Children(ctx, req)
	})
}

func (c *Client) Neighbors(ctx context.Context, req traversal.NeighborRequest) iter.Seq2[*store.Node, error] {
	return guarded(c.inGraph(ctx, req.TenantGUID, req.GraphGUID, req.Validate()), func() iter.Seq2[*store.Node, error] {
		return c.engine.Neighbors(ctx, req)
	})
}

// Routes finds every cycle-free route between two nodes of a graph.
func (c *Client) Routes(ctx context.Context, req traversal.RouteRequest) iter.Seq2[*traversal.Route, error] {
	return guarded(c.inGraph(ctx, req.TenantGUID, req.GraphGUID, req.Validate()), func() iter.Seq2[*traversal.Route, error] {
		return c.engine.Routes(ctx, req)
	})
}
