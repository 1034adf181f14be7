// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package traversal

import (
	"context"
	"iter"
	"log/slog"

	"github.com/sigil-dev/litegraph/internal/store"
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
	"github.com/sigil-dev/litegraph/pkg/expr"
)

// GraphReader is the subset of the repository the engine reads through.
type GraphReader interface {
	ReadNode(ctx context.Context, tenantGUID, graphGUID, guid string) (*store.Node, error)
	ReadNodes(ctx context.Context, tenantGUID, graphGUID string, q store.ListQuery) iter.Seq2[*store.Node, error]
	ReadEdgesFrom(ctx context.Context, tenantGUID, graphGUID, nodeGUID string, q store.ListQuery) iter.Seq2[*store.Edge, error]
	ReadNodeEdges(ctx context.Context, tenantGUID, graphGUID, nodeGUID string, q store.ListQuery) iter.Seq2[*store.Edge, error]
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for dangling-reference warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine answers neighborhood and route queries. It keeps no state between
// calls beyond its reader.
type Engine struct {
	reader GraphReader
	logger *slog.Logger
}

// New creates an Engine reading through reader.
func New(reader GraphReader, opts ...Option) *Engine {
	e := &Engine{reader: reader, logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NeighborRequest selects the nodes adjacent to NodeGUID.
type NeighborRequest struct {
	TenantGUID string
	GraphGUID  string
	NodeGUID   string
	// Order sorts the connecting edges; the result follows that order.
	Order store.EnumerationOrder
	// EdgeFilter restricts which connecting edges are considered.
	EdgeFilter *expr.Expr
}

// Validate rejects incomplete requests and orders that do not apply to nodes.
func (r NeighborRequest) Validate() error {
	if r.TenantGUID == "" || r.GraphGUID == "" || r.NodeGUID == "" {
		return lgerr.InvalidInput("neighbor request: TenantGUID, GraphGUID and NodeGUID are required")
	}
	return store.ListQuery{Order: r.Order}.Validate(store.EntityNode)
}

type direction int

const (
	inbound direction = 1 << iota
	outbound
)

// Parents yields the nodes with an edge pointing at the request node.
func (e *Engine) Parents(ctx context.Context, req NeighborRequest) iter.Seq2[*store.Node, error] {
	return e.adjacent(ctx, req, inbound)
}

// Children yields the nodes the request node has an edge pointing at.
func (e *Engine) Children(ctx context.Context, req NeighborRequest) iter.Seq2[*store.Node, error] {
	return e.adjacent(ctx, req, outbound)
}

// Neighbors yields parents and children, each node once.
func (e *Engine) Neighbors(ctx context.Context, req NeighborRequest) iter.Seq2[*store.Node, error] {
	return e.adjacent(ctx, req, inbound|outbound)
}

func (e *Engine) adjacent(ctx context.Context, req NeighborRequest, dir direction) iter.Seq2[*store.Node, error] {
	return func(yield func(*store.Node, error) bool) {
		if err := req.Validate(); err != nil {
			yield(nil, err)
			return
		}

		q := store.ListQuery{Order: req.Order, Filter: req.EdgeFilter}
		edges, err := store.Collect(e.reader.ReadNodeEdges(ctx, req.TenantGUID, req.GraphGUID, req.NodeGUID, q))
		if err != nil {
			yield(nil, err)
			return
		}

		seen := make(map[string]struct{})
		for _, edge := range edges {
			var other string
			switch {
			case dir&outbound != 0 && edge.From == req.NodeGUID:
				other = edge.To
			case dir&inbound != 0 && edge.To == req.NodeGUID:
				other = edge.From
			default:
				continue
			}
			if _, dup := seen[other]; dup {
				continue
			}
			seen[other] = struct{}{}

			node, err := e.reader.ReadNode(ctx, req.TenantGUID, req.GraphGUID, other)
			if err != nil {
				yield(nil, err)
				return
			}
			if node == nil {
				e.logger.Warn("edge references missing node, skipping",
					slog.String("tenant_guid", req.TenantGUID),
					slog.String("graph_guid", req.GraphGUID),
					slog.String("edge", edge.GUID),
					slog.String("node", other),
				)
				continue
			}
			if !yield(node, nil) {
				return
			}
		}
	}
}
