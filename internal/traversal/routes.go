// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sigil Contributors

package traversal

import (
	"cmp"
	"context"
	"errors"
	"iter"
	"slices"

	"github.com/sigil-dev/litegraph/internal/store"
	lgerr "github.com/sigil-dev/litegraph/pkg/errors"
	"github.com/sigil-dev/litegraph/pkg/expr"
)

// SearchType selects the route search algorithm.
type SearchType string

// DepthFirst is the only supported search.
const DepthFirst SearchType = "DepthFirst"

// RouteRequest asks for every cycle-free route from From to To.
type RouteRequest struct {
	TenantGUID string
	GraphGUID  string
	From       string
	To         string
	// SearchType defaults to DepthFirst.
	SearchType SearchType
	// EdgeFilter restricts the edges a route may use.
	EdgeFilter *expr.Expr
	// NodeFilter restricts the intermediate nodes a route may pass through.
	// The endpoints are always allowed.
	NodeFilter *expr.Expr
}

// Validate checks the request before any store access.
func (r RouteRequest) Validate() error {
	if r.TenantGUID == "" || r.GraphGUID == "" {
		return lgerr.InvalidInput("route request: TenantGUID and GraphGUID are required")
	}
	if r.From == "" || r.To == "" {
		return lgerr.InvalidInput("route request: From and To are required")
	}
	switch r.SearchType {
	case "", DepthFirst:
		return nil
	default:
		return lgerr.New(lgerr.CodeTraversalSearchInvalid, "unsupported search type",
			lgerr.Field("search_type", string(r.SearchType)))
	}
}

// Route is one path between two nodes.
type Route struct {
	Edges     []*store.Edge
	Nodes     []string // node GUIDs from source to destination
	TotalCost int
}

// SortRoutesByCost orders routes by ascending total cost, shorter routes first on ties.
func SortRoutesByCost(routes []*Route) {
	slices.SortStableFunc(routes, func(a, b *Route) int {
		if c := cmp.Compare(a.TotalCost, b.TotalCost); c != 0 {
			return c
		}
		return cmp.Compare(len(a.Edges), len(b.Edges))
	})
}

// Routes yields routes from req.From to req.To as the depth-first search
// finds them. No node appears twice on a route, so cycles terminate.
func (e *Engine) Routes(ctx context.Context, req RouteRequest) iter.Seq2[*Route, error] {
	return func(yield func(*Route, error) bool) {
		if err := req.Validate(); err != nil {
			yield(nil, err)
			return
		}
		for _, end := range []struct{ role, guid string }{{"from", req.From}, {"to", req.To}} {
			n, err := e.reader.ReadNode(ctx, req.TenantGUID, req.GraphGUID, end.guid)
			if err != nil {
				yield(nil, err)
				return
			}
			if n == nil {
				yield(nil, lgerr.New(lgerr.CodeTraversalEndpointMissing, "route endpoint "+end.guid+" does not exist",
					lgerr.FieldGraphID(req.GraphGUID),
					lgerr.FieldEntity(string(store.EntityNode)),
					lgerr.FieldGUID(end.guid),
					lgerr.Field("endpoint", end.role)))
				return
			}
		}

		allowed, err := e.allowedNodes(ctx, req)
		if err != nil {
			yield(nil, err)
			return
		}

		s := &search{
			engine:  e,
			req:     req,
			allowed: allowed,
			visited: map[string]struct{}{req.From: {}},
			yield:   yield,
		}
		if err := s.walk(ctx, req.From); err != nil && !errors.Is(err, errStop) {
			yield(nil, err)
		}
	}
}

// allowedNodes resolves NodeFilter into a set, or nil when every node is allowed.
func (e *Engine) allowedNodes(ctx context.Context, req RouteRequest) (map[string]struct{}, error) {
	if req.NodeFilter == nil {
		return nil, nil
	}
	allowed := make(map[string]struct{})
	for n, err := range e.reader.ReadNodes(ctx, req.TenantGUID, req.GraphGUID, store.ListQuery{Filter: req.NodeFilter}) {
		if err != nil {
			return nil, err
		}
		allowed[n.GUID] = struct{}{}
	}
	return allowed, nil
}

// errStop signals that the consumer stopped iterating.
var errStop = errors.New("route iteration stopped")

// search holds the state of one Routes call. visited and path describe the
// route currently being extended.
type search struct {
	engine  *Engine
	req     RouteRequest
	allowed map[string]struct{}
	visited map[string]struct{}
	path    []*store.Edge
	yield   func(*Route, error) bool
}

func (s *search) walk(ctx context.Context, current string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	q := store.ListQuery{Order: store.OrderCostAscending, Filter: s.req.EdgeFilter}
	edges, err := store.Collect(s.engine.reader.ReadEdgesFrom(ctx, s.req.TenantGUID, s.req.GraphGUID, current, q))
	if err != nil {
		return err
	}

	for _, edge := range edges {
		if edge.To == s.req.To {
			if !s.yield(s.route(edge), nil) {
				return errStop
			}
			continue
		}
		if _, seen := s.visited[edge.To]; seen {
			continue
		}
		if s.allowed != nil {
			if _, ok := s.allowed[edge.To]; !ok {
				continue
			}
		}

		s.visited[edge.To] = struct{}{}
		s.path = append(s.path, edge)
		err := s.walk(ctx, edge.To)
		s.path = s.path[:len(s.path)-1]
		delete(s.visited, edge.To)
		if err != nil {
			return err
		}
	}
	return nil
}

// route copies the current path extended by last.
func (s *search) route(last *store.Edge) *Route {
	edges := append(slices.Clone(s.path), last)
	r := &Route{Edges: edges, Nodes: make([]string, 0, len(edges)+1)}
	r.Nodes = append(r.Nodes, s.req.From)
	for _, e := range edges {
		r.Nodes = append(r.Nodes, e.To)
		r.TotalCost += e.Cost
	}
	return r
}
