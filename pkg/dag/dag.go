// Package dag provides a small directed graph used to hold the in-scope
// dependency edges of a requirement split: nodes are base package names from
// the original requirements list, edges point from a package to a dependency.
package dag

import (
	"errors"
	"maps"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Edge represents a directed dependency edge between two nodes.
type Edge struct {
	From string // depending package
	To   string // dependency
}

// Graph is a directed graph keyed by node ID. Pip dependency data can contain
// cycles (rare, but circular requirements exist), so acyclicity is not
// enforced. Graph is not safe for concurrent use.
type Graph struct {
	nodes    map[string]bool
	edges    []Edge
	outgoing map[string][]string // nodeID -> dependency IDs
	incoming map[string][]string // nodeID -> dependent IDs
}

// New creates an empty Graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]bool),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// AddNode adds a node to the graph. Returns ErrInvalidNodeID if id is empty,
// or ErrDuplicateNodeID if the node already exists.
func (g *Graph) AddNode(id string) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	if g.nodes[id] {
		return ErrDuplicateNodeID
	}
	g.nodes[id] = true
	return nil
}

// AddEdge adds a directed edge between two existing nodes.
// Returns ErrUnknownSourceNode or ErrUnknownTargetNode if either endpoint is
// missing. Multiple edges between the same nodes are allowed.
func (g *Graph) AddEdge(e Edge) error {
	if !g.nodes[e.From] {
		return ErrUnknownSourceNode
	}
	if !g.nodes[e.To] {
		return ErrUnknownTargetNode
	}
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return nil
}

// HasNode reports whether the node exists in the graph.
func (g *Graph) HasNode(id string) bool { return g.nodes[id] }

// Nodes returns all node IDs in sorted order.
func (g *Graph) Nodes() []string {
	return slices.Sorted(maps.Keys(g.nodes))
}

// Edges returns a copy of all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the IDs this node has edges to (its dependencies).
// Returns nil if the node has no children or doesn't exist. The returned
// slice should not be modified.
func (g *Graph) Children(id string) []string { return g.outgoing[id] }

// Parents returns the IDs that have edges to this node (its dependents).
// Returns nil if the node has no parents or doesn't exist. The returned
// slice should not be modified.
func (g *Graph) Parents(id string) []string { return g.incoming[id] }

// OutDegree returns the number of outgoing edges from the node.
func (g *Graph) OutDegree(id string) int { return len(g.outgoing[id]) }

// InDegree returns the number of incoming edges to the node.
// A node with InDegree > 0 is depended upon by some other node.
func (g *Graph) InDegree(id string) int { return len(g.incoming[id]) }

// Sources returns node IDs with no incoming edges, in sorted order.
// In a split graph these are the packages nothing else in scope depends on.
func (g *Graph) Sources() []string {
	var sources []string
	for id := range g.nodes {
		if len(g.incoming[id]) == 0 {
			sources = append(sources, id)
		}
	}
	slices.Sort(sources)
	return sources
}

// Sinks returns node IDs with no outgoing edges, in sorted order.
func (g *Graph) Sinks() []string {
	var sinks []string
	for id := range g.nodes {
		if len(g.outgoing[id]) == 0 {
			sinks = append(sinks, id)
		}
	}
	slices.Sort(sinks)
	return sinks
}
