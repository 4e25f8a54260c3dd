// Package depgraph models the dependency graph resolved from a manifest
// and exports it as JSON, Graphviz DOT, SVG, or PNG.
package depgraph

import (
	"errors"
	"maps"
	"slices"
)

// Root is the synthetic node representing the manifest itself. Every
// direct requirement hangs off this node.
const Root = "__manifest__"

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From
	// node does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To
	// node does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Metadata stores arbitrary key-value pairs attached to nodes, typically
// package metadata (version, summary) or flags ("virtual" for the root).
type Metadata map[string]any

// Node is a package in the dependency graph.
type Node struct {
	ID   string   // normalized package name, or [Root]
	Meta Metadata // never nil after AddNode
}

// Edge is a directed dependency: From requires To.
type Edge struct {
	From string
	To   string
}

// Graph is a directed graph of package dependencies. Node and edge
// iteration order is deterministic (insertion order for edges, sorted
// IDs for nodes). Not safe for concurrent mutation.
type Graph struct {
	nodes    map[string]*Node
	edges    []Edge
	edgeSet  map[Edge]bool
	children map[string][]string
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]*Node),
		edgeSet:  make(map[Edge]bool),
		children: make(map[string][]string),
	}
}

// AddNode inserts n. Adding an existing ID is a no-op so crawlers can
// insert nodes opportunistically; metadata from the first insertion wins
// unless updated with SetMeta.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, ok := g.nodes[n.ID]; ok {
		return nil
	}
	if n.Meta == nil {
		n.Meta = make(Metadata)
	}
	g.nodes[n.ID] = &n
	return nil
}

// SetMeta merges meta into the node's metadata.
func (g *Graph) SetMeta(id string, meta Metadata) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	maps.Copy(n.Meta, meta)
	return true
}

// AddEdge inserts a directed edge. Both endpoints must already exist.
// Duplicate edges are ignored.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	if g.edgeSet[e] {
		return nil
	}
	g.edgeSet[e] = true
	g.edges = append(g.edges, e)
	g.children[e.From] = append(g.children[e.From], e.To)
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes sorted by ID.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.nodes))
	for _, id := range slices.Sorted(maps.Keys(g.nodes)) {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Children returns the direct dependencies of id.
func (g *Graph) Children(id string) []string { return slices.Clone(g.children[id]) }

// NodeCount returns the number of nodes, excluding the synthetic root.
func (g *Graph) NodeCount() int {
	n := len(g.nodes)
	if _, ok := g.nodes[Root]; ok {
		n--
	}
	return n
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }
