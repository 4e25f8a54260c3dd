package depgraph

import (
	"encoding/json"
	"fmt"
	"io"
)

type jsonGraph struct {
	Nodes []jsonNode `json:"nodes"`
	Edges []jsonEdge `json:"edges"`
}

type jsonNode struct {
	ID   string   `json:"id"`
	Meta Metadata `json:"meta,omitempty"`
}

type jsonEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteJSON encodes the graph as indented JSON. The output can be
// re-imported with [ReadJSON].
func WriteJSON(g *Graph, w io.Writer) error {
	out := jsonGraph{
		Nodes: make([]jsonNode, 0, len(g.nodes)),
		Edges: make([]jsonEdge, 0, len(g.edges)),
	}
	for _, n := range g.Nodes() {
		meta := n.Meta
		if len(meta) == 0 {
			meta = nil
		}
		out.Nodes = append(out.Nodes, jsonNode{ID: n.ID, Meta: meta})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, jsonEdge{From: e.From, To: e.To})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode graph: %w", err)
	}
	return nil
}

// ReadJSON decodes a graph previously written with [WriteJSON].
func ReadJSON(r io.Reader) (*Graph, error) {
	var in jsonGraph
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	g := New()
	for _, n := range in.Nodes {
		if err := g.AddNode(Node{ID: n.ID, Meta: n.Meta}); err != nil {
			return nil, err
		}
	}
	for _, e := range in.Edges {
		if err := g.AddEdge(Edge{From: e.From, To: e.To}); err != nil {
			return nil, err
		}
	}
	return g, nil
}
