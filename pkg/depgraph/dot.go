package depgraph

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"
)

// ToDOT converts the graph to Graphviz DOT. The manifest root renders
// with a dashed outline; package nodes are labeled with their version
// when known.
func ToDOT(g *Graph) string {
	var buf bytes.Buffer
	buf.WriteString("digraph deps {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n))}
		if n.ID == Root {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n *Node) string {
	if n.ID == Root {
		return "manifest"
	}
	if v, ok := n.Meta["version"].(string); ok && v != "" {
		return n.ID + "\n" + v
	}
	return n.ID
}

// RenderSVG renders the graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, g *Graph) ([]byte, error) {
	return render(ctx, g, graphviz.SVG)
}

// RenderPNG renders the graph to PNG using Graphviz.
func RenderPNG(ctx context.Context, g *Graph) ([]byte, error) {
	return render(ctx, g, graphviz.PNG)
}

func render(ctx context.Context, g *Graph, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(ToDOT(g)))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, format, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
