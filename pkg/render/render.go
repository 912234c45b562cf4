// Package render exports the in-scope dependency graph of a split run as
// Graphviz DOT, SVG, or JSON. Export is a read-only view of the graph and
// never influences classification.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-graphviz"

	"github.com/karthikmswamy/wheelhouse/pkg/dag"
)

// DependentStyler reports whether a node should be highlighted as dependent.
type DependentStyler func(id string) bool

// ToDOT converts the graph to Graphviz DOT. Dependent nodes (per isDependent)
// are filled to visually separate the two partitions; pass nil to render all
// nodes uniformly.
func ToDOT(g *dag.Graph, isDependent DependentStyler) string {
	var buf bytes.Buffer
	buf.WriteString("digraph requirements {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("\n")

	for _, id := range g.Nodes() {
		if isDependent != nil && isDependent(id) {
			fmt.Fprintf(&buf, "  %q [fillcolor=lightgrey];\n", id)
		} else {
			fmt.Fprintf(&buf, "  %q;\n", id)
		}
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

type jsonGraph struct {
	Nodes []jsonNode `json:"nodes"`
	Edges []jsonEdge `json:"edges"`
}

type jsonNode struct {
	ID        string `json:"id"`
	Dependent bool   `json:"dependent,omitempty"`
}

type jsonEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteJSON encodes the graph as JSON and writes it to w. The output lists
// all nodes (flagging dependent ones) and all in-scope edges.
func WriteJSON(g *dag.Graph, isDependent DependentStyler, w io.Writer) error {
	out := jsonGraph{
		Nodes: make([]jsonNode, 0, g.NodeCount()),
		Edges: make([]jsonEdge, 0, g.EdgeCount()),
	}

	for _, id := range g.Nodes() {
		n := jsonNode{ID: id}
		if isDependent != nil {
			n.Dependent = isDependent(id)
		}
		out.Nodes = append(out.Nodes, n)
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, jsonEdge{From: e.From, To: e.To})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes the graph to a JSON file at path.
func ExportJSON(g *dag.Graph, isDependent DependentStyler, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, isDependent, f)
}

// ExportDOT writes the graph in DOT format to path.
func ExportDOT(g *dag.Graph, isDependent DependentStyler, path string) error {
	return os.WriteFile(path, []byte(ToDOT(g, isDependent)), 0644)
}

// ExportSVG renders the graph and writes the SVG to path.
func ExportSVG(g *dag.Graph, isDependent DependentStyler, path string) error {
	svg, err := RenderSVG(ToDOT(g, isDependent))
	if err != nil {
		return err
	}
	return os.WriteFile(path, svg, 0644)
}
