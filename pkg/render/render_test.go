package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/karthikmswamy/wheelhouse/pkg/dag"
)

func testGraph(t *testing.T) *dag.Graph {
	t.Helper()
	g := dag.New()
	for _, n := range []string{"pandas", "numpy", "requests"} {
		if err := g.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	if err := g.AddEdge(dag.Edge{From: "pandas", To: "numpy"}); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestToDOT(t *testing.T) {
	g := testGraph(t)
	dot := ToDOT(g, func(id string) bool { return id == "numpy" })

	if !strings.HasPrefix(dot, "digraph requirements {") {
		t.Errorf("DOT should open a digraph, got %q", dot[:30])
	}
	for _, want := range []string{
		`"numpy" [fillcolor=lightgrey];`,
		`"pandas";`,
		`"requests";`,
		`"pandas" -> "numpy";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTNilStyler(t *testing.T) {
	dot := ToDOT(testGraph(t), nil)
	if strings.Contains(dot, "lightgrey") {
		t.Error("nil styler should not highlight any node")
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	err := WriteJSON(testGraph(t), func(id string) bool { return id == "numpy" }, &buf)
	if err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var out struct {
		Nodes []struct {
			ID        string `json:"id"`
			Dependent bool   `json:"dependent"`
		} `json:"nodes"`
		Edges []struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"edges"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(out.Nodes) != 3 {
		t.Errorf("nodes = %d, want 3", len(out.Nodes))
	}
	if len(out.Edges) != 1 {
		t.Errorf("edges = %d, want 1", len(out.Edges))
	}
	for _, n := range out.Nodes {
		if n.ID == "numpy" && !n.Dependent {
			t.Error("numpy should be flagged dependent")
		}
		if n.ID == "pandas" && n.Dependent {
			t.Error("pandas should not be flagged dependent")
		}
	}
}
