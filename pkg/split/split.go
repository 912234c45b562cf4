// Package split classifies the packages of a requirements list by their
// dependency relations to each other.
//
// A package is "dependent" when at least one sibling from the same list
// depends on it, and "independent" otherwise. Only edges between listed
// packages matter: transitive-only dependencies and dependents outside the
// list never affect the classification.
package split

import (
	"github.com/karthikmswamy/wheelhouse/pkg/dag"
	"github.com/karthikmswamy/wheelhouse/pkg/pip"
	"github.com/karthikmswamy/wheelhouse/pkg/requirements"
)

// DependedUpon returns the base names that appear as a dependency of some
// other in-scope package. Both edge endpoints must lie in the original set.
func DependedUpon(original map[string]bool, records []pip.GraphRecord) map[string]bool {
	depended := make(map[string]bool)
	for _, rec := range records {
		if !original[rec.Key] {
			continue
		}
		for _, dep := range rec.Dependencies {
			if original[dep.Key] {
				depended[dep.Key] = true
			}
		}
	}
	return depended
}

// Partition splits the raw specifiers into independent and dependent
// sequences, preserving input order within each. The two sequences are
// mutually exclusive and exhaustive: every raw specifier lands in exactly
// one of them.
func Partition(raw []string, depended map[string]bool) (independent, dependent []string) {
	for _, spec := range raw {
		if depended[requirements.BaseName(spec)] {
			dependent = append(dependent, spec)
		} else {
			independent = append(independent, spec)
		}
	}
	return independent, dependent
}

// Graph builds the in-scope dependency graph: one node per member of the
// original set, one edge per reported dependency relation whose endpoints
// are both in scope. The graph is used for export and summary statistics;
// classification itself does not depend on it.
func Graph(original map[string]bool, records []pip.GraphRecord) *dag.Graph {
	g := dag.New()
	for name := range original {
		_ = g.AddNode(name)
	}
	for _, rec := range records {
		if !original[rec.Key] {
			continue
		}
		for _, dep := range rec.Dependencies {
			if original[dep.Key] {
				_ = g.AddEdge(dag.Edge{From: rec.Key, To: dep.Key})
			}
		}
	}
	return g
}
