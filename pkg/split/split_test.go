package split

import (
	"reflect"
	"testing"

	"github.com/karthikmswamy/wheelhouse/pkg/pip"
	"github.com/karthikmswamy/wheelhouse/pkg/requirements"
)

func TestDependedUpon(t *testing.T) {
	tests := []struct {
		name     string
		original map[string]bool
		records  []pip.GraphRecord
		want     map[string]bool
	}{
		{
			name:     "simple edge",
			original: map[string]bool{"a": true, "b": true},
			records: []pip.GraphRecord{
				{Key: "a", Dependencies: []pip.Dependency{{Key: "b"}}},
				{Key: "b", Dependencies: nil},
			},
			want: map[string]bool{"b": true},
		},
		{
			name:     "out-of-scope dependency ignored",
			original: map[string]bool{"a": true},
			records: []pip.GraphRecord{
				{Key: "a", Dependencies: []pip.Dependency{{Key: "six"}}},
				{Key: "six", Dependencies: nil},
			},
			want: map[string]bool{},
		},
		{
			name:     "out-of-scope dependent ignored",
			original: map[string]bool{"b": true},
			records: []pip.GraphRecord{
				{Key: "transitive-tool", Dependencies: []pip.Dependency{{Key: "b"}}},
				{Key: "b", Dependencies: nil},
			},
			want: map[string]bool{},
		},
		{
			name:     "unreferenced package is untouched",
			original: map[string]bool{"a": true, "b": true, "c": true},
			records: []pip.GraphRecord{
				{Key: "a", Dependencies: []pip.Dependency{{Key: "b"}}},
				{Key: "b", Dependencies: nil},
			},
			want: map[string]bool{"b": true},
		},
		{
			name:     "no records",
			original: map[string]bool{"a": true},
			records:  nil,
			want:     map[string]bool{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DependedUpon(tt.original, tt.records)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DependedUpon = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPartition(t *testing.T) {
	raw := []string{"a==1.0", "b>=2.0"}
	depended := map[string]bool{"b": true}

	independent, dependent := Partition(raw, depended)

	if !reflect.DeepEqual(independent, []string{"a==1.0"}) {
		t.Errorf("independent = %v, want [a==1.0]", independent)
	}
	if !reflect.DeepEqual(dependent, []string{"b>=2.0"}) {
		t.Errorf("dependent = %v, want [b>=2.0]", dependent)
	}
}

func TestPartitionExhaustive(t *testing.T) {
	raw := []string{"numpy==1.23.4", "pandas>=2.0", "requests", "urllib3!=1.25", "flask~=2.3"}
	depended := map[string]bool{"numpy": true, "urllib3": true}

	independent, dependent := Partition(raw, depended)

	if got := len(independent) + len(dependent); got != len(raw) {
		t.Fatalf("len(independent)+len(dependent) = %d, want %d", got, len(raw))
	}

	// Order within each subset follows input order.
	if !reflect.DeepEqual(independent, []string{"pandas>=2.0", "requests", "flask~=2.3"}) {
		t.Errorf("independent = %v", independent)
	}
	if !reflect.DeepEqual(dependent, []string{"numpy==1.23.4", "urllib3!=1.25"}) {
		t.Errorf("dependent = %v", dependent)
	}
}

func TestPartitionEmpty(t *testing.T) {
	independent, dependent := Partition(nil, map[string]bool{})
	if len(independent) != 0 || len(dependent) != 0 {
		t.Errorf("Partition(nil) = %v, %v, want empty", independent, dependent)
	}
}

func TestClassificationConsistentWithGraph(t *testing.T) {
	raw := []string{"pandas==2.0", "numpy==1.23", "python-dateutil", "requests"}
	original := requirements.BaseNameSet(raw)
	records := []pip.GraphRecord{
		{Key: "pandas", Dependencies: []pip.Dependency{{Key: "numpy"}, {Key: "python-dateutil"}, {Key: "pytz"}}},
		{Key: "numpy", Dependencies: nil},
		{Key: "python-dateutil", Dependencies: []pip.Dependency{{Key: "six"}}},
		{Key: "requests", Dependencies: []pip.Dependency{{Key: "urllib3"}, {Key: "idna"}}},
	}

	depended := DependedUpon(original, records)
	_, dependent := Partition(raw, depended)

	// A specifier is dependent iff some other in-scope package's dependency
	// list contains its base name.
	for _, spec := range dependent {
		name := requirements.BaseName(spec)
		found := false
		for _, rec := range records {
			if !original[rec.Key] || rec.Key == name {
				continue
			}
			for _, dep := range rec.Dependencies {
				if dep.Key == name {
					found = true
				}
			}
		}
		if !found {
			t.Errorf("%s classified dependent but no in-scope record depends on it", spec)
		}
	}

	if !reflect.DeepEqual(dependent, []string{"numpy==1.23", "python-dateutil"}) {
		t.Errorf("dependent = %v", dependent)
	}
}

func TestGraph(t *testing.T) {
	original := map[string]bool{"pandas": true, "numpy": true, "requests": true}
	records := []pip.GraphRecord{
		{Key: "pandas", Dependencies: []pip.Dependency{{Key: "numpy"}, {Key: "pytz"}}},
		{Key: "numpy", Dependencies: nil},
		{Key: "requests", Dependencies: []pip.Dependency{{Key: "urllib3"}}},
		{Key: "outsider", Dependencies: []pip.Dependency{{Key: "numpy"}}},
	}

	g := Graph(original, records)

	if got := g.NodeCount(); got != 3 {
		t.Errorf("NodeCount = %d, want 3", got)
	}
	if got := g.EdgeCount(); got != 1 {
		t.Errorf("EdgeCount = %d, want 1 (only in-scope edges)", got)
	}
	if got := g.InDegree("numpy"); got != 1 {
		t.Errorf("InDegree(numpy) = %d, want 1", got)
	}
	if g.HasNode("outsider") || g.HasNode("pytz") {
		t.Error("out-of-scope packages must not appear in the graph")
	}
}
