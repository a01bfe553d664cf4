package layout

import (
	"reflect"
	"testing"

	"sage/pkg/common"
)

func nodeList(ids ...string) []common.Node {
	nodes := make([]common.Node, len(ids))
	for i, id := range ids {
		nodes[i] = common.Node{ID: id}
	}
	return nodes
}

func TestAssignLevels(t *testing.T) {
	tests := []struct {
		name  string
		nodes []common.Node
		edges []common.Edge
		want  map[string]int
	}{
		{
			name:  "empty graph",
			nodes: nil,
			edges: nil,
			want:  map[string]int{},
		},
		{
			name:  "single node",
			nodes: nodeList("a"),
			want:  map[string]int{"a": 0},
		},
		{
			name:  "linear chain",
			nodes: nodeList("a", "b", "c"),
			edges: []common.Edge{{From: "a", To: "b"}, {From: "b", To: "c"}},
			want:  map[string]int{"a": 0, "b": 1, "c": 2},
		},
		{
			name:  "diamond",
			nodes: nodeList("a", "b", "c", "d"),
			edges: []common.Edge{
				{From: "a", To: "b"},
				{From: "a", To: "c"},
				{From: "b", To: "d"},
				{From: "c", To: "d"},
			},
			want: map[string]int{"a": 0, "b": 1, "c": 1, "d": 2},
		},
		{
			name:  "pure cycle seeds from first node",
			nodes: nodeList("a", "b", "c"),
			edges: []common.Edge{
				{From: "a", To: "b"},
				{From: "b", To: "c"},
				{From: "c", To: "a"},
			},
			want: map[string]int{"a": 0, "b": 1, "c": 2},
		},
		{
			name:  "disconnected component keeps level zero",
			nodes: nodeList("a", "b", "x", "y"),
			edges: []common.Edge{
				{From: "a", To: "b"},
				{From: "x", To: "y"},
			},
			want: map[string]int{"a": 0, "b": 1, "x": 0, "y": 1},
		},
		{
			name:  "dangling edges excluded from propagation",
			nodes: nodeList("a", "b"),
			edges: []common.Edge{
				{From: "a", To: "b"},
				{From: "ghost", To: "b"},
				{From: "b", To: "phantom"},
			},
			want: map[string]int{"a": 0, "b": 1},
		},
		{
			name:  "cycle hanging off a root still terminates",
			nodes: nodeList("r", "a", "b"),
			edges: []common.Edge{
				{From: "r", To: "a"},
				{From: "a", To: "b"},
				{From: "b", To: "a"},
			},
			want: map[string]int{"r": 0, "a": 1, "b": 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssignLevels(tt.nodes, tt.edges)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("AssignLevels() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssignLevels_Idempotent(t *testing.T) {
	nodes := nodeList("a", "b", "c", "d")
	edges := []common.Edge{
		{From: "a", To: "b"},
		{From: "b", To: "c"},
		{From: "a", To: "d"},
	}

	first := AssignLevels(nodes, edges)
	second := AssignLevels(nodes, edges)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("AssignLevels() not idempotent: %v vs %v", first, second)
	}
}

func TestAssignLevels_CycleAssignsEveryNodeOnce(t *testing.T) {
	nodes := nodeList("a", "b", "c", "d", "e")
	edges := make([]common.Edge, len(nodes))
	for i := range nodes {
		edges[i] = common.Edge{From: nodes[i].ID, To: nodes[(i+1)%len(nodes)].ID}
	}

	levels := AssignLevels(nodes, edges)
	if len(levels) != len(nodes) {
		t.Fatalf("len(levels) = %d, want %d", len(levels), len(nodes))
	}
	for id, level := range levels {
		if level < 0 {
			t.Errorf("node %s has negative level %d", id, level)
		}
	}
}
