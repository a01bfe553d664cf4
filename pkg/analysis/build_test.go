package analysis

import (
	"reflect"
	"testing"

	"sage/pkg/common"
)

func TestBuildGraph(t *testing.T) {
	tests := []struct {
		name    string
		payload *GraphPayload
		want    *common.Graph
	}{
		{
			name:    "nil payload",
			payload: nil,
			want:    nil,
		},
		{
			name:    "no nodes",
			payload: &GraphPayload{Edges: []EdgePayload{{From: "a", To: "b"}}},
			want:    nil,
		},
		{
			name: "nodes without edges degrade to disconnected graph",
			payload: &GraphPayload{
				Nodes: []NodePayload{{ID: "a", Label: "start"}, {ID: "b"}},
			},
			want: &common.Graph{
				Nodes: []common.Node{
					{ID: "a", Kind: common.NodeKindStep, Label: "start"},
					{ID: "b", Kind: common.NodeKindStep, Label: "b"},
				},
				Edges: []common.Edge{},
			},
		},
		{
			name: "duplicate id keeps first position with later content",
			payload: &GraphPayload{
				Nodes: []NodePayload{
					{ID: "a", Label: "first"},
					{ID: "b", Label: "middle"},
					{ID: "a", Label: "second", Type: "decision"},
				},
			},
			want: &common.Graph{
				Nodes: []common.Node{
					{ID: "a", Kind: common.NodeKindDecision, Label: "second"},
					{ID: "b", Kind: common.NodeKindStep, Label: "middle"},
				},
				Edges: []common.Edge{},
			},
		},
		{
			name: "blank ids and blank edge endpoints dropped, dangling edges kept",
			payload: &GraphPayload{
				Nodes: []NodePayload{{ID: " "}, {ID: "a"}},
				Edges: []EdgePayload{
					{From: "", To: "a"},
					{From: "a", To: "ghost", Reason: "dangling"},
				},
			},
			want: &common.Graph{
				Nodes: []common.Node{{ID: "a", Kind: common.NodeKindStep, Label: "a"}},
				Edges: []common.Edge{{From: "a", To: "ghost", Reason: "dangling"}},
			},
		},
		{
			name: "kind normalization",
			payload: &GraphPayload{
				Nodes: []NodePayload{
					{ID: "a", Type: "branch"},
					{ID: "b", Type: "END"},
					{ID: "c", Type: "something else"},
				},
			},
			want: &common.Graph{
				Nodes: []common.Node{
					{ID: "a", Kind: common.NodeKindDecision, Label: "a"},
					{ID: "b", Kind: common.NodeKindTerminal, Label: "b"},
					{ID: "c", Kind: common.NodeKindStep, Label: "c"},
				},
				Edges: []common.Edge{},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BuildGraph(tt.payload)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildGraph() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBuild_OptionalFieldsAbsent(t *testing.T) {
	payload := &ResponsePayload{
		Domain:         "algebra",
		ProblemSummary: "solve for x",
		Steps:          []StepPayload{{StepID: "step1", Explanation: "isolate x"}},
		ReasoningGraph: &GraphPayload{Nodes: []NodePayload{{ID: "step1"}}},
	}

	a := Build(payload)
	if a == nil {
		t.Fatal("Build() = nil")
	}
	if a.Misconceptions != nil {
		t.Errorf("Misconceptions = %+v, want nil", a.Misconceptions)
	}
	if a.Flashcards != nil {
		t.Errorf("Flashcards = %+v, want nil", a.Flashcards)
	}
	if a.CodeSolution != nil {
		t.Errorf("CodeSolution = %+v, want nil", a.CodeSolution)
	}
	if len(a.Steps) != 1 || a.Steps[0].StepID != "step1" {
		t.Errorf("Steps = %+v, want one step1", a.Steps)
	}
	if a.Reasoning == nil || len(a.Reasoning.Nodes) != 1 {
		t.Errorf("Reasoning = %+v, want one node", a.Reasoning)
	}
}

func TestBuild_EmptySteps(t *testing.T) {
	payload := &ResponsePayload{
		Steps: []StepPayload{{}, {StepID: "step1"}},
	}

	a := Build(payload)
	if len(a.Steps) != 1 {
		t.Errorf("len(Steps) = %d, want 1 (empty entries dropped)", len(a.Steps))
	}
}
