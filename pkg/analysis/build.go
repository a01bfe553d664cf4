package analysis

import (
	"strings"

	"sage/pkg/common"
)

// Build validates a recovered payload into a typed Analysis. Optional
// collections that are absent stay nil; they are empty states for the
// renderer, not errors.
func Build(payload *ResponsePayload) *common.Analysis {
	if payload == nil {
		return nil
	}

	a := &common.Analysis{
		Domain:         strings.TrimSpace(payload.Domain),
		ProblemSummary: strings.TrimSpace(payload.ProblemSummary),
		ChatResponse:   strings.TrimSpace(payload.ChatResponse),
		Reasoning:      BuildGraph(payload.ReasoningGraph),
		Misconceptions: BuildGraph(payload.MisconceptionGraph),
	}

	for _, s := range payload.Steps {
		if strings.TrimSpace(s.StepID) == "" && strings.TrimSpace(s.Explanation) == "" {
			continue
		}
		a.Steps = append(a.Steps, common.Step{
			StepID:      strings.TrimSpace(s.StepID),
			Title:       s.Title,
			Explanation: s.Explanation,
			Expression:  s.Expression,
			CommonError: s.CommonError,
		})
	}

	for _, f := range payload.Flashcards {
		if strings.TrimSpace(f.Front) == "" {
			continue
		}
		a.Flashcards = append(a.Flashcards, common.Flashcard{Front: f.Front, Back: f.Back})
	}

	if payload.CodeSolution != nil && strings.TrimSpace(payload.CodeSolution.Code) != "" {
		a.CodeSolution = &common.CodeSolution{
			Language:    payload.CodeSolution.Language,
			Code:        payload.CodeSolution.Code,
			Walkthrough: payload.CodeSolution.Walkthrough,
		}
	}

	return a
}

// BuildGraph validates a wire graph into a typed graph. It returns nil
// when the graph has no renderable nodes; an empty or missing edge list
// degrades to a disconnected layout rather than failing.
//
// Node ids are identity: a duplicate id is a modeling error and the later
// write wins, keeping the position of the first occurrence. Edges with a
// blank endpoint are dropped; edges referencing unknown nodes are kept —
// layout tolerates them and level propagation skips them.
func BuildGraph(payload *GraphPayload) *common.Graph {
	if payload == nil {
		return nil
	}

	nodes := make([]common.Node, 0, len(payload.Nodes))
	indexByID := make(map[string]int, len(payload.Nodes))
	for _, n := range payload.Nodes {
		id := strings.TrimSpace(n.ID)
		if id == "" {
			continue
		}
		node := common.Node{
			ID:          id,
			Kind:        nodeKind(n.Type),
			Label:       strings.TrimSpace(n.Label),
			Explanation: n.Explanation,
		}
		if node.Label == "" {
			node.Label = id
		}
		if at, seen := indexByID[id]; seen {
			nodes[at] = node
			continue
		}
		indexByID[id] = len(nodes)
		nodes = append(nodes, node)
	}

	if len(nodes) == 0 {
		return nil
	}

	edges := make([]common.Edge, 0, len(payload.Edges))
	for _, e := range payload.Edges {
		from := strings.TrimSpace(e.From)
		to := strings.TrimSpace(e.To)
		if from == "" || to == "" {
			continue
		}
		edges = append(edges, common.Edge{From: from, To: to, Reason: e.Reason})
	}

	return &common.Graph{
		Nodes:    nodes,
		Edges:    edges,
		MainPath: payload.MainPath,
	}
}

func nodeKind(raw string) common.NodeKind {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "decision", "branch", "condition":
		return common.NodeKindDecision
	case "terminal", "start", "end", "result":
		return common.NodeKindTerminal
	default:
		return common.NodeKindStep
	}
}
