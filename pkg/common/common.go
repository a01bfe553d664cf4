package common

// Analysis is the validated result of one tutoring run. It holds everything
// the renderer needs: the per-step breakdown, the reasoning graph, and the
// optional extras the model may or may not have produced.
//
// An analysis is self-contained; a new run replaces the previous one
// wholesale.
type Analysis struct {
	ID             string        `json:"id"`
	Domain         string        `json:"domain"`
	ProblemSummary string        `json:"problem_summary"`
	Steps          []Step        `json:"steps"`
	Reasoning      *Graph        `json:"reasoning_graph,omitempty"`
	Misconceptions *Graph        `json:"misconception_graph,omitempty"`
	ChatResponse   string        `json:"chat_response,omitempty"`
	Flashcards     []Flashcard   `json:"flashcards,omitempty"`
	CodeSolution   *CodeSolution `json:"code_solution,omitempty"`
}

// Step is one entry of the step-by-step breakdown. Steps are produced
// independently of the reasoning graph and are not guaranteed to share its
// id conventions.
type Step struct {
	StepID      string `json:"step_id"`
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	Expression  string `json:"expression,omitempty"`
	CommonError string `json:"common_error,omitempty"`
}

// NodeKind classifies a node for rendering. Layout is kind-agnostic; the
// kind only selects the visual shape.
type NodeKind string

const (
	NodeKindStep     NodeKind = "step"
	NodeKindDecision NodeKind = "decision"
	NodeKindTerminal NodeKind = "terminal"
)

// Node is a vertex of a reasoning or misconception graph. Identity is the
// ID, unique within one graph.
type Node struct {
	ID          string   `json:"id"`
	Kind        NodeKind `json:"kind"`
	Label       string   `json:"label"`
	Explanation string   `json:"explanation,omitempty"`
}

// Edge is a directed connection between two nodes. Edges whose endpoints
// are missing from the node set are tolerated by layout but excluded from
// level propagation.
type Edge struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason,omitempty"`
}

// Graph is a validated node/edge collection plus the highlighted main
// solution path. MainPath entries that name no existing node simply never
// highlight.
type Graph struct {
	Nodes    []Node   `json:"nodes"`
	Edges    []Edge   `json:"edges"`
	MainPath []string `json:"main_path,omitempty"`
}

// Flashcard is a single front/back study card.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// CodeSolution is an optional worked code answer for algorithmic domains.
type CodeSolution struct {
	Language    string `json:"language"`
	Code        string `json:"code"`
	Walkthrough string `json:"walkthrough,omitempty"`
}

// NodeByID returns the node with the given id, or nil.
func (g *Graph) NodeByID(id string) *Node {
	if g == nil {
		return nil
	}
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}
