package analysis

// ResponsePayload is the wire contract of one analysis run: the JSON shape
// upstream prompting asks the model to produce and the extractor recovers.
// Every field except Domain, ProblemSummary, Steps, and ReasoningGraph is
// optional; absence is not an error.
//
// The jsonschema_description tags double as the structured-output schema
// handed to the model.
type ResponsePayload struct {
	Domain             string             `json:"domain" jsonschema_description:"Subject domain of the problem, e.g. algebra, physics, algorithms"`
	ProblemSummary     string             `json:"problem_summary" jsonschema_description:"One-paragraph restatement of what the problem asks"`
	Steps              []StepPayload      `json:"steps" jsonschema_description:"Ordered step-by-step breakdown of the solution"`
	ReasoningGraph     *GraphPayload      `json:"reasoning_graph" jsonschema_description:"Graph of reasoning moves with the main solution path"`
	MisconceptionGraph *GraphPayload      `json:"misconception_graph,omitempty" jsonschema_description:"Optional graph linking a common error pattern to its prerequisite concepts"`
	ChatResponse       string             `json:"chat_response,omitempty" jsonschema_description:"Short encouraging message addressed to the student"`
	Flashcards         []FlashcardPayload `json:"flashcards,omitempty" jsonschema_description:"Optional study cards derived from the solution"`
	CodeSolution       *CodePayload       `json:"code_solution,omitempty" jsonschema_description:"Optional worked code answer for algorithmic problems"`
}

// StepPayload is one wire-format solution step.
type StepPayload struct {
	StepID      string `json:"step_id" jsonschema_description:"Stable step identifier such as step1, step2"`
	Title       string `json:"title" jsonschema_description:"Short step title"`
	Explanation string `json:"explanation" jsonschema_description:"Explanation a student can follow"`
	Expression  string `json:"expression,omitempty" jsonschema_description:"Key expression or code fragment of this step"`
	CommonError string `json:"common_error,omitempty" jsonschema_description:"Error students most commonly make at this step"`
}

// GraphPayload is a wire-format graph before validation.
type GraphPayload struct {
	Nodes    []NodePayload `json:"nodes" jsonschema_description:"Graph nodes"`
	Edges    []EdgePayload `json:"edges" jsonschema_description:"Directed dependency edges between nodes"`
	MainPath []string      `json:"main_path,omitempty" jsonschema_description:"Node ids of the main solution path in order"`
}

// NodePayload is a wire-format node; only the id is required for the node
// to survive validation.
type NodePayload struct {
	ID          string `json:"id" jsonschema_description:"Unique node id within the graph"`
	Type        string `json:"type,omitempty" jsonschema_description:"One of step, decision, terminal"`
	Label       string `json:"label,omitempty" jsonschema_description:"Short node label"`
	Explanation string `json:"explanation,omitempty" jsonschema_description:"One-sentence explanation of this reasoning move"`
}

// EdgePayload is a wire-format edge.
type EdgePayload struct {
	From   string `json:"from" jsonschema_description:"Source node id"`
	To     string `json:"to" jsonschema_description:"Target node id"`
	Reason string `json:"reason,omitempty" jsonschema_description:"Why the target depends on the source"`
}

// FlashcardPayload is a wire-format study card.
type FlashcardPayload struct {
	Front string `json:"front" jsonschema_description:"Question or cue side of the card"`
	Back  string `json:"back" jsonschema_description:"Answer side of the card"`
}

// CodePayload is a wire-format code solution.
type CodePayload struct {
	Language    string `json:"language" jsonschema_description:"Programming language of the solution"`
	Code        string `json:"code" jsonschema_description:"Complete runnable solution code"`
	Walkthrough string `json:"walkthrough,omitempty" jsonschema_description:"Explanation of the key lines"`
}

// flashcardsResponse is the wire shape of the standalone flashcards call.
type flashcardsResponse struct {
	Flashcards []FlashcardPayload `json:"flashcards" jsonschema_description:"Study cards for the analyzed problem"`
}
