package analysis

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{
			name: "bare object",
			text: `{"a":1}`,
			want: `{"a":1}`,
			ok:   true,
		},
		{
			name: "object with surrounding whitespace",
			text: "  \n {\"a\":1} \n",
			want: `{"a":1}`,
			ok:   true,
		},
		{
			name: "json code fence",
			text: "Sure! Here you go:\n```json\n{\"a\":1}\n```",
			want: `{"a":1}`,
			ok:   true,
		},
		{
			name: "bare code fence",
			text: "```\n{\"a\":1}\n```\nHope that helps!",
			want: `{"a":1}`,
			ok:   true,
		},
		{
			name: "object buried in prose",
			text: `The result is {"a":1} as requested.`,
			want: `{"a":1}`,
			ok:   true,
		},
		{
			name: "brace inside quoted string",
			text: `noise before {"a": "x{y}z"} noise after`,
			want: `{"a": "x{y}z"}`,
			ok:   true,
		},
		{
			name: "escaped quote inside string",
			text: `text {"a": "she said \"hi{\" loudly"} text`,
			want: `{"a": "she said \"hi{\" loudly"}`,
			ok:   true,
		},
		{
			name: "latex braces inside strings",
			text: `Answer: {"expr": "\\frac{a}{b}", "ok": true} done`,
			want: `{"expr": "\\frac{a}{b}", "ok": true}`,
			ok:   true,
		},
		{
			name: "nested objects",
			text: `x {"a": {"b": {"c": 1}}} y`,
			want: `{"a": {"b": {"c": 1}}}`,
			ok:   true,
		},
		{
			name: "non-json fence before bare object",
			text: "```text\nno json here\n```\nResult: {\"a\":1}",
			want: `{"a":1}`,
			ok:   true,
		},
		{
			name: "json in second fence",
			text: "```text\njust commentary\n```\n```json\n{\"a\":1}\n```",
			want: `{"a":1}`,
			ok:   true,
		},
		{
			name: "no json at all",
			text: "I could not solve this problem, sorry.",
			ok:   false,
		},
		{
			name: "empty input",
			text: "",
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSON(tt.text)
			if ok != tt.ok {
				t.Fatalf("ExtractJSON() ok = %v, want %v (got %q)", ok, tt.ok, got)
			}
			if tt.ok && got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

// Embedded valid JSON must round-trip identically to parsing it directly,
// regardless of the prose and fencing around it.
func TestExtractJSON_DeepEqualToDirectParse(t *testing.T) {
	payload := `{"domain":"algebra","steps":[{"step_id":"step1"}],"reasoning_graph":{"nodes":[{"id":"a"}],"edges":[],"main_path":["a"]}}`
	wrappers := []struct {
		name string
		text string
	}{
		{name: "bare", text: payload},
		{name: "prose", text: "Of course! " + payload + " Let me know if you need more."},
		{name: "fenced", text: "```json\n" + payload + "\n```"},
		{name: "fenced with prose", text: "Here is the analysis:\n```json\n" + payload + "\n```\nGood luck!"},
	}

	var want any
	if err := json.Unmarshal([]byte(payload), &want); err != nil {
		t.Fatal(err)
	}

	for _, w := range wrappers {
		t.Run(w.name, func(t *testing.T) {
			src, ok := ExtractJSON(w.text)
			if !ok {
				t.Fatal("ExtractJSON() failed")
			}
			var got any
			if err := json.Unmarshal([]byte(src), &got); err != nil {
				t.Fatalf("extracted source does not parse: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("extracted value differs from direct parse:\ngot  %#v\nwant %#v", got, want)
			}
		})
	}
}

func TestExtract_TruncatedOutput(t *testing.T) {
	// the model ran out of tokens mid-object; repair should still recover
	text := "```json\n{\"domain\": \"algebra\", \"problem_summary\": \"solve for x\", \"steps\": [{\"step_id\": \"step1\", \"title\": \"isolate x\""

	payload, ok := Extract(text)
	if !ok {
		t.Fatal("Extract() failed on truncated output")
	}
	if payload.Domain != "algebra" {
		t.Errorf("Domain = %q, want %q", payload.Domain, "algebra")
	}
	if len(payload.Steps) != 1 || payload.Steps[0].StepID != "step1" {
		t.Errorf("Steps = %+v, want one step with id step1", payload.Steps)
	}
}

func TestExtract_EndToEnd(t *testing.T) {
	text := "Sure! ```json\n{\"reasoning_graph\":{\"nodes\":[{\"id\":\"a\"},{\"id\":\"b\"}],\"edges\":[{\"from\":\"a\",\"to\":\"b\"}],\"main_path\":[\"a\",\"b\"]}}\n```"

	payload, ok := Extract(text)
	if !ok {
		t.Fatal("Extract() failed")
	}
	if payload.ReasoningGraph == nil {
		t.Fatal("ReasoningGraph = nil")
	}
	if len(payload.ReasoningGraph.Nodes) != 2 {
		t.Errorf("len(Nodes) = %d, want 2", len(payload.ReasoningGraph.Nodes))
	}
	if len(payload.ReasoningGraph.Edges) != 1 {
		t.Errorf("len(Edges) = %d, want 1", len(payload.ReasoningGraph.Edges))
	}
	if !reflect.DeepEqual(payload.ReasoningGraph.MainPath, []string{"a", "b"}) {
		t.Errorf("MainPath = %v, want [a b]", payload.ReasoningGraph.MainPath)
	}
}

func TestExtract_Unparseable(t *testing.T) {
	payload, ok := Extract("the model refused to answer")
	if ok {
		t.Fatal("Extract() ok = true, want false")
	}
	if payload != nil {
		t.Errorf("payload = %+v, want nil", payload)
	}
}
