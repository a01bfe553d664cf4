package ai

import (
	"reflect"
	"testing"
)

func TestUnmarshalLenient_ObjectVariants(t *testing.T) {
	type step struct {
		StepID string `json:"step_id"`
		Title  string `json:"title,omitempty"`
	}

	tests := []struct {
		name  string
		input string
		want  step
	}{
		{
			name:  "valid json object",
			input: `{"step_id":"step1"}`,
			want:  step{StepID: "step1"},
		},
		{
			name:  "unquoted key and single quotes",
			input: `{step_id: 'step1'}`,
			want:  step{StepID: "step1"},
		},
		{
			name:  "trailing comma",
			input: `{"step_id":"step1",}`,
			want:  step{StepID: "step1"},
		},
		{
			name:  "missing endbracket",
			input: `{"step_id":"step1`,
			want:  step{StepID: "step1"},
		},
		{
			name:  "stringified invalid json object",
			input: `"{step_id: 'step1'}"`,
			want:  step{StepID: "step1"},
		},
		{
			name:  "duplicate leading brace",
			input: "{\n{\n  \"step_id\": \"step1\"\n}\n",
			want:  step{StepID: "step1"},
		},
		{
			name:  "duplicate leading brace no newlines",
			input: `{ { "step_id": "step1" }`,
			want:  step{StepID: "step1"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got step
			if err := UnmarshalLenient(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalLenient() error = %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("UnmarshalLenient() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestUnmarshalLenient_Unrecoverable(t *testing.T) {
	type step struct {
		StepID string `json:"step_id"`
	}

	var got step
	if err := UnmarshalLenient("", &got); err == nil {
		t.Error("UnmarshalLenient(\"\") expected error, got nil")
	}
}
