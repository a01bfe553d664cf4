package ai

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/kaptinlin/jsonrepair"
)

// GenerateSchema creates a JSON Schema from the given Go type.
// It uses reflection to inspect the type structure and generates
// a schema suitable for use with AI structured output.
func GenerateSchema(value any) any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}

	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	v := reflect.New(t).Interface()
	return reflector.Reflect(v)
}

// UnmarshalLenient decodes model-produced JSON into out, tolerating the
// usual model damage. The chain is: standard unmarshal, then unwrapping of
// double-encoded JSON strings, then repair of near-JSON (unquoted keys,
// single quotes, trailing commas, truncation) before a final unmarshal.
//
// Example:
//
//	var result MyStruct
//	// All of these inputs would work:
//	UnmarshalLenient(`{"name": "test"}`, &result)           // standard JSON
//	UnmarshalLenient(`"{\"name\": \"test\"}"`, &result)     // double-encoded
//	UnmarshalLenient(`{name: "test"}`, &result)             // malformed (repaired)
func UnmarshalLenient(input string, out any) error {
	input = strings.TrimSpace(input)

	if err := json.Unmarshal([]byte(input), out); err == nil {
		return nil
	}

	var inner string
	if err := json.Unmarshal([]byte(input), &inner); err == nil {
		inner = strings.TrimSpace(inner)
		if err := json.Unmarshal([]byte(inner), out); err == nil {
			return nil
		}
		input = inner
	}

	repaired, err := jsonrepair.JSONRepair(dropDoubledBrace(input))
	if err != nil {
		return fmt.Errorf("json repair failed: %w (input: %s)", err, input)
	}
	if err := json.Unmarshal([]byte(repaired), out); err != nil {
		return fmt.Errorf("unmarshal failed after repair: input=%s repaired=%s", input, repaired)
	}

	return nil
}

// dropDoubledBrace removes a stuttered opening brace ("{ {" → "{"), a
// failure mode some models show at the start of structured output.
func dropDoubledBrace(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "{") {
		return s
	}
	rest := strings.TrimSpace(s[1:])
	if strings.HasPrefix(rest, "{") {
		return rest
	}
	return s
}
