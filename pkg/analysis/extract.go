package analysis

import (
	"encoding/json"
	"regexp"
	"strings"

	"sage/pkg/ai"

	"github.com/kaptinlin/jsonrepair"
)

// Model output is adversarial by construction: prose around the payload,
// markdown fences, braces inside quoted LaTeX, truncation. The extractor
// degrades through a fixed fallback chain instead of rejecting output that
// is 99% well-formed.

var (
	fencePattern       = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)\\s*```")
	outerObjectPattern = regexp.MustCompile(`(?s)\{.*\}`)
)

// Extract recovers the structured payload from raw model output. It
// returns the payload and true, or nil and false if every fallback failed.
// A false result is a recoverable condition for callers, never a crash.
func Extract(raw string) (*ResponsePayload, bool) {
	candidate, ok := ExtractJSON(raw)
	if !ok {
		return nil, false
	}

	var payload ResponsePayload
	if err := ai.UnmarshalLenient(candidate, &payload); err != nil {
		return nil, false
	}
	return &payload, true
}

// ExtractJSON locates the single top-level JSON object embedded in text
// and returns its source. The fallback order is fixed; each strategy runs
// only if the previous one failed:
//
//  1. the whole text parses as an object
//  2. the text with markdown code fences stripped parses as an object
//  3. a string-aware brace-depth scan from the first '{' finds a balanced,
//     parseable span
//  4. a greedy regexp grabs the outermost {...} span
//  5. repair of the text from the first '{' onward (truncated or near-JSON
//     output)
//
// Returns "" and false when nothing parseable exists.
func ExtractJSON(text string) (string, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", false
	}

	if isObjectSource(trimmed) {
		return trimmed, true
	}

	unfenced := stripCodeFences(trimmed)
	if isObjectSource(unfenced) {
		return unfenced, true
	}

	// The fence body is the likeliest home of the payload, but the object
	// may also sit outside the fence (or in a later one), so the scan
	// fallbacks run against the full text too.
	if span, ok := scanFallbacks(unfenced); ok {
		return span, true
	}
	if unfenced != trimmed {
		if span, ok := scanFallbacks(trimmed); ok {
			return span, true
		}
	}

	return "", false
}

// scanFallbacks runs the positional strategies over one candidate text:
// the string-aware brace scan, the greedy outer-object regexp, and repair
// from the first '{'.
func scanFallbacks(s string) (string, bool) {
	if span, ok := scanBalancedObject(s); ok && isObjectSource(span) {
		return span, true
	}

	if span := outerObjectPattern.FindString(s); isObjectSource(span) {
		return span, true
	}

	if idx := strings.IndexByte(s, '{'); idx >= 0 {
		repaired, err := jsonrepair.JSONRepair(s[idx:])
		if err == nil {
			repaired = strings.TrimSpace(repaired)
			if isObjectSource(repaired) {
				return repaired, true
			}
		}
	}

	return "", false
}

func isObjectSource(s string) bool {
	return strings.HasPrefix(s, "{") && json.Valid([]byte(s))
}

// stripCodeFences unwraps the first fenced code block if one exists,
// otherwise returns the input unchanged.
func stripCodeFences(s string) string {
	m := fencePattern.FindStringSubmatch(s)
	if len(m) < 2 {
		return s
	}
	return strings.TrimSpace(m[1])
}

// scanBalancedObject finds the span from the first '{' to its matching
// '}'. The scan is string-aware: inside a quoted string a backslash
// escapes the next character and an unescaped quote toggles string mode;
// braces only count outside strings. A naive counter would mis-balance on
// braces inside string values (LaTeX is full of them).
func scanBalancedObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}

	return "", false
}
