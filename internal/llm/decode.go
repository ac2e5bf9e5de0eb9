package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// ShapeError means the model answered with JSON that does not fit the expected shape.
type ShapeError struct {
	Field  string
	Reason string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("llm output field %q %s", e.Field, e.Reason)
}

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(.+?)\\s*```")

// decodeObject pulls one JSON object out of model output, which may be bare,
// wrapped in a code fence or surrounded by prose.
func decodeObject(output string) (map[string]any, error) {
	output = strings.TrimSpace(strings.TrimPrefix(output, "\ufeff"))
	if output == "" {
		return nil, errors.New("llm returned empty output")
	}

	candidates := []string{output}
	if m := fencedJSON.FindStringSubmatch(output); len(m) > 1 {
		candidates = append(candidates, m[1])
	}
	if start := strings.Index(output, "{"); start >= 0 {
		if obj := balancedObject(output[start:]); obj != "" {
			candidates = append(candidates, obj)
		}
	}

	for _, c := range candidates {
		var obj map[string]any
		if err := json.Unmarshal([]byte(c), &obj); err == nil && obj != nil {
			return obj, nil
		}
	}
	return nil, fmt.Errorf("failed to parse JSON from llm output: %s", truncate(output, 100))
}

func balancedObject(s string) string {
	depth := 0
	inString, escape := false, false
	for i, ch := range s {
		switch {
		case escape:
			escape = false
		case ch == '\\' && inString:
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// stringField returns "" for an absent or null key.
func stringField(obj map[string]any, key string) (string, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", &ShapeError{Field: key, Reason: "must be a string"}
	}
	return strings.TrimSpace(s), nil
}

// intField returns 0 for an absent or null key; anything present must be a
// positive whole JSON number.
func intField(obj map[string]any, key string) (int, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return 0, nil
	}
	n, ok := v.(float64)
	if !ok {
		return 0, &ShapeError{Field: key, Reason: "must be a number"}
	}
	if n < 1 || n != math.Trunc(n) || n > math.MaxInt32 {
		return 0, &ShapeError{Field: key, Reason: "must be a positive integer"}
	}
	return int(n), nil
}

func boolField(obj map[string]any, key string) (bool, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, &ShapeError{Field: key, Reason: "must be a boolean"}
	}
	return b, nil
}
