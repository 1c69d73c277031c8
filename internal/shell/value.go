package shell

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// formatValue renders a returned value: null for nil, JSON otherwise, with
// arrays and objects indented.
func formatValue(v any) string {
	if v == nil {
		return "null"
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	switch v.(type) {
	case map[string]any, []any:
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return fmt.Sprint(v)
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

// typeName returns the PHP type name of a decoded value.
func typeName(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		return "bool"
	case json.Number:
		if strings.ContainsAny(x.String(), ".eE") {
			return "float"
		}
		return "int"
	case int, int64:
		return "int"
	case float64:
		return "float"
	case string:
		return "string"
	case []any, map[string]any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// plainValue converts JSON numbers to Go numbers, recursively, so values
// encode as numbers outside of JSON.
func plainValue(v any) any {
	switch x := v.(type) {
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		if f, err := x.Float64(); err == nil {
			return f
		}
		return x.String()
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = plainValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			out[k] = plainValue(item)
		}
		return out
	default:
		return v
	}
}
