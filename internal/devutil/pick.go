package devutil

import (
	"encoding/json"
	"strings"
)

// pick toma cualquier struct/map, lo pasa a map[string]any vía JSON,
// y devuelve solo las keys pedidas. Una key con puntos ("course.name")
// baja por los objetos anidados y se devuelve con la key completa.
func pick(v any, keys ...string) map[string]any {
	b, err := json.Marshal(v)
	if err != nil {
		return map[string]any{}
	}

	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return map[string]any{}
	}

	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if val, ok := lookup(m, k); ok {
			out[k] = val
		}
	}
	return out
}

func lookup(m map[string]any, key string) (any, bool) {
	if val, ok := m[key]; ok {
		return val, true
	}
	head, rest, found := strings.Cut(key, ".")
	if !found {
		return nil, false
	}
	child, ok := m[head].(map[string]any)
	if !ok {
		return nil, false
	}
	return lookup(child, rest)
}

func Pick(v any, keys ...string) map[string]any {
	return pick(v, keys...)
}

// SplitFields parses a --fields value ("id, name,course.code") into keys, skipping blanks.
func SplitFields(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
