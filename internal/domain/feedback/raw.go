package feedback

import "math"

// Coercion helpers for values decoded from loosely structured JSON
// (map[string]any / []any). The external capability does not reliably
// honor the requested schema, so every field read goes through these.

func rawString(m map[string]any, key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func rawNumber(m map[string]any, key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

// rawInt reads a numeric field rounded to the nearest pixel, falling back
// to def when the field is absent or not a number.
func rawInt(m map[string]any, key string, def int) int {
	n, ok := rawNumber(m, key)
	if !ok {
		return def
	}
	return int(math.Round(n))
}

func rawStrings(m map[string]any, key string) []string {
	out := []string{}
	arr, ok := m[key].([]any)
	if !ok {
		return out
	}
	for _, v := range arr {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
