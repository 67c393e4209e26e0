package schema

import (
	"fmt"
	"math"
)

// Normalize coerces a loosely-typed decoded JSON payload into the canonical
// InteractionRecord shape. The upstream generator is not contractually typed:
// real outputs drift (a scalar where a list belongs, a bare string where an
// object belongs), and this pass absorbs that drift so that strict validation
// only rejects genuinely unusable payloads. It never fails; unusable elements
// are dropped silently. Applying it twice yields the same result as once.
func Normalize(parsed map[string]any) map[string]any {
	parsed["materials_shared"] = normalizeMaterials(parsed["materials_shared"])
	parsed["samples_distributed"] = normalizeSamples(parsed["samples_distributed"])
	parsed["outcomes"] = normalizeFreeText(parsed["outcomes"])
	parsed["follow_up"] = normalizeFreeText(parsed["follow_up"])
	parsed["attendees"] = ensureList(parsed["attendees"])
	parsed["topics_discussed"] = ensureList(parsed["topics_discussed"])
	return parsed
}

func normalizeMaterials(v any) []any {
	list, ok := v.([]any)
	if !ok {
		return []any{}
	}
	out := make([]any, 0, len(list))
	for _, el := range list {
		switch m := el.(type) {
		case string:
			// Bare material names get a placeholder type.
			out = append(out, map[string]any{"name": m, "type": "other"})
		case map[string]any:
			out = append(out, m)
		}
	}
	return out
}

func normalizeSamples(v any) []any {
	if n, ok := asInt(v); ok {
		// A bare count with no product attached.
		return []any{unknownSample(n)}
	}
	list, ok := v.([]any)
	if !ok {
		return []any{}
	}
	out := make([]any, 0, len(list))
	for _, el := range list {
		if n, ok := asInt(el); ok {
			out = append(out, unknownSample(n))
			continue
		}
		if m, ok := el.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func unknownSample(quantity int) map[string]any {
	return map[string]any{"product_name": "Unknown Product", "quantity": quantity}
}

// normalizeFreeText flattens a list of fragments into one comma-joined string
// and discards anything that is neither a list nor a string.
func normalizeFreeText(v any) any {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		joined := ""
		for i, el := range t {
			if i > 0 {
				joined += ", "
			}
			joined += fmt.Sprintf("%v", el)
		}
		return joined
	default:
		return nil
	}
}

func ensureList(v any) []any {
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{}
}

// asInt reports whether v is an integer-valued JSON number. encoding/json
// decodes all numbers as float64, so integral floats count.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if math.Trunc(n) == n {
			return int(n), true
		}
	}
	return 0, false
}
