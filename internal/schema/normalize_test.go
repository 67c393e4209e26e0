package schema

import (
	"encoding/json"
	"reflect"
	"testing"
)

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("failed to decode test payload: %v", err)
	}
	return m
}

func TestNormalizeMaterialsBareStrings(t *testing.T) {
	m := decode(t, `{"materials_shared": ["Brochure", "Efficacy Chart"]}`)

	out := Normalize(m)

	materials, ok := out["materials_shared"].([]any)
	if !ok {
		t.Fatalf("materials_shared is not a list: %T", out["materials_shared"])
	}
	if len(materials) != 2 {
		t.Fatalf("expected 2 materials, got %d", len(materials))
	}
	first, ok := materials[0].(map[string]any)
	if !ok {
		t.Fatalf("material element is not an object: %T", materials[0])
	}
	if first["name"] != "Brochure" || first["type"] != "other" {
		t.Errorf("unexpected material: %v", first)
	}
}

func TestNormalizeMaterialsDropsJunkElements(t *testing.T) {
	m := decode(t, `{"materials_shared": ["Brochure", 42, true, {"name": "Chart", "type": "clinical"}]}`)

	materials := Normalize(m)["materials_shared"].([]any)
	if len(materials) != 2 {
		t.Fatalf("expected junk elements dropped, got %d elements", len(materials))
	}
}

func TestNormalizeMaterialsScalar(t *testing.T) {
	m := decode(t, `{"materials_shared": "Brochure"}`)

	materials := Normalize(m)["materials_shared"].([]any)
	if len(materials) != 0 {
		t.Errorf("non-list materials_shared should become empty list, got %v", materials)
	}
}

func TestNormalizeSamplesBareInteger(t *testing.T) {
	m := decode(t, `{"samples_distributed": 5}`)

	samples := Normalize(m)["samples_distributed"].([]any)
	if len(samples) != 1 {
		t.Fatalf("expected singleton list, got %d elements", len(samples))
	}
	s := samples[0].(map[string]any)
	if s["product_name"] != "Unknown Product" {
		t.Errorf("expected placeholder product name, got %v", s["product_name"])
	}
	if q, _ := s["quantity"].(int); q != 5 {
		t.Errorf("expected quantity 5, got %v", s["quantity"])
	}
}

func TestNormalizeSamplesIntegerElements(t *testing.T) {
	m := decode(t, `{"samples_distributed": [3, {"product_name": "CardioMax", "quantity": 10}, "junk"]}`)

	samples := Normalize(m)["samples_distributed"].([]any)
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	first := samples[0].(map[string]any)
	if first["product_name"] != "Unknown Product" {
		t.Errorf("bare int element should get placeholder product, got %v", first)
	}
}

func TestNormalizeFreeTextJoinsLists(t *testing.T) {
	m := decode(t, `{"outcomes": ["agreed to trial", "requested samples"], "follow_up": 17}`)

	out := Normalize(m)
	if out["outcomes"] != "agreed to trial, requested samples" {
		t.Errorf("unexpected outcomes: %v", out["outcomes"])
	}
	if out["follow_up"] != nil {
		t.Errorf("non-string non-list follow_up should be nil, got %v", out["follow_up"])
	}
}

func TestNormalizeScalarAttendees(t *testing.T) {
	m := decode(t, `{"attendees": "Dr. Smith", "topics_discussed": null}`)

	out := Normalize(m)
	if list := out["attendees"].([]any); len(list) != 0 {
		t.Errorf("scalar attendees should become empty list, got %v", list)
	}
	if list := out["topics_discussed"].([]any); len(list) != 0 {
		t.Errorf("null topics_discussed should become empty list, got %v", list)
	}
}

func TestNormalizeMissingKeys(t *testing.T) {
	out := Normalize(map[string]any{})

	for _, key := range []string{"materials_shared", "samples_distributed", "attendees", "topics_discussed"} {
		if _, ok := out[key].([]any); !ok {
			t.Errorf("missing %s should become a list, got %T", key, out[key])
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	m := decode(t, `{
		"hcp_name": "Dr. Jane Smith",
		"materials_shared": ["Brochure"],
		"samples_distributed": 5,
		"outcomes": ["a", "b"],
		"attendees": "nope"
	}`)

	once := Normalize(m)

	// Deep-copy through JSON so the second pass cannot alias the first.
	copied := decode(t, mustMarshal(t, once))
	twice := Normalize(copied)

	if !reflect.DeepEqual(decode(t, mustMarshal(t, once)), decode(t, mustMarshal(t, twice))) {
		t.Errorf("normalization is not idempotent:\nonce:  %v\ntwice: %v", once, twice)
	}
}

func mustMarshal(t *testing.T, v any) string {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	return string(raw)
}
