package schema

import "testing"

func strptr(s string) *string { return &s }

func TestValidateSentiment(t *testing.T) {
	cases := []struct {
		name      string
		sentiment *string
		wantErr   bool
	}{
		{"nil sentiment", nil, false},
		{"positive", strptr("positive"), false},
		{"neutral", strptr("neutral"), false},
		{"negative", strptr("negative"), false},
		{"invalid value", strptr("ecstatic"), true},
		{"empty string", strptr(""), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := InteractionRecord{Sentiment: tc.sentiment}
			err := rec.Validate()
			if tc.wantErr && err == nil {
				t.Errorf("expected validation error for %v", tc.sentiment)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestRecordFromMapListInvariant(t *testing.T) {
	rec, err := RecordFromMap(map[string]any{"hcp_name": "Dr. Smith"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Attendees == nil || rec.TopicsDiscussed == nil || rec.MaterialsShared == nil || rec.SamplesDistributed == nil {
		t.Errorf("list fields must never be nil after decoding: %+v", rec)
	}
	if rec.HCPName == nil || *rec.HCPName != "Dr. Smith" {
		t.Errorf("hcp_name lost in decode: %+v", rec.HCPName)
	}
}

func TestRecordFromMapRejectsTypeMismatch(t *testing.T) {
	_, err := RecordFromMap(map[string]any{
		"samples_distributed": []any{map[string]any{"product_name": "CardioMax", "quantity": "five"}},
	})
	if err == nil {
		t.Errorf("expected decode error for string quantity")
	}
}
