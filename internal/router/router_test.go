package router

import (
	"context"
	"strings"
	"testing"

	"crm-assistant/internal/actions"
	"crm-assistant/internal/extraction"
	"crm-assistant/internal/llm"
	"crm-assistant/internal/store"
)

// fakeClient serves canned extraction output and fallback replies, and
// records whether the structured (extraction) call was made.
type fakeClient struct {
	structured      string
	fallback        string
	structuredCalls int
	fallbackCalls   int
}

func (f *fakeClient) Generate(_ context.Context, _ []llm.Message) (llm.Response, error) {
	f.fallbackCalls++
	return llm.Response{Content: f.fallback}, nil
}

func (f *fakeClient) GenerateStructured(_ context.Context, _ []llm.Message) (llm.Response, error) {
	f.structuredCalls++
	return llm.Response{Content: f.structured}, nil
}

const validExtraction = `{"hcp_name": "Dr. Jane Smith", "sentiment": "positive",
	"attendees": [], "topics_discussed": [], "materials_shared": [], "samples_distributed": []}`

func newTestRouter(t *testing.T) (*Router, *fakeClient, *store.SQLiteStore) {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	client := &fakeClient{structured: validExtraction, fallback: "hello there"}
	a := actions.New(st, extraction.NewEngine(client))
	return New(a, client), client, st
}

func TestRoutePriorityLogBeatsRecommend(t *testing.T) {
	r, client, _ := newTestRouter(t)

	result := r.Route(context.Background(), "s", "log interaction and recommend next action")

	if _, ok := result.(actions.LogResult); !ok {
		t.Fatalf("expected Log dispatch, got %T: %v", result, result)
	}
	if client.structuredCalls != 1 {
		t.Errorf("log route must run extraction once, got %d calls", client.structuredCalls)
	}
}

func TestRouteEditWithoutID(t *testing.T) {
	r, _, _ := newTestRouter(t)

	result := r.Route(context.Background(), "s", "edit interaction set positive")

	errRes, ok := result.(actions.ErrorResult)
	if !ok || errRes.Error != "No valid interaction ID found" {
		t.Errorf("expected missing-id payload, got %v", result)
	}
}

func TestRouteEditExtractsIDAndSentiment(t *testing.T) {
	r, _, st := newTestRouter(t)
	ctx := context.Background()

	// Route a log first so there is a row, then edit it by its id.
	logged := r.Route(ctx, "s", "log interaction with dr smith").(actions.LogResult)

	msg := "edit interaction " + logged.InteractionID + " to negative"
	result := r.Route(ctx, "s", msg)

	edited, ok := result.(actions.EditResult)
	if !ok {
		t.Fatalf("expected Edit dispatch, got %T: %v", result, result)
	}
	if edited.InteractionID != logged.InteractionID {
		t.Errorf("wrong id extracted: %q", edited.InteractionID)
	}

	records, _ := st.ByHCP(ctx, "Dr. Jane Smith")
	if len(records) != 1 || records[0].Sentiment == nil || *records[0].Sentiment != "negative" {
		t.Errorf("sentiment keyword not applied: %+v", records)
	}
}

func TestRouteEditSentimentDefaultsToNeutral(t *testing.T) {
	r, _, st := newTestRouter(t)
	ctx := context.Background()

	logged := r.Route(ctx, "s", "log interaction with dr smith").(actions.LogResult)

	r.Route(ctx, "s", "edit interaction "+logged.InteractionID)

	records, _ := st.ByHCP(ctx, "Dr. Jane Smith")
	if *records[0].Sentiment != "neutral" {
		t.Errorf("expected neutral default, got %q", *records[0].Sentiment)
	}
}

func TestRouteInsightExtractsName(t *testing.T) {
	r, _, _ := newTestRouter(t)

	result := r.Route(context.Background(), "s", "show insights for Dr. Jane Smith")

	insight, ok := result.(actions.InsightResult)
	if !ok {
		t.Fatalf("expected Insight dispatch, got %T: %v", result, result)
	}
	if insight.HCPName != "Dr. Jane Smith" {
		t.Errorf("expected trimmed original-case name, got %q", insight.HCPName)
	}
}

func TestRouteInsightWithoutName(t *testing.T) {
	r, _, _ := newTestRouter(t)

	result := r.Route(context.Background(), "s", "show insights")

	errRes, ok := result.(actions.ErrorResult)
	if !ok || errRes.Error != "No HCP name provided" {
		t.Errorf("expected missing-name payload, got %v", result)
	}
}

func TestRouteComplianceSkipsExtraction(t *testing.T) {
	r, client, _ := newTestRouter(t)

	result := r.Route(context.Background(), "s", "off-label use discussed with Dr. X")

	comp, ok := result.(actions.ComplianceResult)
	if !ok {
		t.Fatalf("expected Compliance dispatch, got %T: %v", result, result)
	}
	if !comp.ComplianceFlag || comp.Reason != "Off-label discussion detected" {
		t.Errorf("unexpected compliance payload: %+v", comp)
	}
	if client.structuredCalls != 0 || client.fallbackCalls != 0 {
		t.Errorf("compliance must not call the model, got %d/%d calls",
			client.structuredCalls, client.fallbackCalls)
	}
}

func TestRouteRecommendSentimentOrder(t *testing.T) {
	r, _, _ := newTestRouter(t)
	ctx := context.Background()

	// positive is checked before neutral on the recommend route
	result := r.Route(ctx, "s", "recommend next action, mood was neutral then positive")
	rec := result.(actions.RecommendResult)
	if rec.Suggestion != "Schedule follow-up meeting in 2 weeks" {
		t.Errorf("positive should win the keyword check, got %q", rec.Suggestion)
	}

	result = r.Route(ctx, "s", "what's the next action?")
	rec = result.(actions.RecommendResult)
	if rec.Suggestion != "Share updated clinical data" {
		t.Errorf("missing sentiment should default to neutral, got %q", rec.Suggestion)
	}
}

func TestRouteFallbackUsesHistory(t *testing.T) {
	r, client, _ := newTestRouter(t)
	ctx := context.Background()

	result := r.Route(ctx, "sess-1", "how are you today?")
	if s, ok := result.(string); !ok || s != "hello there" {
		t.Fatalf("expected raw fallback text, got %v", result)
	}
	if client.fallbackCalls != 1 {
		t.Errorf("expected one fallback call, got %d", client.fallbackCalls)
	}

	// Second turn: history should now hold user+assistant+user.
	r.Route(ctx, "sess-1", "and now?")
	msgs := r.history.Get("sess-1")
	if len(msgs) != 4 {
		t.Fatalf("expected 4 history messages, got %d", len(msgs))
	}
	if msgs[1].Role != "assistant" || !strings.Contains(msgs[1].Content, "hello there") {
		t.Errorf("assistant reply not recorded: %+v", msgs[1])
	}
}

func TestInteractionIDPatternShapeOnly(t *testing.T) {
	// Shape match only: hex digits and hyphens, exactly 36 long. Version and
	// variant bits are not validated.
	id := interactionIDPattern.FindString("edit interaction ffffffff-ffff-ffff-ffff-ffffffffffff please")
	if id != "ffffffff-ffff-ffff-ffff-ffffffffffff" {
		t.Errorf("unexpected match: %q", id)
	}
	if got := interactionIDPattern.FindString("edit interaction 1234"); got != "" {
		t.Errorf("short token must not match, got %q", got)
	}
}
