package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"crm-assistant/internal/actions"
	"crm-assistant/internal/config"
	"crm-assistant/internal/extraction"
	"crm-assistant/internal/llm"
	"crm-assistant/internal/store"
)

// CRMServer exposes the five CRM actions as MCP tools over stdio, so any
// MCP-capable assistant can drive the same pipeline as the HTTP API.
type CRMServer struct {
	actions *actions.Actions
}

func (s *CRMServer) LogInteraction(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[map[string]interface{}]) (*mcp.CallToolResultFor[any], error) {
	text, ok := stringArg(params, "text")
	if !ok {
		return errorResult("text parameter is required"), nil
	}
	return jsonResult(s.actions.Log(ctx, text)), nil
}

func (s *CRMServer) EditInteraction(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[map[string]interface{}]) (*mcp.CallToolResultFor[any], error) {
	id, ok := stringArg(params, "interaction_id")
	if !ok {
		return errorResult("interaction_id parameter is required"), nil
	}
	field, ok := stringArg(params, "field")
	if !ok {
		return errorResult("field parameter is required"), nil
	}
	value, ok := stringArg(params, "value")
	if !ok {
		return errorResult("value parameter is required"), nil
	}
	return jsonResult(s.actions.Edit(ctx, id, field, value)), nil
}

func (s *CRMServer) HCPInsight(ctx context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[map[string]interface{}]) (*mcp.CallToolResultFor[any], error) {
	name, ok := stringArg(params, "hcp_name")
	if !ok {
		return errorResult("hcp_name parameter is required"), nil
	}
	return jsonResult(s.actions.Insight(ctx, name)), nil
}

func (s *CRMServer) ComplianceCheck(_ context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[map[string]interface{}]) (*mcp.CallToolResultFor[any], error) {
	text, ok := stringArg(params, "text")
	if !ok {
		return errorResult("text parameter is required"), nil
	}
	return jsonResult(actions.Compliance(text)), nil
}

func (s *CRMServer) FollowupRecommendation(_ context.Context, _ *mcp.ServerSession, params *mcp.CallToolParamsFor[map[string]interface{}]) (*mcp.CallToolResultFor[any], error) {
	sentiment, ok := stringArg(params, "sentiment")
	if !ok {
		return errorResult("sentiment parameter is required"), nil
	}
	return jsonResult(actions.Recommend(sentiment)), nil
}

func stringArg(params *mcp.CallToolParamsFor[map[string]interface{}], name string) (string, bool) {
	v, ok := params.Arguments[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func jsonResult(payload any) *mcp.CallToolResultFor[any] {
	raw, err := json.Marshal(payload)
	if err != nil {
		return errorResult(fmt.Sprintf("failed to encode result: %v", err))
	}
	return &mcp.CallToolResultFor[any]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(raw)},
		},
	}
}

func errorResult(msg string) *mcp.CallToolResultFor[any] {
	return &mcp.CallToolResultFor[any]{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: msg},
		},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	if err := cfg.ValidateCredentials(); err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	st, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open store: %v", err)
	}
	defer st.Close()

	factory := llm.NewFactory(cfg)
	extractClient, err := factory.CreateClient(string(cfg.LLMProvider), cfg.ExtractionModel)
	if err != nil {
		log.Fatalf("failed to init extraction client: %v", err)
	}

	crm := &CRMServer{actions: actions.New(st, extraction.NewEngine(extractClient))}

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "crm-assistant-mcp",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "log_interaction",
		Description: "Logs a CRM interaction extracted from natural language text",
	}, crm.LogInteraction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "edit_interaction",
		Description: "Edits a single field of an existing interaction by id",
	}, crm.EditInteraction)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "hcp_insight",
		Description: "Returns interaction count and sentiment history for an HCP",
	}, crm.HCPInsight)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "compliance_check",
		Description: "Flags off-label discussion in the given text",
	}, crm.ComplianceCheck)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "followup_recommendation",
		Description: "Suggests the next best action for a sentiment",
	}, crm.FollowupRecommendation)

	log.Println("CRM MCP server listening on stdin/stdout")

	transport := mcp.NewStdioTransport()
	if err := server.Run(context.Background(), transport); err != nil {
		log.Fatalf("MCP server failed: %v", err)
	}
}
