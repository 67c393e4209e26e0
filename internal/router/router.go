// Package router matches inbound messages against a fixed, ordered set of
// intent patterns and dispatches to the corresponding action. Routing is
// plain substring and regexp matching with no scoring: the first route whose
// predicate fires wins, and a message matching nothing falls through to the
// conversational model.
package router

import (
	"context"
	"log"
	"regexp"
	"strings"

	"crm-assistant/internal/actions"
	"crm-assistant/internal/history"
	"crm-assistant/internal/llm"
)

// interactionIDPattern matches a 36-character UUID-shaped token: hex digits
// and hyphens only. Version and variant bits are deliberately not checked.
var interactionIDPattern = regexp.MustCompile(`[a-f0-9-]{36}`)

// hcpNamePattern captures everything after the first literal "for".
var hcpNamePattern = regexp.MustCompile(`(?i)for (.+)`)

type route struct {
	match  func(lower string) bool
	handle func(ctx context.Context, raw, lower string) any
}

type Router struct {
	routes  []route
	chat    llm.Client
	history *history.Manager
}

// New builds a router over the given actions and conversational client.
// Route order is a contract: several patterns can co-occur in one message
// ("log interaction and recommend next action") and the earlier route must
// win for behavior to stay reproducible.
func New(a *actions.Actions, chat llm.Client) *Router {
	r := &Router{
		chat:    chat,
		history: history.NewManager(),
	}
	r.routes = []route{
		{
			match: func(lower string) bool { return strings.Contains(lower, "log interaction") },
			handle: func(ctx context.Context, raw, _ string) any {
				return a.Log(ctx, raw)
			},
		},
		{
			match: func(lower string) bool { return strings.Contains(lower, "edit interaction") },
			handle: func(ctx context.Context, _, lower string) any {
				id := interactionIDPattern.FindString(lower)
				if id == "" {
					return actions.ErrorResult{Error: "No valid interaction ID found"}
				}
				value := sentimentKeyword(lower, "neutral", "positive", "negative")
				return a.Edit(ctx, id, "sentiment", value)
			},
		},
		{
			match: func(lower string) bool {
				return strings.Contains(lower, "insight") || strings.Contains(lower, "show insights")
			},
			handle: func(ctx context.Context, raw, _ string) any {
				m := hcpNamePattern.FindStringSubmatch(raw)
				if m == nil {
					return actions.ErrorResult{Error: "No HCP name provided"}
				}
				return a.Insight(ctx, strings.TrimSpace(m[1]))
			},
		},
		{
			match: func(lower string) bool { return strings.Contains(lower, "off-label") },
			handle: func(_ context.Context, raw, _ string) any {
				return actions.Compliance(raw)
			},
		},
		{
			match: func(lower string) bool {
				return strings.Contains(lower, "recommend") || strings.Contains(lower, "next action")
			},
			handle: func(_ context.Context, _, lower string) any {
				return actions.Recommend(sentimentKeyword(lower, "positive", "neutral", "negative"))
			},
		},
	}
	return r
}

// Route dispatches one message. sessionID scopes the fallback conversation
// history; intent routes ignore it.
func (r *Router) Route(ctx context.Context, sessionID, message string) any {
	lower := strings.ToLower(message)
	for _, rt := range r.routes {
		if rt.match(lower) {
			return rt.handle(ctx, message, lower)
		}
	}
	return r.fallback(ctx, sessionID, message)
}

// ResetSession clears the fallback conversation history for a session.
func (r *Router) ResetSession(sessionID string) {
	r.history.Reset(sessionID)
}

// fallback forwards the session's message history to the generative model
// and returns its raw text response.
func (r *Router) fallback(ctx context.Context, sessionID, message string) any {
	r.history.AppendUser(sessionID, message)

	resp, err := r.chat.Generate(ctx, r.history.Get(sessionID))
	if err != nil {
		log.Printf("fallback generation failed: %v", err)
		return actions.ErrorResult{Error: err.Error()}
	}

	r.history.AppendAssistant(sessionID, resp.Content)
	return resp.Content
}

// sentimentKeyword returns the first of the given keywords present in the
// message, defaulting to neutral. Callers pass different check orders: edit
// checks neutral first, recommend checks positive first.
func sentimentKeyword(lower string, order ...string) string {
	for _, kw := range order {
		if strings.Contains(lower, kw) {
			return kw
		}
	}
	return "neutral"
}
