package llm

import "context"

type Message struct {
	Role    string
	Content string
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client abstracts a text-generation provider. Generate is the free-form
// conversational call; GenerateStructured is the deterministic call used for
// extraction (temperature pinned to zero, bounded output length) so repeated
// runs over the same input stay reproducible and cost-bounded.
type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
	GenerateStructured(ctx context.Context, messages []Message) (Response, error)
}
