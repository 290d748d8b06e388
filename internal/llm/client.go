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

type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}

// GretaSystemPrompt scopes the assistant persona: Trove topics only, short
// answers, point visitors at the contact channel for anything else.
const GretaSystemPrompt = `You are Greta, the AI assistant on the Trove AI marketing site.
Answer only questions about Trove AI, its products (CareIQ, VisualIQ, DeepSenseIQ, CyberIQ, DataIQ),
the LEXSO partnership with Constellis, the company, and how to get in touch.
Keep replies to two or three sentences. If a question is outside that scope,
say so briefly and suggest contacting the team at info@trove-ai.com.`

// Apology is the fixed reply substituted when a completion request fails.
// Terminal: no retry, no backoff.
const Apology = "I'm sorry, I couldn't process that request right now. Please try again, or reach us at info@trove-ai.com."
