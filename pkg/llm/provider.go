// Package llm abstracts the response-generation and confidence-scoring
// collaborators. The escalation core never calls these while holding
// session state locks.
package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// Score is the confidence collaborator's verdict for one user query.
type Score struct {
	// Confidence in [0,1] that the automated responder can handle the
	// query.
	Confidence float64

	// Context is optional retrieved grounding text; empty when the
	// backend has none.
	Context string
}

// ConfidenceScorer rates how well the automated responder can handle a
// message. Implementations must be safe for concurrent use.
type ConfidenceScorer interface {
	Score(ctx context.Context, message string) (Score, error)
}
