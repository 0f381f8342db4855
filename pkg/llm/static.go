package llm

import (
	"context"
	"fmt"
	"strings"
)

// StaticProvider answers from a fixed intent table. It is the default
// backend for environments without a model server, and the fixture for
// orchestration tests. Deterministic: the same message always yields the
// same answer and score.
type StaticProvider struct {
	defaultConfidence float64
}

var _ LLMProvider = (*StaticProvider)(nil)
var _ ConfidenceScorer = (*StaticProvider)(nil)

func NewStaticProvider(defaultConfidence float64) *StaticProvider {
	return &StaticProvider{defaultConfidence: defaultConfidence}
}

type staticIntent struct {
	keywords   []string
	answer     string
	confidence float64
}

var staticIntents = []staticIntent{
	{
		keywords:   []string{"balance", "remaining data", "quota"},
		answer:     "You can check your remaining balance and data quota in the app under Account > Usage, or by dialing *123#.",
		confidence: 0.9,
	},
	{
		keywords:   []string{"top up", "topup", "recharge"},
		answer:     "You can top up through the app, at any partner store, or with a voucher code entered via *123*<code>#.",
		confidence: 0.9,
	},
	{
		keywords:   []string{"roaming"},
		answer:     "Roaming packages can be activated from the app under Services > Roaming before you travel.",
		confidence: 0.85,
	},
	{
		keywords:   []string{"slow", "speed", "connection"},
		answer:     "Try restarting your device and toggling airplane mode. If the connection stays slow, there may be congestion in your area.",
		confidence: 0.7,
	},
	{
		keywords:   []string{"bill", "invoice", "charge"},
		answer:     "Your latest invoice is available in the app under Account > Billing. Charges appear within 24 hours of usage.",
		confidence: 0.65,
	},
}

func (p *StaticProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	if len(history) == 0 {
		return "", fmt.Errorf("empty chat history")
	}
	return p.Generate(ctx, history[len(history)-1].Content, options...)
}

func (p *StaticProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	if intent := matchIntent(prompt); intent != nil {
		return intent.answer, nil
	}
	return "I'm not sure I fully understood that. Could you rephrase your question, or tell me a bit more about what you need help with?", nil
}

func (p *StaticProvider) Score(ctx context.Context, message string) (Score, error) {
	if intent := matchIntent(message); intent != nil {
		return Score{Confidence: intent.confidence}, nil
	}
	return Score{Confidence: p.defaultConfidence}, nil
}

func matchIntent(message string) *staticIntent {
	lower := strings.ToLower(message)
	for i := range staticIntents {
		for _, kw := range staticIntents[i].keywords {
			if strings.Contains(lower, kw) {
				return &staticIntents[i]
			}
		}
	}
	return nil
}
