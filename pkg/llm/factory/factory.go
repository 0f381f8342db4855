package factory

import (
	"fmt"

	"telecom-support-be/pkg/llm"
	"telecom-support-be/pkg/llm/ollama"
)

// NewLLMProvider selects the response-generation backend. "static" needs
// no external server and is the default in config.
func NewLLMProvider(providerType, modelName, baseURL string, defaultConfidence float64) (llm.LLMProvider, error) {
	switch providerType {
	case "static":
		return llm.NewStaticProvider(defaultConfidence), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}

// NewConfidenceScorer returns the scoring collaborator. Providers that
// implement scoring themselves are used directly; otherwise the static
// scorer backs the decision input.
func NewConfidenceScorer(provider llm.LLMProvider, defaultConfidence float64) llm.ConfidenceScorer {
	if scorer, ok := provider.(llm.ConfidenceScorer); ok {
		return scorer
	}
	return llm.NewStaticProvider(defaultConfidence)
}
