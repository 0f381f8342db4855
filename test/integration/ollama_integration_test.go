package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"telecom-support-be/pkg/llm"
	"telecom-support-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
)

// Requires a local Ollama daemon. Set OLLAMA_INTEGRATION=1 to run.
func TestOllamaProvider(t *testing.T) {
	if os.Getenv("OLLAMA_INTEGRATION") == "" {
		t.Skip("Skipping integration test: OLLAMA_INTEGRATION not set")
	}

	baseURL := os.Getenv("OLLAMA_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "gemma:2b"
	}

	provider := ollama.NewOllamaProvider(baseURL, model)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	t.Run("Generate", func(t *testing.T) {
		response, err := provider.Generate(ctx, "Reply with exactly the word: pong")
		assert.NoError(t, err)
		assert.NotEmpty(t, response)
		t.Logf("Generate response: %s", response)
	})

	t.Run("Chat", func(t *testing.T) {
		history := []llm.Message{
			{Role: "system", Content: "You are a telecom customer support assistant."},
			{Role: "user", Content: "How do I check my remaining data quota?"},
		}
		response, err := provider.Chat(ctx, history, llm.WithTemperature(0.2))
		assert.NoError(t, err)
		assert.NotEmpty(t, response)
		t.Logf("Chat response: %s", response)
	})
}
