package factory

import (
	"context"
	"testing"

	"hcp-chatbot-be/pkg/llm/ollama"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(context.Background(), Config{Provider: "ollama", Model: "llama3"})
	require.NoError(t, err)
	o, ok := p.(*ollama.OllamaProvider)
	require.True(t, ok)
	assert.Equal(t, "http://localhost:11434", o.BaseURL)

	_, err = NewLLMProvider(context.Background(), Config{Provider: "gemini"})
	assert.Error(t, err)

	_, err = NewLLMProvider(context.Background(), Config{Provider: "huggingface"})
	assert.EqualError(t, err, "unsupported LLM provider: huggingface")
}
