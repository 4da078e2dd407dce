package factory

import (
	"context"
	"fmt"

	"hcp-chatbot-be/pkg/llm"
	"hcp-chatbot-be/pkg/llm/gemini"
	"hcp-chatbot-be/pkg/llm/ollama"
)

// Config selects and configures a text generation backend.
type Config struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
}

func NewLLMProvider(ctx context.Context, cfg Config) (llm.LLMProvider, error) {
	switch cfg.Provider {
	case "ollama", "":
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, cfg.Model), nil
	case "gemini":
		return gemini.NewProvider(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}
