package embedding

import (
	"context"
	"fmt"
)

// EmbeddingProvider turns text into a vector in the space of the indexed
// document chunks.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Config struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
}

// NewProvider builds the configured provider. Results are not cached; wrap
// with NewCachedProvider for that.
func NewProvider(ctx context.Context, cfg Config) (EmbeddingProvider, error) {
	switch cfg.Provider {
	case "ollama", "":
		return NewOllamaProvider(cfg.BaseURL, cfg.Model), nil
	case "gemini":
		return NewGeminiProvider(ctx, cfg.APIKey, cfg.Model)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
