//go:build ignore

package main

import (
	"context"
	"fmt"
	"log"
	"math"

	"hcp-chatbot-be/internal/config"
	"hcp-chatbot-be/pkg/embedding"
)

// CosineSimilarity calculates similarity between two vectors
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0.0
	}
	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i] * b[i])
		normA += float64(a[i] * a[i])
		normB += float64(b[i] * b[i])
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB))
}

func main() {
	ctx := context.Background()
	cfg := config.Load()

	fmt.Println("--- Initializing Providers ---")
	providers := map[string]embedding.EmbeddingProvider{
		"OLLAMA": embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel),
	}
	if cfg.Ai.GoogleGeminiKey != "" {
		gemini, err := embedding.NewGeminiProvider(ctx, cfg.Ai.GoogleGeminiKey, "")
		if err != nil {
			log.Printf("Gemini disabled: %v", err)
		} else {
			providers["GEMINI"] = gemini
		}
	}

	// Change descriptions as they appear in history_table.
	text1 := "Updated influence score for Dr. Smith after the cardiology congress"
	text2 := "Raised Dr. Smith's influence rating following the heart conference"
	text3 := "Removed duplicate email address for a pharmacist in Boston"

	fmt.Println("\n--- Semantic Similarity Comparison ---")
	fmt.Println("(Higher is better, 1.0 = identical)")

	for name, p := range providers {
		vecs := make([][]float32, 0, 3)
		for _, t := range []string{text1, text2, text3} {
			v, err := p.Embed(ctx, t)
			if err != nil {
				log.Printf("Error %s: %v", name, err)
				break
			}
			vecs = append(vecs, v)
		}
		if len(vecs) != 3 {
			continue
		}
		fmt.Printf("\n[%s] (%d dims)\n", name, len(vecs[0]))
		fmt.Printf("Similarity (Text 1 vs Text 2 - Similar): %.4f\n", CosineSimilarity(vecs[0], vecs[1]))
		fmt.Printf("Similarity (Text 1 vs Text 3 - Different): %.4f\n", CosineSimilarity(vecs[0], vecs[2]))
	}

	fmt.Printf("\nIndexed dimension is %d; a provider must match it to serve semantic_search.\n", cfg.Ai.EmbeddingDimension)
}
