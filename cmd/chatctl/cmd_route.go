package main

import (
	"fmt"
	"strings"

	"hcp-chatbot-be/internal/config"
	"hcp-chatbot-be/internal/pkg/logger"
	"hcp-chatbot-be/pkg/ai/router"
	"hcp-chatbot-be/pkg/llm/factory"
	"hcp-chatbot-be/pkg/rag/intent"

	"github.com/spf13/cobra"
)

var routeCmd = &cobra.Command{
	Use:   "route <question>",
	Short: "Show the routing decision for a question",
	Long: `Classify a question without executing it. Only the text generation
backend is contacted; no database is needed.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRoute,
}

func runRoute(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	ctx := cmd.Context()

	llmProvider, err := factory.NewLLMProvider(ctx, factory.Config{
		Provider: cfg.Ai.LLMProvider,
		Model:    cfg.Ai.LLMModel,
		BaseURL:  cfg.Ai.OllamaBaseURL,
		APIKey:   cfg.Ai.GoogleGeminiKey,
	})
	if err != nil {
		return fmt.Errorf("llm provider: %w", err)
	}

	log := logger.NewNopLogger()
	r := router.NewRouter(intent.NewClassifier(llmProvider, log, cfg.Timeouts.LLM), log)
	d := r.Decide(ctx, strings.Join(args, " "), nil)

	renderDecision(cmd.OutOrStdout(), d, verbose)
	return nil
}
