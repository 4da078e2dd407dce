// Package intent decides which strategy answers a query: deterministic
// shortcuts first, then a model classification rewritten by ordered rules.
package intent

import (
	"context"
	"time"

	"hcp-chatbot-be/internal/pkg/logger"
	"hcp-chatbot-be/pkg/llm"
	"hcp-chatbot-be/pkg/rag/prompt"
	"hcp-chatbot-be/pkg/rag/state"
)

const logModule = "CLASSIFIER"

// Classifier calls the generation service with the structured-output
// classification prompt.
type Classifier struct {
	llmProvider llm.LLMProvider
	logger      logger.ILogger
	timeout     time.Duration
}

func NewClassifier(llmProvider llm.LLMProvider, log logger.ILogger, timeout time.Duration) *Classifier {
	return &Classifier{
		llmProvider: llmProvider,
		logger:      log,
		timeout:     timeout,
	}
}

// Classify never panics; every failure is wrapped in
// state.ErrClassificationParse.
func (c *Classifier) Classify(ctx context.Context, query, conversationContext string) (Classification, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	p := prompt.Classification(query, conversationContext)
	c.logger.Debug(logModule, "Classifying query", map[string]interface{}{
		"query":         query,
		"prompt_length": len(p),
	})

	raw, err := c.llmProvider.Generate(ctx, p, llm.WithTemperature(0.0))
	if err != nil {
		c.logger.Error(logModule, "Classification call failed", map[string]interface{}{"error": err.Error()})
		return Classification{}, state.Errorf(state.ErrClassificationParse, "%v", err)
	}

	result, err := ParseClassification(raw)
	if err != nil {
		c.logger.Warn(logModule, "Classifier output could not be parsed", map[string]interface{}{
			"error": err.Error(),
			"raw":   raw,
		})
		return Classification{}, err
	}

	c.logger.Info(logModule, "Classification parsed", map[string]interface{}{
		"route":          result.Route,
		"confidence":     result.Confidence,
		"version_number": result.VersionNumber.Value,
	})
	return result, nil
}
