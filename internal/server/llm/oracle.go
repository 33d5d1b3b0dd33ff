// Package llm wraps the upstream completion model behind the Oracle
// interface so the chat service never touches a vendor SDK directly.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/celestia-oracle/celestia/internal/common"
	"github.com/celestia-oracle/celestia/internal/server/models"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Oracle produces the assistant's reply for a user message given the prior
// conversation window, oldest message first.
type Oracle interface {
	Complete(ctx context.Context, history []models.ChatMessage, message string) (string, error)
}

// OpenAIOracle talks to the OpenAI chat-completions API via langchaingo.
type OpenAIOracle struct {
	model llms.Model
}

func NewOpenAIOracle(apiKey, modelName string) (*OpenAIOracle, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}
	m, err := openai.New(openai.WithToken(apiKey), openai.WithModel(modelName))
	if err != nil {
		return nil, fmt.Errorf("openai client error: %w", err)
	}
	return &OpenAIOracle{model: m}, nil
}

// Complete sends the persona prompt, the history window, and the new message
// to the model. Upstream failures are collapsed into ErrModelCredential or
// ErrModelUnavailable with the cause attached for logging only.
func (o *OpenAIOracle) Complete(ctx context.Context, history []models.ChatMessage, message string) (string, error) {
	content := make([]llms.MessageContent, 0, len(history)+2)
	content = append(content, llms.TextParts(llms.ChatMessageTypeSystem, systemPrompt))
	for _, m := range history {
		role := llms.ChatMessageTypeHuman
		if m.Role == models.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.TextParts(role, m.Content))
	}
	content = append(content, llms.TextParts(llms.ChatMessageTypeHuman, message))

	resp, err := o.model.GenerateContent(ctx, content,
		llms.WithTemperature(0.8),
		llms.WithMaxTokens(500),
	)
	if err != nil {
		return "", classifyErr(err)
	}
	if len(resp.Choices) == 0 {
		return "", common.ErrModelUnavailable
	}
	return resp.Choices[0].Content, nil
}

// Unavailable stands in for the oracle when no API key is configured, so the
// rest of the service still runs and health reporting stays honest.
type Unavailable struct{}

func (Unavailable) Complete(ctx context.Context, history []models.ChatMessage, message string) (string, error) {
	return "", fmt.Errorf("%w: no api key configured", common.ErrModelUnavailable)
}

func classifyErr(err error) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "invalid_api_key") ||
		strings.Contains(msg, "incorrect api key") ||
		strings.Contains(msg, "401") {
		return fmt.Errorf("%w: %v", common.ErrModelCredential, err)
	}
	return fmt.Errorf("%w: %v", common.ErrModelUnavailable, err)
}
