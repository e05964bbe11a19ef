package ai

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// deepseekClient is the concrete Valuer backed by the DeepSeek API.
// DeepSeek exposes an OpenAI-compatible /chat/completions endpoint, so the
// go-openai client works against it with only the base URL changed.
type deepseekClient struct {
	client *openai.Client
	model  string
}

const deepseekBaseURL = "https://api.deepseek.com/v1"

// NewDeepSeekClient returns a Valuer that calls the DeepSeek API.
//   - apiKey: your DEEPSEEK_API_KEY
//   - model:  e.g. "deepseek-chat" or "deepseek-reasoner"
func NewDeepSeekClient(apiKey, model string) Valuer {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = deepseekBaseURL
	return &deepseekClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// EstimateMarketValue calls the DeepSeek API and returns a price range for
// the inspected vehicle.
func (c *deepseekClient) EstimateMarketValue(ctx context.Context, facts VehicleFacts) (Estimate, error) {
	req := openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: 1024,
		// json_object mode guarantees the response body is valid JSON.
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(facts)},
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Estimate{}, fmt.Errorf("deepseek: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Estimate{}, fmt.Errorf("deepseek: no choices in response")
	}

	return parseEstimate(resp.Choices[0].Message.Content, "deepseek")
}
