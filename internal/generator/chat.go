package generator

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// ChatGenerator talks to any OpenAI-compatible chat completion endpoint (Groq, OpenAI).
type ChatGenerator struct {
	client   *openai.Client
	model    string
	provider string
}

func NewChatGenerator(provider, apiKey, baseURL, model string) *ChatGenerator {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &ChatGenerator{
		client:   openai.NewClientWithConfig(cfg),
		model:    model,
		provider: provider,
	}
}

func (g *ChatGenerator) Name() string { return g.provider }

func (g *ChatGenerator) Generate(ctx context.Context, req Request) (*Plan, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(req)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.7,
		MaxTokens:   8000,
	})
	if err != nil {
		return nil, fmt.Errorf("%s chat completion: %w", g.provider, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%s: no choices", g.provider)
	}

	plan, err := decodePlan(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", g.provider, err)
	}
	return plan, nil
}
