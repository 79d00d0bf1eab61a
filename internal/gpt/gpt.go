// Package gpt writes the neutral summary with an OpenAI chat model.
package gpt

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/deusflow/neutralnews/internal/summary"
)

const DefaultModel = openai.GPT4oMini

var errNoChoices = errors.New("no response from OpenAI")

type Client struct {
	client *openai.Client
	model  string
}

func NewClient(apiKey, model string) *Client {
	return newClient(openai.DefaultConfig(apiKey), model)
}

func newClient(cfg openai.ClientConfig, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{client: openai.NewClientWithConfig(cfg), model: model}
}

// Summarize asks the chat model for one neutral paragraph combining the
// perspectives' headlines.
func (c *Client) Summarize(ctx context.Context, p summary.Perspectives) (*summary.Result, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You summarize news neutrally. Answer only in the requested format.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: summary.BuildPrompt(p),
			},
		},
		Temperature:         0.2,
		MaxCompletionTokens: 400,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, errNoChoices
	}

	return summary.ParseResponse(strings.TrimSpace(resp.Choices[0].Message.Content))
}
