package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	domai "github.com/bryanwahyu/design-critique/internal/domain/ai"
	"github.com/bryanwahyu/design-critique/internal/infra/ai/prompt"
)

const maxTokens = 4000

type Client struct {
	*openai.Client
	Model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{Client: openai.NewClient(apiKey), Model: model}
}

// Critique sends the image inline as a base64 data URL with the critique
// instruction and returns the model's raw text. The text is handed to the
// response parser untouched; this layer only surfaces transport-level
// failures.
func (c *Client) Critique(ctx context.Context, req domai.CritiqueRequest) (string, error) {
	model := c.Model
	if model == "" {
		model = openai.GPT4o
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s",
		req.MimeType, base64.StdEncoding.EncodeToString(req.Image))

	resp, err := c.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{
						Type: openai.ChatMessagePartTypeText,
						Text: prompt.DesignCritique(req.Width, req.Height),
					},
					{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL:    dataURL,
							Detail: openai.ImageURLDetailHigh,
						},
					},
				},
			},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("%w: %v", domai.ErrQuotaExceeded, err)
		}
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
