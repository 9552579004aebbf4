package openai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	domai "github.com/bryanwahyu/product-content-ai/internal/domain/ai"
)

const maxTokens = 2048

const defaultModel = "gpt-4o"

// chatCompleter is satisfied by *openai.Client
type chatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client implements ai.Provider on the OpenAI chat completions API
type Client struct {
	api   chatCompleter
	Model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{api: openai.NewClient(apiKey), Model: model}
}

// Generate sends the image as a data URL and asks for a JSON object reply.
func (c *Client) Generate(ctx context.Context, image []byte, mimeType string, in domai.Instruction) (string, error) {
	model := c.Model
	if model == "" {
		model = defaultModel
	}
	dataURL := "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image)

	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: in.System},
			{Role: openai.ChatMessageRoleUser, MultiContent: []openai.ChatMessagePart{
				{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: dataURL, Detail: openai.ImageURLDetailAuto}},
				{Type: openai.ChatMessagePartTypeText, Text: in.User},
			}},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", classify(err)
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// classify maps OpenAI status codes before the generic keyword classification
func classify(err error) error {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domai.NewError(domai.KindInvalidCredential, "openai: unauthorized", err)
	case http.StatusTooManyRequests:
		return domai.NewError(domai.KindRateLimited, "openai: too many requests", err)
	}
	return fmt.Errorf("failed to create chat completion: %w", err)
}
