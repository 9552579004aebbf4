package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	domai "github.com/bryanwahyu/product-content-ai/internal/domain/ai"
)

const defaultModel = "gemini-2.5-pro"

// contentGenerator is satisfied by *genai.Models
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements ai.Provider on the Gemini API
type Client struct {
	models contentGenerator
	Model  string
}

func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{models: cli.Models, Model: model}, nil
}

// responseSchema requires the four result fields
func responseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       {Type: genai.TypeString, Description: "عنوان جذاب محصول به فارسی"},
			"description": {Type: genai.TypeString, Description: "توضیحات کامل محصول به فارسی"},
			"hashtags": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "آرایه‌ای از هشتگ‌های فارسی",
			},
			"categories": {
				Type:        genai.TypeArray,
				Items:       &genai.Schema{Type: genai.TypeString},
				Description: "آرایه‌ای از دسته‌بندی‌های محصول",
			},
		},
		Required: []string{"title", "description", "hashtags", "categories"},
	}
}

// Generate sends the image inline with the instruction and returns the reply text.
func (c *Client) Generate(ctx context.Context, image []byte, mimeType string, in domai.Instruction) (string, error) {
	model := c.Model
	if model == "" {
		model = defaultModel
	}

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: image}},
			{Text: in.User},
		},
	}}
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: in.System}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    responseSchema(),
	}

	resp, err := c.models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return "", classify(err)
	}
	return replyText(resp)
}

// classify pre-classifies HTTP status codes; other errors are left to ai.Classify.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized, http.StatusForbidden:
			return domai.NewError(domai.KindInvalidCredential, "gemini: "+apiErr.Status, err)
		case http.StatusTooManyRequests:
			return domai.NewError(domai.KindRateLimited, "gemini: "+apiErr.Status, err)
		}
	}
	return fmt.Errorf("gemini generate content: %w", err)
}

func replyText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("gemini blocked the prompt: %s", resp.PromptFeedback.BlockReason)
		}
		return "", nil
	}

	candidate := resp.Candidates[0]
	switch candidate.FinishReason {
	case genai.FinishReasonSafety, genai.FinishReasonRecitation, genai.FinishReasonProhibitedContent:
		return "", errors.New("gemini stopped the reply: " + string(candidate.FinishReason))
	}
	if candidate.Content == nil {
		return "", nil
	}

	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil && part.Text != "" && !part.Thought {
			b.WriteString(part.Text)
		}
	}
	return b.String(), nil
}
