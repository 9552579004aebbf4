package openai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domai "github.com/bryanwahyu/product-content-ai/internal/domain/ai"
)

type mockChat struct {
	req  openai.ChatCompletionRequest
	resp openai.ChatCompletionResponse
	err  error
}

func (m *mockChat) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	m.req = req
	return m.resp, m.err
}

func reply(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{Choices: []openai.ChatCompletionChoice{
		{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
	}}
}

func TestClient_Generate(t *testing.T) {
	m := &mockChat{resp: reply(`{"title":"x"}`)}
	c := &Client{api: m}

	text, err := c.Generate(context.Background(), []byte("img"), "image/png", domai.Instruction{System: "sys", User: "usr"})
	require.NoError(t, err)
	assert.Equal(t, `{"title":"x"}`, text)

	assert.Equal(t, defaultModel, m.req.Model)
	assert.Equal(t, maxTokens, m.req.MaxTokens)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONObject, m.req.ResponseFormat.Type)
	require.Len(t, m.req.Messages, 2)
	assert.Equal(t, "sys", m.req.Messages[0].Content)

	parts := m.req.Messages[1].MultiContent
	require.Len(t, parts, 2)
	require.NotNil(t, parts[0].ImageURL)
	assert.True(t, strings.HasPrefix(parts[0].ImageURL.URL, "data:image/png;base64,aW1n"))
	assert.Equal(t, "usr", parts[1].Text)
}

func TestClient_Generate_ReasoningModel(t *testing.T) {
	m := &mockChat{resp: reply("{}")}
	c := &Client{api: m, Model: "o4-mini"}

	_, err := c.Generate(context.Background(), []byte("img"), "image/jpeg", domai.Instruction{})
	require.NoError(t, err)
	assert.Equal(t, maxTokens, m.req.MaxCompletionTokens)
	assert.Zero(t, m.req.MaxTokens)
}

func TestClient_Generate_NoChoices(t *testing.T) {
	c := &Client{api: &mockChat{}}
	text, err := c.Generate(context.Background(), []byte("img"), "image/jpeg", domai.Instruction{})
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestClient_Generate_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind domai.Kind
	}{
		{"unauthorized", &openai.APIError{HTTPStatusCode: 401, Message: "Incorrect API key provided"}, domai.KindInvalidCredential},
		{"quota", &openai.APIError{HTTPStatusCode: 429, Message: "You exceeded your current quota"}, domai.KindRateLimited},
		{"request error", &openai.RequestError{HTTPStatusCode: 429, Err: errors.New("slow down")}, domai.KindRateLimited},
		{"bad image", &openai.APIError{HTTPStatusCode: 400, Message: "Invalid image data"}, domai.KindUnsupportedImage},
		{"network", errors.New("dial tcp: connection refused"), domai.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Client{api: &mockChat{err: tt.err}}
			_, err := c.Generate(context.Background(), []byte("img"), "image/jpeg", domai.Instruction{})
			require.Error(t, err)
			assert.Equal(t, tt.kind, domai.Classify(err).Kind)
		})
	}
}
