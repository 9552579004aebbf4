package ai

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind Kind
		msg  string
	}{
		{"invalid key", errors.New("Error 400, Message: API key not valid. Please pass a valid API key., Status: INVALID_ARGUMENT"), KindInvalidCredential, MsgInvalidCredential},
		{"api_key marker", errors.New("API_KEY_INVALID"), KindInvalidCredential, MsgInvalidCredential},
		{"quota", errors.New("Error 429, Message: You exceeded your current quota, Status: RESOURCE_EXHAUSTED"), KindRateLimited, MsgRateLimited},
		{"rate limit", errors.New("rate limit reached for requests"), KindRateLimited, MsgRateLimited},
		{"sentinel", fmt.Errorf("call: %w", ErrQuotaExceeded), KindRateLimited, MsgRateLimited},
		{"image format", errors.New("Unsupported MIME type: image/gif"), KindUnsupportedImage, MsgUnsupportedImage},
		{"unknown", errors.New("connection reset by peer"), KindUnknown, MsgUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.msg, got.Message)
			assert.ErrorIs(t, got, tt.err)
		})
	}
}

func TestClassify_KeepsClassifiedErrors(t *testing.T) {
	orig := NewError(KindInvalidShape, "missing title", nil)
	wrapped := fmt.Errorf("analyze: %w", orig)

	assert.Same(t, orig, Classify(wrapped))
	assert.Nil(t, Classify(nil))
}

func TestAnalysisError_IsQuotaExceeded(t *testing.T) {
	assert.ErrorIs(t, NewError(KindRateLimited, "", nil), ErrQuotaExceeded)
	assert.NotErrorIs(t, NewError(KindUnknown, "", nil), ErrQuotaExceeded)
}

func TestAnalysisError_ErrorKeepsDetail(t *testing.T) {
	err := NewError(KindUnknown, "provider exploded", errors.New("boom"))
	assert.Contains(t, err.Error(), "unknown")
	assert.Contains(t, err.Error(), "provider exploded")
	assert.Contains(t, err.Error(), "boom")
	assert.NotContains(t, err.Message, "boom")
}
