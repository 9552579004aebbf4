package product

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateImage(t *testing.T) {
	tests := []struct {
		name     string
		mimeType string
		size     int64
		wantMsg  string
	}{
		{"jpeg ok", "image/jpeg", 1024, ""},
		{"jpg alias ok", "image/jpg", 1024, ""},
		{"png ok", "image/png", 2 * 1024 * 1024, ""},
		{"webp ok", "image/webp", MaxImageSize, ""},
		{"upper case and params", "IMAGE/PNG; charset=binary", 10, ""},
		{"gif rejected", "image/gif", 10, MsgImageType},
		{"pdf rejected", "application/pdf", 10, MsgImageType},
		{"empty type rejected", "", 10, MsgImageType},
		{"one byte over limit", "image/jpeg", MaxImageSize + 1, MsgImageTooLarge},
		{"empty file", "image/jpeg", 0, MsgImageRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateImage(tt.mimeType, tt.size)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.True(t, errors.As(err, &vErr))
			assert.Equal(t, tt.wantMsg, vErr.Message)
			assert.NotEmpty(t, err.Error())
		})
	}
}

func TestValidateImage_TypeCheckedBeforeSize(t *testing.T) {
	err := ValidateImage("image/bmp", MaxImageSize*2)
	require.Error(t, err)
	assert.Equal(t, MsgImageType, err.Error())
}
