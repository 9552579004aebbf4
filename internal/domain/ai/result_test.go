package ai

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	var aErr *AnalysisError
	require.True(t, errors.As(err, &aErr), "expected AnalysisError, got %v", err)
	assert.Equal(t, kind, aErr.Kind)
}

func TestRepair_PrefixesHashtags(t *testing.T) {
	raw := RawResult{
		Title:       str("کفش ورزشی"),
		Description: str("توضیحات"),
		Hashtags:    []string{"کفش", "#ورزش", " استایل "},
		Categories:  []string{"پوشاک"},
	}

	got, err := Repair(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"#کفش", "#ورزش", "#استایل"}, got.Hashtags)
	assert.Equal(t, []string{"پوشاک"}, got.Categories)

	again, err := Repair(got.Raw())
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestRepair_TruncatesToFirstTen(t *testing.T) {
	tags := make([]string, 0, 15)
	for i := 0; i < 15; i++ {
		tags = append(tags, fmt.Sprintf("tag%d", i))
	}

	got, err := Repair(RawResult{Title: str("t"), Description: str("d"), Hashtags: tags, Categories: []string{"c"}})
	require.NoError(t, err)
	require.Len(t, got.Hashtags, MaxHashtags)
	for i, tag := range got.Hashtags {
		assert.Equal(t, fmt.Sprintf("#tag%d", i), tag)
	}
}

func TestRepair_Fallbacks(t *testing.T) {
	got, err := Repair(RawResult{Title: str("t"), Description: str("d"), Hashtags: []string{}, Categories: []string{}})
	require.NoError(t, err)
	assert.Equal(t, []string{"#محصول", "#کیفیت_بالا", "#خرید_آنلاین"}, got.Hashtags)
	assert.Equal(t, []string{"عمومی", "محصولات متنوع"}, got.Categories)

	// fallback slices must not be shared with the caller
	got.Hashtags[0] = "changed"
	assert.Equal(t, "#محصول", FallbackHashtags[0])
}

func TestRepair_ShortListsUntouched(t *testing.T) {
	got, err := Repair(RawResult{Title: str("t"), Description: str("d"), Hashtags: []string{"#one"}, Categories: []string{"single"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"#one"}, got.Hashtags)
	assert.Equal(t, []string{"single"}, got.Categories)
}

func TestRepair_BlankEntriesOnlyTriggerFallback(t *testing.T) {
	got, err := Repair(RawResult{Title: str("t"), Description: str("d"), Hashtags: []string{" ", "#"}, Categories: []string{""}})
	require.NoError(t, err)
	assert.Equal(t, FallbackHashtags, got.Hashtags)
	assert.Equal(t, FallbackCategories, got.Categories)
}

func TestRepair_InvalidShape(t *testing.T) {
	tests := []struct {
		name string
		raw  RawResult
	}{
		{"missing title", RawResult{Description: str("d"), Hashtags: []string{}, Categories: []string{}}},
		{"blank title", RawResult{Title: str("  "), Description: str("d"), Hashtags: []string{}, Categories: []string{}}},
		{"missing description", RawResult{Title: str("t"), Hashtags: []string{}, Categories: []string{}}},
		{"hashtags not a list", RawResult{Title: str("t"), Description: str("d"), Categories: []string{}}},
		{"categories not a list", RawResult{Title: str("t"), Description: str("d"), Hashtags: []string{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Repair(tt.raw)
			requireKind(t, err, KindInvalidShape)
		})
	}
}

func TestParseResult(t *testing.T) {
	t.Run("valid object", func(t *testing.T) {
		raw, err := ParseResult(`{"title":"کفش ورزشی","description":"...","hashtags":["کفش","#ورزش"],"categories":[]}`)
		require.NoError(t, err)
		assert.Equal(t, "کفش ورزشی", *raw.Title)
		assert.Equal(t, []string{"کفش", "#ورزش"}, raw.Hashtags)
		assert.NotNil(t, raw.Categories)
		assert.Empty(t, raw.Categories)
	})

	t.Run("fenced object", func(t *testing.T) {
		raw, err := ParseResult("```json\n{\"title\":\"a\",\"description\":\"b\",\"hashtags\":[],\"categories\":[]}\n```")
		require.NoError(t, err)
		assert.Equal(t, "a", *raw.Title)
	})

	t.Run("null list is missing", func(t *testing.T) {
		raw, err := ParseResult(`{"title":"a","description":"b","hashtags":null,"categories":[]}`)
		require.NoError(t, err)
		assert.Nil(t, raw.Hashtags)
		_, err = Repair(raw)
		requireKind(t, err, KindInvalidShape)
	})

	t.Run("empty output", func(t *testing.T) {
		_, err := ParseResult("   ")
		requireKind(t, err, KindMalformedResponse)
		var aErr *AnalysisError
		require.True(t, errors.As(err, &aErr))
		assert.Equal(t, MsgEmptyResponse, aErr.Message)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := ParseResult("متاسفم، نمی‌توانم کمک کنم")
		requireKind(t, err, KindMalformedResponse)
	})

	t.Run("json array", func(t *testing.T) {
		_, err := ParseResult(`["a"]`)
		requireKind(t, err, KindMalformedResponse)
	})

	t.Run("hashtags is a string", func(t *testing.T) {
		_, err := ParseResult(`{"title":"a","description":"b","hashtags":"#a #b","categories":[]}`)
		requireKind(t, err, KindInvalidShape)
	})

	t.Run("title is a number", func(t *testing.T) {
		_, err := ParseResult(`{"title":1,"description":"b","hashtags":[],"categories":[]}`)
		requireKind(t, err, KindInvalidShape)
	})
}
