package ai

import (
	"encoding/json"
	"strings"
)

// MaxHashtags caps the hashtag list of a repaired result.
const MaxHashtags = 10

// HashtagMarker prefixes every hashtag.
const HashtagMarker = "#"

// Fallbacks used when the provider returns an empty list
var (
	FallbackHashtags   = []string{"#محصول", "#کیفیت_بالا", "#خرید_آنلاین"}
	FallbackCategories = []string{"عمومی", "محصولات متنوع"}
)

// Result is the repaired four-field analysis.
type Result struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Hashtags    []string `json:"hashtags"`
	Categories  []string `json:"categories"`
}

// RawResult is the provider reply after decoding, before repair.
// A nil slice means the field was missing or null.
type RawResult struct {
	Title       *string
	Description *string
	Hashtags    []string
	Categories  []string
}

// ParseResult decodes the model text. Empty or non-object text is a
// MalformedResponse; a field with the wrong JSON type is an InvalidShape.
func ParseResult(text string) (RawResult, error) {
	var raw RawResult

	text = stripFences(text)
	if text == "" {
		return raw, &AnalysisError{Kind: KindMalformedResponse, Message: MsgEmptyResponse, Detail: "empty model output"}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return raw, NewError(KindMalformedResponse, "model output is not a JSON object", err)
	}

	var err error
	if raw.Title, err = stringField(fields, "title"); err != nil {
		return raw, err
	}
	if raw.Description, err = stringField(fields, "description"); err != nil {
		return raw, err
	}
	if raw.Hashtags, err = listField(fields, "hashtags"); err != nil {
		return raw, err
	}
	if raw.Categories, err = listField(fields, "categories"); err != nil {
		return raw, err
	}
	return raw, nil
}

// Repair validates a raw result and coerces it into a Result.
// Repairing an already repaired result is a no-op.
func Repair(raw RawResult) (Result, error) {
	if raw.Title == nil || strings.TrimSpace(*raw.Title) == "" {
		return Result{}, NewError(KindInvalidShape, "missing title", nil)
	}
	if raw.Description == nil || strings.TrimSpace(*raw.Description) == "" {
		return Result{}, NewError(KindInvalidShape, "missing description", nil)
	}
	if raw.Hashtags == nil {
		return Result{}, NewError(KindInvalidShape, "hashtags is not a list", nil)
	}
	if raw.Categories == nil {
		return Result{}, NewError(KindInvalidShape, "categories is not a list", nil)
	}

	hashtags := make([]string, 0, len(raw.Hashtags))
	for _, tag := range raw.Hashtags {
		tag = strings.TrimSpace(tag)
		if tag == "" || tag == HashtagMarker {
			continue
		}
		if !strings.HasPrefix(tag, HashtagMarker) {
			tag = HashtagMarker + tag
		}
		hashtags = append(hashtags, tag)
	}
	if len(hashtags) > MaxHashtags {
		hashtags = hashtags[:MaxHashtags]
	}
	// total replacement, not padding
	if len(hashtags) == 0 {
		hashtags = append([]string(nil), FallbackHashtags...)
	}

	categories := make([]string, 0, len(raw.Categories))
	for _, c := range raw.Categories {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}
	if len(categories) == 0 {
		categories = append([]string(nil), FallbackCategories...)
	}

	return Result{
		Title:       *raw.Title,
		Description: *raw.Description,
		Hashtags:    hashtags,
		Categories:  categories,
	}, nil
}

// Raw converts r back into a RawResult.
func (r Result) Raw() RawResult {
	title, desc := r.Title, r.Description
	return RawResult{
		Title:       &title,
		Description: &desc,
		Hashtags:    append([]string{}, r.Hashtags...),
		Categories:  append([]string{}, r.Categories...),
	}
}

func stringField(fields map[string]json.RawMessage, name string) (*string, error) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, NewError(KindInvalidShape, name+" is not a string", err)
	}
	return &v, nil
}

func listField(fields map[string]json.RawMessage, name string) ([]string, error) {
	raw, ok := fields[name]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var v []string
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, NewError(KindInvalidShape, name+" is not a list of strings", err)
	}
	if v == nil {
		v = []string{}
	}
	return v, nil
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

// stripFences removes a surrounding ```json fence some models add despite the instruction.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
