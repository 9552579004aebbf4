// Package db holds helpers shared by the SQL-backed analysis stores.
package db

import (
	"encoding/json"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/product-content-ai/internal/domain/product"
)

// Row is the column set of the product_analyses table.
type Row struct {
	ID         int64
	ImageData  string
	ImageURL   string
	Title      string
	Desc       string
	Hashtags   []byte
	Categories []byte
	Settings   []byte
	CreatedAt  time.Time
}

// EncodeJSON marshals the JSON columns of in.
func EncodeJSON(in domain.NewAnalysis) (hashtags, categories, settings []byte, err error) {
	if hashtags, err = json.Marshal(nonNil(in.Hashtags)); err != nil {
		return nil, nil, nil, fmt.Errorf("encode hashtags: %w", err)
	}
	if categories, err = json.Marshal(nonNil(in.Categories)); err != nil {
		return nil, nil, nil, fmt.Errorf("encode categories: %w", err)
	}
	if settings, err = json.Marshal(in.Settings); err != nil {
		return nil, nil, nil, fmt.Errorf("encode settings: %w", err)
	}
	return hashtags, categories, settings, nil
}

// Decode converts a scanned row into a domain record.
func (r Row) Decode() (*domain.Analysis, error) {
	a := &domain.Analysis{
		ID:          domain.AnalysisID(r.ID),
		ImageData:   r.ImageData,
		ImageURL:    r.ImageURL,
		Title:       r.Title,
		Description: r.Desc,
		CreatedAt:   r.CreatedAt,
	}
	if err := json.Unmarshal(r.Hashtags, &a.Hashtags); err != nil {
		return nil, fmt.Errorf("decode hashtags of %d: %w", r.ID, err)
	}
	if err := json.Unmarshal(r.Categories, &a.Categories); err != nil {
		return nil, fmt.Errorf("decode categories of %d: %w", r.ID, err)
	}
	if err := json.Unmarshal(r.Settings, &a.Settings); err != nil {
		return nil, fmt.Errorf("decode settings of %d: %w", r.ID, err)
	}
	return a, nil
}

// Timestamp normalizes t to what both databases store losslessly.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
