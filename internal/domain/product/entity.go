package product

import "time"

// AnalysisID identifier type
type AnalysisID int64

// Analysis is a persisted product analysis shown in the history view
type Analysis struct {
	ID          AnalysisID         `json:"id"`
	ImageData   string             `json:"imageData"` // base64 of the uploaded image
	ImageURL    string             `json:"imageUrl,omitempty"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Hashtags    []string           `json:"hashtags"`
	Categories  []string           `json:"categories"`
	Settings    GenerationSettings `json:"settings"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// NewAnalysis is the input of Repository.Create; id and createdAt are assigned by the store.
type NewAnalysis struct {
	ImageData   string
	ImageURL    string
	Title       string
	Description string
	Hashtags    []string
	Categories  []string
	Settings    GenerationSettings
}

// Build turns the input into a record with the given id and timestamp.
// Slices are copied so the record never shares memory with the caller.
func (n NewAnalysis) Build(id AnalysisID, createdAt time.Time) *Analysis {
	return &Analysis{
		ID:          id,
		ImageData:   n.ImageData,
		ImageURL:    n.ImageURL,
		Title:       n.Title,
		Description: n.Description,
		Hashtags:    cloneStrings(n.Hashtags),
		Categories:  cloneStrings(n.Categories),
		Settings:    n.Settings.Clone(),
		CreatedAt:   createdAt,
	}
}

// Clone returns a deep copy.
func (a *Analysis) Clone() *Analysis {
	if a == nil {
		return nil
	}
	c := *a
	c.Hashtags = cloneStrings(a.Hashtags)
	c.Categories = cloneStrings(a.Categories)
	c.Settings = a.Settings.Clone()
	return &c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
