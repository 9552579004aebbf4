package product

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DescriptionLength enum
type DescriptionLength string

const (
	LengthShort  DescriptionLength = "short"
	LengthMedium DescriptionLength = "medium"
	LengthLong   DescriptionLength = "long"
)

// Valid reports whether l is one of the known buckets.
func (l DescriptionLength) Valid() bool {
	switch l {
	case LengthShort, LengthMedium, LengthLong:
		return true
	}
	return false
}

// Platform tokens with dedicated prompt phrasing. Other tokens are passed through.
const (
	PlatformStore     = "store"
	PlatformInstagram = "instagram"
)

// GenerationSettings value object, immutable once normalized
type GenerationSettings struct {
	DescriptionLength DescriptionLength `json:"descriptionLength"`
	TargetPlatforms   []string          `json:"targetPlatforms"`
}

// DefaultSettings returns medium length for store and instagram.
func DefaultSettings() GenerationSettings {
	return GenerationSettings{
		DescriptionLength: LengthMedium,
		TargetPlatforms:   []string{PlatformStore, PlatformInstagram},
	}
}

// HasPlatform reports whether token is among the target platforms.
func (s GenerationSettings) HasPlatform(token string) bool {
	for _, p := range s.TargetPlatforms {
		if strings.EqualFold(p, token) {
			return true
		}
	}
	return false
}

// Clone returns a copy that does not share the platform slice.
func (s GenerationSettings) Clone() GenerationSettings {
	s.TargetPlatforms = cloneStrings(s.TargetPlatforms)
	return s
}

// PartialSettings is what the client sent. Nil fields were absent or malformed.
type PartialSettings struct {
	DescriptionLength *string
	TargetPlatforms   []string
}

// ParseSettings decodes the settings form field one option at a time so a
// malformed option does not discard the others. Empty input is not an error.
func ParseSettings(data []byte) (PartialSettings, error) {
	var out PartialSettings
	if len(strings.TrimSpace(string(data))) == 0 {
		return out, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return out, fmt.Errorf("decode settings: %w", err)
	}

	if raw, ok := fields["descriptionLength"]; ok {
		var v string
		if err := json.Unmarshal(raw, &v); err == nil {
			out.DescriptionLength = &v
		}
	}
	if raw, ok := fields["targetPlatforms"]; ok {
		var v []string
		if err := json.Unmarshal(raw, &v); err == nil {
			out.TargetPlatforms = v
		}
	}
	return out, nil
}

// NormalizeSettings applies defaults to absent or malformed options.
func NormalizeSettings(p PartialSettings) GenerationSettings {
	s := DefaultSettings()

	if p.DescriptionLength != nil {
		l := DescriptionLength(strings.ToLower(strings.TrimSpace(*p.DescriptionLength)))
		if l.Valid() {
			s.DescriptionLength = l
		}
	}

	platforms := make([]string, 0, len(p.TargetPlatforms))
	for _, t := range p.TargetPlatforms {
		if t = strings.TrimSpace(t); t != "" {
			platforms = append(platforms, t)
		}
	}
	if len(platforms) > 0 {
		s.TargetPlatforms = platforms
	}
	return s
}
