package ai

import "context"

// Instruction is the structured prompt sent with the image
type Instruction struct {
	System string
	User   string
}

// Provider is the external multimodal model. It returns the raw text of the
// model reply, which is expected to hold a single JSON object.
type Provider interface {
	Generate(ctx context.Context, image []byte, mimeType string, in Instruction) (string, error)
}
