package providers

import (
	"context"
)

// Config represents the configuration for a single LLM request
type Config struct {
	Model       string
	Temperature float64
	Prompt      string
	// JSON asks the backend to constrain its output to a JSON object when it can.
	JSON bool
}

// Image is an encoded image handed to a vision-capable provider
type Image struct {
	Name     string
	Data     []byte
	MIMEType string
}

// CaptionMode selects how much detail a caption request asks for
type CaptionMode string

const (
	ModeCaption             CaptionMode = "caption"
	ModeDetailedCaption     CaptionMode = "detailed_caption"
	ModeMoreDetailedCaption CaptionMode = "more_detailed_caption"
)

// Grounding is the result of grounding caption phrases against an image
type Grounding struct {
	Labels []string `json:"labels"`
}

// Provider defines the interface for a text generation backend
type Provider interface {
	GenerateText(ctx context.Context, config Config) (string, error)
}

// VisionProvider generates text from a prompt and a single image
type VisionProvider interface {
	GenerateFromImage(ctx context.Context, config Config, image Image) (string, error)
}

// Checker verifies a backend is configured and reachable
type Checker interface {
	Check(ctx context.Context) error
}
