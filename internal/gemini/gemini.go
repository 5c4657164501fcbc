package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lehigh-university-libraries/pagetagger/internal/providers"
	"google.golang.org/api/option"
)

// Gemini is a provider for Google Gemini
type Gemini struct {
	apiKey string
}

// New returns a new Gemini provider
func New(apiKey string) *Gemini {
	return &Gemini{apiKey: apiKey}
}

// GenerateText generates text from the given prompt using Gemini
func (g *Gemini) GenerateText(ctx context.Context, config providers.Config) (string, error) {
	return g.generate(ctx, config, genai.Text(config.Prompt))
}

// GenerateFromImage generates text from the given prompt and image using Gemini
func (g *Gemini) GenerateFromImage(ctx context.Context, config providers.Config, image providers.Image) (string, error) {
	format := strings.TrimPrefix(image.MIMEType, "image/")
	if format == "" {
		format = "jpeg"
	}
	return g.generate(ctx, config, genai.ImageData(format, image.Data), genai.Text(config.Prompt))
}

// Check verifies an API key is configured
func (g *Gemini) Check(_ context.Context) error {
	if g.apiKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	return nil
}

func (g *Gemini) generate(ctx context.Context, config providers.Config, parts ...genai.Part) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(config.Model)
	model.SetTemperature(float32(config.Temperature))
	if config.JSON {
		model.ResponseMIMEType = "application/json"
	}

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	var result strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			result.WriteString(string(txt))
		}
	}
	if result.Len() == 0 {
		return "", fmt.Errorf("unexpected response format from Gemini")
	}

	return result.String(), nil
}
