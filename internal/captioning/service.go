// Package captioning describes page images and grounds caption phrases
// against them using a vision-capable LLM provider.
package captioning

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lehigh-university-libraries/pagetagger/internal/providers"
)

type Service struct {
	provider    providers.VisionProvider
	model       string
	temperature float64
}

func NewService(provider providers.VisionProvider, model string) *Service {
	return &Service{
		provider:    provider,
		model:       model,
		temperature: 0.1,
	}
}

// Caption returns a free-text description of the image
func (s *Service) Caption(ctx context.Context, image providers.Image, mode providers.CaptionMode) (string, error) {
	prompt, err := buildCaptionPrompt(mode)
	if err != nil {
		return "", err
	}

	text, err := s.provider.GenerateFromImage(ctx, providers.Config{
		Model:       s.model,
		Temperature: s.temperature,
		Prompt:      prompt,
	}, image)
	if err != nil {
		return "", fmt.Errorf("failed to caption image: %w", err)
	}

	caption := cleanCaption(text)
	slog.Debug("Generated caption", "image", image.Name, "mode", mode, "length", len(caption))
	return caption, nil
}

// GroundPhrases returns the labels of caption phrases visible in the image
func (s *Service) GroundPhrases(ctx context.Context, image providers.Image, caption string) (providers.Grounding, error) {
	text, err := s.provider.GenerateFromImage(ctx, providers.Config{
		Model:       s.model,
		Temperature: s.temperature,
		Prompt:      buildGroundingPrompt(caption),
		JSON:        true,
	}, image)
	if err != nil {
		return providers.Grounding{}, fmt.Errorf("failed to ground phrases: %w", err)
	}

	grounding := extractGroundingFromResponse(text)
	slog.Debug("Grounded phrases", "image", image.Name, "labels", len(grounding.Labels))
	return grounding, nil
}

func buildCaptionPrompt(mode providers.CaptionMode) (string, error) {
	var detail string
	switch mode {
	case providers.ModeCaption:
		detail = "Write one short sentence describing the image."
	case providers.ModeDetailedCaption:
		detail = "Write a few sentences describing the image, naming the main people, objects and text visible."
	case providers.ModeMoreDetailedCaption:
		detail = `Write a single thorough paragraph describing the image. Cover:
   - The kind of page (newspaper, magazine, advertisement, photograph, illustration, etc.)
   - People, objects, places and activities shown
   - Headlines or prominent printed text, transcribed where legible
   - Layout, colours and notable visual details`
	default:
		return "", fmt.Errorf("unsupported caption mode: %s", mode)
	}

	return fmt.Sprintf(`You are an archivist describing a scanned page from a digitized periodical collection.

INSTRUCTIONS:
1. %s
2. Describe only what is visible. Do not guess names or dates that are not printed on the page.

OUTPUT FORMAT:
Provide ONLY the description as plain text. Do not include phrases like "Here is the description:" or "The image shows:".`, detail), nil
}

func buildGroundingPrompt(caption string) string {
	return fmt.Sprintf(`You are grounding phrases from an image caption against the image itself.

CAPTION:
%s

INSTRUCTIONS:
1. Find every noun phrase in the caption that names something visible in the image.
2. Return each phrase exactly as written in the caption, in the order it appears.
3. Skip phrases that do not correspond to a visible region.

OUTPUT FORMAT:
Respond with ONLY a JSON object:

{
  "labels": ["...", "..."]
}`, caption)
}

func cleanCaption(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.Join(strings.Fields(text), " ")
}

// extractGroundingFromResponse parses the JSON labels response
// Falls back to a comma or line separated list if JSON parsing fails
func extractGroundingFromResponse(response string) providers.Grounding {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	response = strings.TrimSpace(response)

	var result providers.Grounding
	if err := json.Unmarshal([]byte(response), &result); err == nil {
		return providers.Grounding{Labels: compactLabels(result.Labels)}
	}

	if i := strings.Index(response, "{"); i >= 0 {
		if j := strings.LastIndex(response, "}"); j > i {
			if err := json.Unmarshal([]byte(response[i:j+1]), &result); err == nil {
				return providers.Grounding{Labels: compactLabels(result.Labels)}
			}
		}
	}

	slog.Warn("Failed to parse grounding JSON, using plain text labels")
	return providers.Grounding{Labels: extractLabelsFromPlainText(response)}
}

func extractLabelsFromPlainText(response string) []string {
	fields := strings.FieldsFunc(response, func(r rune) bool {
		return r == ',' || r == '\n'
	})

	labels := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimSpace(f)
		f = strings.TrimLeft(f, "-*•0123456789. ")
		f = strings.Trim(f, `"'[]`)
		labels = append(labels, f)
	}
	return compactLabels(labels)
}

func compactLabels(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l != "" {
			out = append(out, l)
		}
	}
	return out
}
