// Package translation translates captions into the collection's target language.
package translation

import (
	"context"
	"fmt"
	"html"

	"google.golang.org/api/option"
	translate "google.golang.org/api/translate/v2"
)

// Google translates text with the Cloud Translation v2 API
type Google struct {
	apiKey string
	opts   []option.ClientOption
}

// NewGoogle returns a translator authenticated with apiKey. Extra client
// options are appended, which lets tests point the client at a local endpoint.
func NewGoogle(apiKey string, opts ...option.ClientOption) *Google {
	return &Google{apiKey: apiKey, opts: opts}
}

// Translate translates text into targetLanguage (an ISO 639-1 code)
func (g *Google) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("GOOGLE_TRANSLATE_API_KEY not set")
	}

	opts := append([]option.ClientOption{option.WithAPIKey(g.apiKey)}, g.opts...)
	svc, err := translate.NewService(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("failed to create translate client: %w", err)
	}

	resp, err := svc.Translations.List([]string{text}, targetLanguage).Format("text").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to translate text: %w", err)
	}
	if len(resp.Translations) == 0 {
		return "", fmt.Errorf("no translations returned")
	}

	return html.UnescapeString(resp.Translations[0].TranslatedText), nil
}

// Check verifies an API key is configured
func (g *Google) Check(_ context.Context) error {
	if g.apiKey == "" {
		return fmt.Errorf("GOOGLE_TRANSLATE_API_KEY not set")
	}
	return nil
}
