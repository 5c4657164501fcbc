package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lehigh-university-libraries/pagetagger/internal/providers"
)

// DefaultBaseURL is the public OpenAI API
const DefaultBaseURL = "https://api.openai.com/v1"

// OpenAI is a provider for OpenAI
type OpenAI struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// New returns a new OpenAI provider
func New(apiKey, baseURL string) *OpenAI {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &OpenAI{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 2 * time.Minute},
	}
}

// GenerateText generates text from the given prompt using OpenAI
func (o *OpenAI) GenerateText(ctx context.Context, config providers.Config) (string, error) {
	messages := []map[string]interface{}{
		{
			"role":    "user",
			"content": config.Prompt,
		},
	}
	return o.complete(ctx, config, messages)
}

// GenerateFromImage generates text from the given prompt and image
func (o *OpenAI) GenerateFromImage(ctx context.Context, config providers.Config, image providers.Image) (string, error) {
	mimeType := image.MIMEType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	messages := []map[string]interface{}{
		{
			"role": "user",
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": config.Prompt,
				},
				{
					"type": "image_url",
					"image_url": map[string]string{
						"url": "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(image.Data),
					},
				},
			},
		},
	}
	return o.complete(ctx, config, messages)
}

// Check verifies the API key is accepted
func (o *OpenAI) Check(ctx context.Context) error {
	if o.apiKey == "" {
		return fmt.Errorf("OPENAI_API_KEY not set")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/models", nil)
	if err != nil {
		return fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return fmt.Errorf("openAI unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("openAI health check returned status %d", resp.StatusCode)
	}
	return nil
}

func (o *OpenAI) complete(ctx context.Context, config providers.Config, messages []map[string]interface{}) (string, error) {
	if o.apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	body := map[string]interface{}{
		"model":       config.Model,
		"messages":    messages,
		"temperature": config.Temperature,
	}
	if config.JSON {
		body["response_format"] = map[string]string{"type": "json_object"}
	}

	requestBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}

	return response.Choices[0].Message.Content, nil
}
