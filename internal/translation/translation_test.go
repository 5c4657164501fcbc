package translation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/pagetagger/internal/providers"
	"google.golang.org/api/option"
)

type fakeProvider struct {
	response string
	err      error
	config   providers.Config
}

func (f *fakeProvider) GenerateText(_ context.Context, config providers.Config) (string, error) {
	f.config = config
	return f.response, f.err
}

func TestExtractTranslation(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
		wantErr  bool
	}{
		{name: "json", content: `{"translation":"قطة، قبعة"}`, expected: "قطة، قبعة"},
		{name: "fenced json", content: "```json\n{\"translation\":\"chat\"}\n```", expected: "chat"},
		{name: "json in prose", content: `Here you go: {"translation":"chat"} done`, expected: "chat"},
		{name: "labelled plain text", content: "Translation: chat, chapeau", expected: "chat, chapeau"},
		{name: "bare plain text", content: "chat, chapeau", expected: "chat, chapeau"},
		{name: "broken json", content: `{"translated": 5}`, wantErr: true},
		{name: "empty", content: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractTranslation(tt.content)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestLLMTranslate(t *testing.T) {
	fake := &fakeProvider{response: `{"translation":"قطة"}`}
	l := NewLLM(fake, "gpt-4o")

	got, err := l.Translate(context.Background(), "cat", "ar")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != "قطة" {
		t.Errorf("Unexpected translation %q", got)
	}
	if !strings.Contains(fake.config.Prompt, `"ar"`) || !strings.Contains(fake.config.Prompt, "cat") {
		t.Errorf("Prompt should carry target language and text: %q", fake.config.Prompt)
	}
	if !fake.config.JSON {
		t.Error("Expected JSON mode")
	}
}

func TestLLMTranslateError(t *testing.T) {
	l := NewLLM(&fakeProvider{err: errors.New("down")}, "m")
	if _, err := l.Translate(context.Background(), "cat", "ar"); err == nil {
		t.Fatal("Expected provider error")
	}
}

func TestGoogleTranslate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("target"); got != "ar" {
			t.Errorf("Expected target=ar, got %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "cat, hat" {
			t.Errorf("Expected q to carry the text, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"translations": []map[string]string{{"translatedText": "قطة، &quot;قبعة&quot;"}},
			},
		})
	}))
	defer server.Close()

	g := NewGoogle("key", option.WithEndpoint(server.URL+"/"), option.WithHTTPClient(server.Client()))
	got, err := g.Translate(context.Background(), "cat, hat", "ar")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if got != `قطة، "قبعة"` {
		t.Errorf("Unexpected translation %q", got)
	}
}

func TestGoogleMissingKey(t *testing.T) {
	g := NewGoogle("")
	if _, err := g.Translate(context.Background(), "cat", "ar"); err == nil {
		t.Fatal("Expected error without API key")
	}
	if err := g.Check(context.Background()); err == nil {
		t.Fatal("Expected check to fail without API key")
	}
}
