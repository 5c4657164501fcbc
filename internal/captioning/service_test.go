package captioning

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/lehigh-university-libraries/pagetagger/internal/providers"
)

type fakeVision struct {
	response string
	err      error
	configs  []providers.Config
}

func (f *fakeVision) GenerateFromImage(_ context.Context, config providers.Config, _ providers.Image) (string, error) {
	f.configs = append(f.configs, config)
	return f.response, f.err
}

func TestCaption(t *testing.T) {
	fake := &fakeVision{response: "  A page   showing\na market scene.  "}
	s := NewService(fake, "vision-model")

	caption, err := s.Caption(context.Background(), providers.Image{Name: "p.jpg"}, providers.ModeMoreDetailedCaption)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if caption != "A page showing a market scene." {
		t.Errorf("Unexpected caption %q", caption)
	}
	if fake.configs[0].Model != "vision-model" {
		t.Errorf("Expected configured model, got %q", fake.configs[0].Model)
	}
	if fake.configs[0].JSON {
		t.Error("Caption requests should not ask for JSON")
	}
}

func TestCaptionUnsupportedMode(t *testing.T) {
	s := NewService(&fakeVision{}, "m")
	if _, err := s.Caption(context.Background(), providers.Image{}, providers.CaptionMode("bogus")); err == nil {
		t.Fatal("Expected error for unsupported mode")
	}
}

func TestCaptionProviderError(t *testing.T) {
	s := NewService(&fakeVision{err: errors.New("boom")}, "m")
	if _, err := s.Caption(context.Background(), providers.Image{}, providers.ModeCaption); err == nil {
		t.Fatal("Expected provider error to propagate")
	}
}

func TestGroundPhrasesIncludesCaption(t *testing.T) {
	fake := &fakeVision{response: `{"labels": ["a man", "a bicycle"]}`}
	s := NewService(fake, "m")

	grounding, err := s.GroundPhrases(context.Background(), providers.Image{}, "a man riding a bicycle")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !reflect.DeepEqual(grounding.Labels, []string{"a man", "a bicycle"}) {
		t.Errorf("Unexpected labels %v", grounding.Labels)
	}
	if !strings.Contains(fake.configs[0].Prompt, "a man riding a bicycle") {
		t.Error("Expected grounding prompt to embed the caption")
	}
	if !fake.configs[0].JSON {
		t.Error("Grounding requests should ask for JSON")
	}
}

func TestExtractGroundingFromResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
		expected []string
	}{
		{
			name:     "plain json",
			response: `{"labels": ["cat", "hat"]}`,
			expected: []string{"cat", "hat"},
		},
		{
			name:     "fenced json",
			response: "```json\n{\"labels\": [\"cat\", \" \", \"hat\"]}\n```",
			expected: []string{"cat", "hat"},
		},
		{
			name:     "json inside prose",
			response: `Sure! {"labels": ["tree"]} Hope that helps.`,
			expected: []string{"tree"},
		},
		{
			name:     "comma list fallback",
			response: "cat, the hat, a red car",
			expected: []string{"cat", "the hat", "a red car"},
		},
		{
			name:     "bulleted fallback",
			response: "- cat\n- hat\n1. tree",
			expected: []string{"cat", "hat", "tree"},
		},
		{
			name:     "empty",
			response: "",
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractGroundingFromResponse(tt.response)
			if !reflect.DeepEqual(got.Labels, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got.Labels)
			}
		})
	}
}
