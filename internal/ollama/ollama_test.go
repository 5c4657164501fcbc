package ollama

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lehigh-university-libraries/pagetagger/internal/providers"
)

func TestGenerateFromImage(t *testing.T) {
	var got map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		_, _ = w.Write([]byte(`{"response":"a printed page"}`))
	}))
	defer server.Close()

	o := New(server.URL)
	text, err := o.GenerateFromImage(context.Background(), providers.Config{Model: "llava", Prompt: "describe", JSON: true}, providers.Image{Data: []byte("img")})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if text != "a printed page" {
		t.Errorf("Expected response text, got %q", text)
	}

	if got["model"] != "llava" || got["prompt"] != "describe" || got["format"] != "json" {
		t.Errorf("Unexpected request body: %v", got)
	}
	images, ok := got["images"].([]interface{})
	if !ok || len(images) != 1 || images[0] != base64.StdEncoding.EncodeToString([]byte("img")) {
		t.Errorf("Expected one base64 image, got %v", got["images"])
	}
}

func TestGenerateTextNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	o := New(server.URL)
	if _, err := o.GenerateText(context.Background(), providers.Config{Model: "missing"}); err == nil {
		t.Fatal("Expected error for non-200 response")
	}
}

func TestCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	if err := New(server.URL).Check(context.Background()); err != nil {
		t.Errorf("Expected healthy server, got %v", err)
	}
}
