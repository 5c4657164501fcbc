package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateProviders(); err != nil {
		return err
	}
	if err := c.validateCredentials(); err != nil {
		return err
	}
	switch c.Export.Format {
	case "xlsx", "parquet":
	default:
		return fmt.Errorf("export.format must be xlsx or parquet, got %q", c.Export.Format)
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.InputDir == "" {
		return errors.New("paths.input_dir must be set")
	}
	if c.Paths.OutputDir == "" {
		return errors.New("paths.output_dir must be set")
	}
	if !strings.HasPrefix(c.Run.Extension, ".") {
		return fmt.Errorf("run.extension must start with a dot, got %q", c.Run.Extension)
	}
	if c.Run.Workers < 1 {
		return errors.New("run.workers must be at least 1")
	}
	if c.Captioning.MaxEdge < 0 {
		return errors.New("captioning.max_edge must not be negative")
	}
	return nil
}

func (c *Config) validateProviders() error {
	if !isTextProvider(c.Captioning.Provider) {
		return fmt.Errorf("unsupported captioning provider: %s (supported: ollama, openai, gemini)", c.Captioning.Provider)
	}
	if !isTextProvider(c.Keywords.Provider) {
		return fmt.Errorf("unsupported keyword provider: %s (supported: ollama, openai, gemini)", c.Keywords.Provider)
	}
	if c.Translation.Provider != ProviderGoogle && !isTextProvider(c.Translation.Provider) {
		return fmt.Errorf("unsupported translation provider: %s (supported: google, ollama, openai, gemini)", c.Translation.Provider)
	}
	if c.Translation.TargetLanguage == "" {
		return errors.New("translation.target_language must be set")
	}
	return nil
}

func (c *Config) validateCredentials() error {
	used := map[string]bool{
		c.Captioning.Provider:  true,
		c.Keywords.Provider:    true,
		c.Translation.Provider: true,
	}
	if used[ProviderOpenAI] && c.OpenAI.APIKey == "" {
		return errors.New("openai.api_key is required. Set OPENAI_API_KEY env var")
	}
	if used[ProviderGemini] && c.Gemini.APIKey == "" {
		return errors.New("gemini.api_key is required. Set GEMINI_API_KEY env var")
	}
	if used[ProviderGoogle] && c.Google.APIKey == "" {
		return errors.New("google.api_key is required. Set GOOGLE_TRANSLATE_API_KEY env var")
	}
	if used[ProviderOllama] && c.Ollama.URL == "" {
		return errors.New("ollama.url must be set")
	}
	return nil
}
