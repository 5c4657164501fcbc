// Package config loads pagetagger settings from an optional TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is read when present and no --config flag is given
const DefaultPath = "pagetagger.toml"

type Paths struct {
	InputDir  string `toml:"input_dir"`
	OutputDir string `toml:"output_dir"`
}

type Run struct {
	Extension string `toml:"extension"`
	Workers   int    `toml:"workers"`
}

type Captioning struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	// MaxEdge downscales larger pages before upload; 0 sends the original file.
	MaxEdge int `toml:"max_edge"`
}

type Keywords struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
}

// Translation selects the caption translator. Provider "google" uses Cloud
// Translation; any text provider name prompts that model instead.
type Translation struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	TargetLanguage string `toml:"target_language"`
}

type Export struct {
	Format string `toml:"format"`
}

type Ollama struct {
	URL string `toml:"url"`
}

type OpenAI struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

type Gemini struct {
	APIKey string `toml:"api_key"`
}

type Google struct {
	APIKey string `toml:"api_key"`
}

// Config holds every setting a run needs
type Config struct {
	Paths       Paths       `toml:"paths"`
	Run         Run         `toml:"run"`
	Captioning  Captioning  `toml:"captioning"`
	Keywords    Keywords    `toml:"keywords"`
	Translation Translation `toml:"translation"`
	Export      Export      `toml:"export"`
	Ollama      Ollama      `toml:"ollama"`
	OpenAI      OpenAI      `toml:"openai"`
	Gemini      Gemini      `toml:"gemini"`
	Google      Google      `toml:"google"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Paths: Paths{
			InputDir:  "input",
			OutputDir: "output",
		},
		Run: Run{
			Extension: ".jpg",
			Workers:   1,
		},
		Captioning: Captioning{
			Provider: ProviderOllama,
		},
		Keywords: Keywords{
			Provider: ProviderOllama,
		},
		Translation: Translation{
			Provider:       ProviderGoogle,
			TargetLanguage: "ar",
		},
		Export: Export{
			Format: "xlsx",
		},
		Ollama: Ollama{
			URL: "http://localhost:11434",
		},
		OpenAI: OpenAI{
			BaseURL: "https://api.openai.com/v1",
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path and the
// environment, in that order. An empty path reads DefaultPath if it exists.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnv()
	cfg.FillModels()

	return &cfg, nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.Ollama.URL, "OLLAMA_HOST")
	setFromEnv(&c.Ollama.URL, "OLLAMA_URL")
	setFromEnv(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	setFromEnv(&c.OpenAI.BaseURL, "OPENAI_BASE_URL")
	setFromEnv(&c.Gemini.APIKey, "GEMINI_API_KEY")
	setFromEnv(&c.Google.APIKey, "GOOGLE_TRANSLATE_API_KEY")
	setFromEnv(&c.Captioning.Provider, "CAPTION_PROVIDER")
	setFromEnv(&c.Captioning.Model, "CAPTION_MODEL")
	setFromEnv(&c.Keywords.Provider, "KEYWORD_PROVIDER")
	setFromEnv(&c.Keywords.Model, "KEYWORD_MODEL")
	setFromEnv(&c.Translation.Provider, "TRANSLATE_PROVIDER")
	setFromEnv(&c.Translation.Model, "TRANSLATE_MODEL")
	setFromEnv(&c.Translation.TargetLanguage, "TARGET_LANGUAGE")
	setFromEnv(&c.Paths.InputDir, "PAGETAGGER_INPUT_DIR")
	setFromEnv(&c.Paths.OutputDir, "PAGETAGGER_OUTPUT_DIR")
}

func setFromEnv(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// FillModels sets the default model for every provider without one
func (c *Config) FillModels() {
	if c.Captioning.Model == "" {
		c.Captioning.Model = DefaultModel(c.Captioning.Provider)
	}
	if c.Keywords.Model == "" {
		c.Keywords.Model = DefaultModel(c.Keywords.Provider)
	}
	if c.Translation.Model == "" && c.Translation.Provider != ProviderGoogle {
		c.Translation.Model = DefaultModel(c.Translation.Provider)
	}
}

// Marshal renders the configuration as TOML
func (c *Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}
