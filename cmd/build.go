package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/lehigh-university-libraries/pagetagger/internal/batch"
	"github.com/lehigh-university-libraries/pagetagger/internal/captioning"
	"github.com/lehigh-university-libraries/pagetagger/internal/config"
	"github.com/lehigh-university-libraries/pagetagger/internal/export"
	"github.com/lehigh-university-libraries/pagetagger/internal/gemini"
	"github.com/lehigh-university-libraries/pagetagger/internal/keywords"
	"github.com/lehigh-university-libraries/pagetagger/internal/ollama"
	"github.com/lehigh-university-libraries/pagetagger/internal/openai"
	"github.com/lehigh-university-libraries/pagetagger/internal/pipeline"
	"github.com/lehigh-university-libraries/pagetagger/internal/providers"
	"github.com/lehigh-university-libraries/pagetagger/internal/translation"
)

// backend is what every LLM client in this module implements
type backend interface {
	providers.Provider
	providers.VisionProvider
	providers.Checker
}

func newBackend(cfg *config.Config, name string) (backend, error) {
	switch name {
	case config.ProviderOllama:
		return ollama.New(cfg.Ollama.URL), nil
	case config.ProviderOpenAI:
		return openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL), nil
	case config.ProviderGemini:
		return gemini.New(cfg.Gemini.APIKey), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}

// buildRunner wires the configured services into a batch runner
func buildRunner(cfg *config.Config) (*batch.Runner, error) {
	backends := map[string]backend{}
	get := func(name string) (backend, error) {
		if b, ok := backends[name]; ok {
			return b, nil
		}
		b, err := newBackend(cfg, name)
		if err != nil {
			return nil, err
		}
		backends[name] = b
		return b, nil
	}

	captionBackend, err := get(cfg.Captioning.Provider)
	if err != nil {
		return nil, err
	}
	keywordBackend, err := get(cfg.Keywords.Provider)
	if err != nil {
		return nil, err
	}

	var translator pipeline.Translator
	var checkers []providers.Checker
	if cfg.Translation.Provider == config.ProviderGoogle {
		g := translation.NewGoogle(cfg.Google.APIKey)
		translator = g
		checkers = append(checkers, g)
	} else {
		b, err := get(cfg.Translation.Provider)
		if err != nil {
			return nil, err
		}
		translator = translation.NewLLM(b, cfg.Translation.Model)
	}
	for _, b := range backends {
		checkers = append(checkers, b)
	}

	format, err := export.ParseFormat(cfg.Export.Format)
	if err != nil {
		return nil, err
	}

	p := pipeline.New(
		captioning.NewService(captionBackend, cfg.Captioning.Model),
		keywords.NewNormalizer(keywordBackend, cfg.Keywords.Model),
		translator,
		pipeline.WithTargetLanguage(cfg.Translation.TargetLanguage),
		pipeline.WithMaxEdge(cfg.Captioning.MaxEdge),
	)

	return batch.NewRunner(p, batch.Options{
		InputDir:  cfg.Paths.InputDir,
		OutputDir: cfg.Paths.OutputDir,
		Extension: cfg.Run.Extension,
		Workers:   cfg.Run.Workers,
		Format:    format,
		Preflight: preflight(checkers),
	}), nil
}

func preflight(checkers []providers.Checker) func(context.Context) error {
	return func(ctx context.Context) error {
		var errs []error
		for _, c := range checkers {
			if err := c.Check(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}
