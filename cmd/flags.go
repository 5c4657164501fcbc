package cmd

import (
	"github.com/lehigh-university-libraries/pagetagger/internal/config"
	"github.com/spf13/cobra"
)

var configPath string

// runFlags override config values for commands that start runs
type runFlags struct {
	input           string
	output          string
	workers         int
	format          string
	captionProvider string
	captionModel    string
	keywordProvider string
	keywordModel    string
	translator      string
	translateModel  string
	targetLanguage  string
}

func addRunFlags(cmd *cobra.Command, f *runFlags) {
	cmd.Flags().StringVarP(&f.input, "input", "i", "", "Folder containing page scans")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Folder that receives run folders")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "Pages processed concurrently")
	cmd.Flags().StringVar(&f.format, "format", "", "Metadata format: xlsx or parquet")
	cmd.Flags().StringVar(&f.captionProvider, "caption-provider", "", "Vision provider: ollama, openai or gemini")
	cmd.Flags().StringVar(&f.captionModel, "caption-model", "", "Captioning model")
	cmd.Flags().StringVar(&f.keywordProvider, "keyword-provider", "", "Keyword normalization provider: ollama, openai or gemini")
	cmd.Flags().StringVar(&f.keywordModel, "keyword-model", "", "Keyword normalization model")
	cmd.Flags().StringVar(&f.translator, "translator", "", "Translation provider: google, ollama, openai or gemini")
	cmd.Flags().StringVar(&f.translateModel, "translate-model", "", "Translation model for LLM translators")
	cmd.Flags().StringVar(&f.targetLanguage, "target-language", "", "Caption language code")
}

// loadConfig reads the config file and environment, then applies flags
func loadConfig(f *runFlags) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	override(&cfg.Paths.InputDir, f.input)
	override(&cfg.Paths.OutputDir, f.output)
	override(&cfg.Export.Format, f.format)
	override(&cfg.Captioning.Provider, f.captionProvider)
	override(&cfg.Captioning.Model, f.captionModel)
	override(&cfg.Keywords.Provider, f.keywordProvider)
	override(&cfg.Keywords.Model, f.keywordModel)
	override(&cfg.Translation.Provider, f.translator)
	override(&cfg.Translation.Model, f.translateModel)
	override(&cfg.Translation.TargetLanguage, f.targetLanguage)
	if f.workers > 0 {
		cfg.Run.Workers = f.workers
	}

	// a provider switched by flag without a model gets that provider's default
	if f.captionProvider != "" && f.captionModel == "" {
		cfg.Captioning.Model = ""
	}
	if f.keywordProvider != "" && f.keywordModel == "" {
		cfg.Keywords.Model = ""
	}
	if f.translator != "" && f.translateModel == "" {
		cfg.Translation.Model = ""
	}
	cfg.FillModels()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func override(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
