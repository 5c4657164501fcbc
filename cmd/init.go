package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/lehigh-university-libraries/pagetagger/internal/config"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var writeConfig bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the input and output folders",
		Example: `  pagetagger init
  pagetagger init --write-config`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			for _, dir := range []string{cfg.Paths.InputDir, cfg.Paths.OutputDir} {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create %s: %w", dir, err)
				}
				slog.Info("Folder ready", "dir", dir)
			}

			if !writeConfig {
				return nil
			}

			path := configPath
			if path == "" {
				path = config.DefaultPath
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config %s already exists", path)
			} else if !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			// credentials stay in the environment
			cfg.OpenAI.APIKey = ""
			cfg.Gemini.APIKey = ""
			cfg.Google.APIKey = ""
			data, err := cfg.Marshal()
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			slog.Info("Config written", "path", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&writeConfig, "write-config", false, "Also write the effective settings to a TOML config file")

	return cmd
}
