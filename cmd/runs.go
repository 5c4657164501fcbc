package cmd

import (
	"fmt"

	"github.com/lehigh-university-libraries/pagetagger/internal/config"
	"github.com/lehigh-university-libraries/pagetagger/internal/report"
	"github.com/lehigh-university-libraries/pagetagger/internal/storage"
	"github.com/spf13/cobra"
)

func newRunsCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List finished runs in the output folder",
		Example: `  pagetagger runs
  pagetagger runs --output /scans/out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			override(&cfg.Paths.OutputDir, output)

			store, err := storage.Load(cfg.Paths.OutputDir)
			if err != nil {
				return err
			}

			list := store.List()
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs found in", cfg.Paths.OutputDir)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.Runs(list))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Folder that receives run folders")

	return cmd
}
