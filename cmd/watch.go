package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/lehigh-university-libraries/pagetagger/internal/report"
	"github.com/lehigh-university-libraries/pagetagger/internal/watch"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var flags runFlags
	var quiet time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Start a run whenever new pages arrive in the input folder",
		Long: `Watches the input folder and starts a run once matching pages have
stopped arriving for the quiet period. Runs that fail are logged and
watching continues.`,
		Example: `  pagetagger watch --quiet 30s`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(&flags)
			if err != nil {
				return err
			}
			runner, err := buildRunner(cfg)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.Paths.InputDir, 0755); err != nil {
				return fmt.Errorf("failed to create input directory: %w", err)
			}

			w := watch.New(cfg.Paths.InputDir, cfg.Run.Extension, quiet, func(ctx context.Context) error {
				summary, err := runner.Run(ctx)
				if summary != nil {
					fmt.Fprint(os.Stdout, report.Summary(summary))
				}
				return err
			})
			return w.Run(cmd.Context())
		},
	}

	addRunFlags(cmd, &flags)
	cmd.Flags().DurationVar(&quiet, "quiet", watch.DefaultQuietPeriod, "Wait this long after the last new page before running")

	return cmd
}
