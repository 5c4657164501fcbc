package cmd

import (
	"fmt"
	"os"

	"github.com/lehigh-university-libraries/pagetagger/internal/report"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var flags runFlags
	var strict bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Annotate every page in the input folder",
		Long: `Runs one batch over the input folder.

Pages whose filename matches <title>_<year>_iss<n>_Page<n>.jpg are captioned,
tagged and translated, then moved into a new "Run <N> - <timestamp>" folder
under the output folder together with the metadata spreadsheet. Pages that
fail stay in the input folder and are listed in the summary.`,
		Example: `  # Run with the defaults from pagetagger.toml / .env
  pagetagger run

  # Caption with OpenAI, translate to French, four pages at a time
  pagetagger run --caption-provider openai --target-language fr --workers 4

  # Exit non-zero if any page failed
  pagetagger run --strict`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(&flags)
			if err != nil {
				return err
			}

			runner, err := buildRunner(cfg)
			if err != nil {
				return err
			}

			summary, err := runner.Run(cmd.Context())
			if summary != nil {
				fmt.Fprint(os.Stdout, report.Summary(summary))
			}
			if err != nil {
				return err
			}

			if strict && summary.Failed() {
				return fmt.Errorf("%d page(s) failed", len(summary.Failures))
			}
			return nil
		},
	}

	addRunFlags(cmd, &flags)
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when any page fails")

	return cmd
}
