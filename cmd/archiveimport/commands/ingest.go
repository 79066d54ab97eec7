package commands

import (
	"github.com/spf13/cobra"
)

var watch bool

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Import pending wire documents",
	Long: `Import every document below the input directory once, or repeatedly
with --watch. Per-document failures are quarantined in _erroneous and
never abort the run.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&watch, "watch", false, "re-run the import on the configured interval until interrupted")
}

func runIngest(cmd *cobra.Command, _ []string) error {
	application, logger, closer, err := loadApplication()
	if err != nil {
		logError("%v", err)
		return err
	}
	defer closer.Close()

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	if watch {
		if err := application.Watch(ctx); err != nil {
			logger.Error("watch stopped", "error", err)
			return err
		}
		return nil
	}

	summary, err := application.RunOnce(ctx)
	if err != nil {
		logger.Error("import failed", "run_id", summary.RunID, "error", err)
		return err
	}
	return nil
}
