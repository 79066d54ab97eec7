// Package commands implements the CLI commands for archiveimport.
package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/awp-finanznachrichten/archive-llm/internal/app"
	"github.com/awp-finanznachrichten/archive-llm/internal/config"
	"github.com/awp-finanznachrichten/archive-llm/internal/logging"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "archiveimport",
	Short: "Import NewsML wire archives into the article store",
	Long: `archiveimport reads NewsML wire documents from the input directory,
filters them against the editorial rules, measures words and tokens and
stores accepted articles. Every input file ends up in _processed,
_ignored or _erroneous.

Examples:
  # Import once
  archiveimport ingest --config archive.yaml

  # Keep importing on the configured interval
  archiveimport ingest --watch

  # Print archive statistics
  archiveimport stats`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $ARCHIVE_IMPORT_CONFIG)")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(statsCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadApplication reads .env and the config file and builds the application
// with its logger. The returned closer flushes the log file.
func loadApplication() (*app.Application, *slog.Logger, io.Closer, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger, closer := logging.New(cfg.Logging)
	return app.New(cfg, logger), logger, closer, nil
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
