package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awp-finanznachrichten/archive-llm/internal/config"
	"github.com/awp-finanznachrichten/archive-llm/internal/domain"
	"github.com/awp-finanznachrichten/archive-llm/internal/infrastructure/storage"
)

func TestFormatStats(t *testing.T) {
	out := formatStats(domain.Stats{Articles: 1234567, AvgWordCount: 412, TotalTokens: 98765432})
	assert.Equal(t, "Number of articles: 1,234,567\nAverage word count: 412\nTotal tokens: 98,765,432\n", out)
}

func TestStatsCommandOnEmptyArchive(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ARCHIVE_IMPORT_CONFIG", "")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", filepath.Join(dir, "archive.db"))
	t.Setenv("ARCHIVE_INPUT_DIR", dir)
	t.Setenv("LOG_LEVEL", "error")

	require.NoError(t, createEmptyArchive(filepath.Join(dir, "archive.db")))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"stats"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "Number of articles: 0\nAverage word count: 0\nTotal tokens: 0\n", out.String())
}

func createEmptyArchive(path string) error {
	ctx := context.Background()
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, DSN: path, Table: "archive_llm"}

	db, dialect, err := storage.OpenDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	return storage.EnsureTable(ctx, db, dialect, cfg.Table)
}
