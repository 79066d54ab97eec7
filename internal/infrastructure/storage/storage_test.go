package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/awp-finanznachrichten/archive-llm/internal/config"
	"github.com/awp-finanznachrichten/archive-llm/internal/domain"
)

const testTable = "archive_llm"

func openTestRepo(t *testing.T) (*SQLRepository, context.Context) {
	t.Helper()
	ctx := context.Background()

	db, dialect, err := OpenDB(ctx, config.DatabaseConfig{Driver: config.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	require.Equal(t, DialectSQLite, dialect)
	require.NoError(t, EnsureTable(ctx, db, dialect, testTable))

	repo := NewSQLRepository(db, testTable)
	t.Cleanup(func() { _ = repo.Close() })
	return repo, ctx
}

func sampleRecord() domain.Record {
	return domain.Record{
		Title:          "O'Brien's Bank steigt",
		Authors:        "hm/ra",
		Body:           "Zürich (awp) - Text",
		Complete:       "O'Brien's Bank steigt\n\nZürich (awp) - Text",
		PublishDate:    "2024-03-01",
		PublishTime:    "08:30:00",
		Language:       "de",
		Wires:          "P K",
		Subjects:       "ECO",
		CompanyIDs:     "1 2",
		CompanyNames:   "O'Brien's Bank plc | UBS Group AG",
		WordCount:      50,
		TokenCount:     70,
		CopyrightAWP:   true,
		ParagraphCount: 2,
		SourceFile:     "2024/a.xml",
		Checksum:       "0123456789abcdef",
	}
}

func TestSQLRepositoryInsert(t *testing.T) {
	repo, ctx := openTestRepo(t)

	require.NoError(t, repo.Insert(ctx, sampleRecord()))

	var (
		title, names, wires string
		words, tokens       int
		awp                 bool
	)
	row := repo.db.QueryRowContext(ctx,
		"SELECT title, companies_name, wires, word_count, token_count_openai, copyright_awp FROM archive_llm")
	require.NoError(t, row.Scan(&title, &names, &wires, &words, &tokens, &awp))

	assert.Equal(t, "O'Brien's Bank steigt", title)
	assert.Equal(t, "O'Brien's Bank plc | UBS Group AG", names)
	assert.Equal(t, "P K", wires)
	assert.Equal(t, 50, words)
	assert.Equal(t, 70, tokens)
	assert.True(t, awp)
}

func TestSQLRepositorySkipsKnownChecksum(t *testing.T) {
	repo, ctx := openTestRepo(t)

	require.NoError(t, repo.Insert(ctx, sampleRecord()))

	again := sampleRecord()
	again.SourceFile = "2024/a-retry.xml"
	require.ErrorIs(t, repo.Insert(ctx, again), domain.ErrAlreadyStored)

	var count int
	require.NoError(t, repo.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM archive_llm").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSchemaRejectsDuplicateChecksum(t *testing.T) {
	repo, ctx := openTestRepo(t)

	require.NoError(t, repo.Insert(ctx, sampleRecord()))
	_, err := repo.db.ExecContext(ctx, "INSERT INTO archive_llm (title, checksum) VALUES ('copy', '0123456789abcdef')")
	require.Error(t, err)
}

func TestSQLRepositoryRejectsEscapedRecord(t *testing.T) {
	repo, ctx := openTestRepo(t)

	rec := sampleRecord()
	rec.Escaped = true
	err := repo.Insert(ctx, rec)

	var storeErr *domain.StoreError
	require.True(t, errors.As(err, &storeErr))
}

func TestSQLRepositoryWrapsFailures(t *testing.T) {
	repo, ctx := openTestRepo(t)
	repo.table = "missing_table"

	err := repo.Insert(ctx, sampleRecord())
	var storeErr *domain.StoreError
	require.True(t, errors.As(err, &storeErr), "got %v", err)
	assert.Equal(t, "lookup checksum", storeErr.Op)

	rec := sampleRecord()
	rec.Checksum = ""
	err = repo.Insert(ctx, rec)
	require.True(t, errors.As(err, &storeErr), "got %v", err)
	assert.Equal(t, "insert", storeErr.Op)
}

func TestSQLRepositoryStats(t *testing.T) {
	repo, ctx := openTestRepo(t)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.Stats{}, stats)

	for i, words := range []int{40, 61} {
		rec := sampleRecord()
		rec.WordCount = words
		rec.Checksum = fmt.Sprintf("%016x", i+1)
		require.NoError(t, repo.Insert(ctx, rec))
	}
	foreign := sampleRecord()
	foreign.CopyrightAWP = false
	foreign.WordCount = 1000
	foreign.TokenCount = 5000
	foreign.Checksum = "00000000000000ff"
	require.NoError(t, repo.Insert(ctx, foreign))

	stats, err = repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Articles)
	assert.InDelta(t, 51.0, stats.AvgWordCount, 0.001)
	assert.Equal(t, int64(140), stats.TotalTokens)
}

func TestOpenDBRejectsDumpDriver(t *testing.T) {
	_, _, err := OpenDB(context.Background(), config.DatabaseConfig{Driver: config.DriverSQLDump, DSN: "x.sql"})
	require.Error(t, err)
}

func TestDumpWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.sql")
	w, err := NewDumpWriter(path, testTable)
	require.NoError(t, err)

	rec := sampleRecord()
	rec.Title = "O''Brien''s Bank steigt"
	rec.Escaped = true
	require.NoError(t, w.Insert(context.Background(), rec))
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	dump := string(raw)

	assert.True(t, strings.HasPrefix(dump, "INSERT INTO archive_llm (title,byline,"), dump)
	assert.Contains(t, dump, "VALUES ('O''Brien''s Bank steigt',")
	assert.Contains(t, dump, ",50,70,1,0,2,'2024/a.xml','0123456789abcdef');\n")
	assert.NotContains(t, dump, "?")
}

func TestDumpWriterRequiresEscaping(t *testing.T) {
	w, err := NewDumpWriter(filepath.Join(t.TempDir(), "archive.sql"), testTable)
	require.NoError(t, err)
	defer w.Close()

	err = w.Insert(context.Background(), sampleRecord())
	var storeErr *domain.StoreError
	require.True(t, errors.As(err, &storeErr))
}

func TestDumpWriterLoadsIntoSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.sql")
	w, err := NewDumpWriter(path, testTable)
	require.NoError(t, err)

	rec := sampleRecord()
	rec.Title = "O''Brien''s Bank steigt"
	rec.CompanyNames = "O''Brien''s Bank plc | UBS Group AG"
	rec.Complete = "O''Brien''s Bank steigt\n\nZürich (awp) - Text"
	rec.Escaped = true
	require.NoError(t, w.Insert(context.Background(), rec))
	require.NoError(t, w.Close())

	repo, ctx := openTestRepo(t)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	_, err = repo.db.ExecContext(ctx, string(raw))
	require.NoError(t, err)

	var title string
	require.NoError(t, repo.db.QueryRowContext(ctx, "SELECT title FROM archive_llm").Scan(&title))
	assert.Equal(t, "O'Brien's Bank steigt", title)
}

func TestDumpWithQuotedSourceFileReplays(t *testing.T) {
	path := filepath.Join(t.TempDir(), "archive.sql")
	w, err := NewDumpWriter(path, testTable)
	require.NoError(t, err)

	first := sampleRecord()
	first.Title = "O''Brien''s Bank steigt"
	first.CompanyNames = "O''Brien''s Bank plc | UBS Group AG"
	first.Complete = "O''Brien''s Bank steigt\n\nZürich (awp) - Text"
	first.SourceFile = "2024/l''oreal.xml"
	first.Escaped = true

	second := sampleRecord()
	second.Title = "Zweite Meldung"
	second.Complete = "Zweite Meldung\n\nZürich (awp) - Text"
	second.CompanyNames = "UBS Group AG"
	second.Checksum = "fedcba9876543210"
	second.Escaped = true

	ctx := context.Background()
	require.NoError(t, w.Insert(ctx, first))
	require.NoError(t, w.Insert(ctx, second))
	require.NoError(t, w.Close())

	repo, ctx := openTestRepo(t)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	_, err = repo.db.ExecContext(ctx, string(raw))
	require.NoError(t, err)

	var (
		count  int
		source string
	)
	require.NoError(t, repo.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM archive_llm").Scan(&count))
	assert.Equal(t, 2, count)
	require.NoError(t, repo.db.QueryRowContext(ctx, "SELECT source_file FROM archive_llm ORDER BY id LIMIT 1").Scan(&source))
	assert.Equal(t, "2024/l'oreal.xml", source)
}
