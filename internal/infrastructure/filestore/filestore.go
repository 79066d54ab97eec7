package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/awp-finanznachrichten/archive-llm/internal/domain"
	"github.com/awp-finanznachrichten/archive-llm/internal/ports"
)

// Store discovers input documents and moves them into bucket directories
// named _processed, _ignored and _erroneous below the project directory.
type Store struct {
	inputDir   string
	projectDir string
	extension  string
	logger     *slog.Logger
}

var (
	_ ports.DocumentSource = (*Store)(nil)
	_ ports.FileMover      = (*Store)(nil)
)

// New wires the input root and the project directory holding the buckets.
func New(inputDir, projectDir, extension string, log *slog.Logger) *Store {
	return &Store{
		inputDir:   filepath.Clean(inputDir),
		projectDir: filepath.Clean(projectDir),
		extension:  strings.ToLower(extension),
		logger:     log,
	}
}

// BucketDir returns the directory a bucket maps to.
func (s *Store) BucketDir(bucket domain.Bucket) string {
	return filepath.Join(s.projectDir, "_"+string(bucket))
}

// Discover walks the input root recursively in lexical order.
func (s *Store) Discover(ctx context.Context) ([]ports.Document, error) {
	var docs []ports.Document

	err := filepath.WalkDir(s.inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || strings.ToLower(filepath.Ext(path)) != s.extension {
			return nil
		}

		rel, err := filepath.Rel(s.inputDir, path)
		if err != nil {
			return fmt.Errorf("relative path of %s: %w", path, err)
		}
		docs = append(docs, ports.Document{Path: path, Rel: filepath.ToSlash(rel)})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.inputDir, err)
	}

	s.debug("discovered documents", "dir", s.inputDir, "count", len(docs))
	return docs, nil
}

// Read loads the raw document bytes.
func (s *Store) Read(doc ports.Document) ([]byte, error) {
	raw, err := os.ReadFile(doc.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", doc.Rel, err)
	}
	return raw, nil
}

// Move relocates doc into bucket, keeping its path below the input root.
// A source that is already gone is not an error.
func (s *Store) Move(doc ports.Document, bucket domain.Bucket) error {
	dest := filepath.Join(s.BucketDir(bucket), filepath.FromSlash(doc.Rel))

	if _, err := os.Stat(doc.Path); errors.Is(err, fs.ErrNotExist) {
		s.debug("source already moved", "file", doc.Rel, "bucket", bucket)
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create bucket dir for %s: %w", doc.Rel, err)
	}

	if err := os.Rename(doc.Path, dest); err != nil {
		return fmt.Errorf("move %s to %s: %w", doc.Rel, bucket, err)
	}

	s.debug("moved document", "file", doc.Rel, "bucket", bucket)
	return nil
}

// Prune removes empty directories below the input root, keeping the root.
func (s *Store) Prune() error {
	var dirs []string
	err := filepath.WalkDir(s.inputDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() && path != s.inputDir {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", s.inputDir, err)
	}

	// Deepest first so parents empty out before they are checked.
	for i := len(dirs) - 1; i >= 0; i-- {
		entries, err := os.ReadDir(dirs[i])
		if err != nil {
			return fmt.Errorf("read %s: %w", dirs[i], err)
		}
		if len(entries) > 0 {
			continue
		}
		if err := os.Remove(dirs[i]); err != nil {
			return fmt.Errorf("remove %s: %w", dirs[i], err)
		}
		s.debug("pruned empty directory", "dir", dirs[i])
	}
	return nil
}

func (s *Store) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
