package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	sq "github.com/Masterminds/squirrel"

	"github.com/awp-finanznachrichten/archive-llm/internal/domain"
	"github.com/awp-finanznachrichten/archive-llm/internal/ports"
)

// DumpWriter appends literal INSERT statements to a SQL file instead of
// talking to a server. Records must be escaped by the record builder.
type DumpWriter struct {
	mu    sync.Mutex
	file  *os.File
	table string
}

var _ ports.ArticleRepository = (*DumpWriter)(nil)

// NewDumpWriter opens (or appends to) the dump file at path.
func NewDumpWriter(path, table string) (*DumpWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open dump file: %w", err)
	}
	return &DumpWriter{file: f, table: table}, nil
}

// Insert writes one statement and syncs it to disk.
func (w *DumpWriter) Insert(_ context.Context, record domain.Record) error {
	if !record.Escaped {
		return &domain.StoreError{Op: "dump", Err: errors.New("record is not escaped for literal SQL")}
	}

	stmt, err := literalInsert(w.table, record)
	if err != nil {
		return &domain.StoreError{Op: "dump", Err: err}
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return &domain.StoreError{Op: "dump", Err: os.ErrClosed}
	}
	if _, err := w.file.WriteString(stmt + ";\n"); err != nil {
		return &domain.StoreError{Op: "dump", Err: err}
	}
	if err := w.file.Sync(); err != nil {
		return &domain.StoreError{Op: "sync", Err: err}
	}
	return nil
}

// Close flushes and closes the dump file.
func (w *DumpWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// literalInsert renders the insert with its arguments inlined. String
// values are wrapped in single quotes as-is.
func literalInsert(table string, record domain.Record) (string, error) {
	query, args, err := sq.Insert(table).Columns(columns...).Values(values(record)...).ToSql()
	if err != nil {
		return "", fmt.Errorf("build insert: %w", err)
	}

	var sb strings.Builder
	for _, arg := range args {
		idx := strings.IndexByte(query, '?')
		if idx < 0 {
			return "", fmt.Errorf("fewer placeholders than arguments")
		}
		sb.WriteString(query[:idx])
		lit, err := literal(arg)
		if err != nil {
			return "", err
		}
		sb.WriteString(lit)
		query = query[idx+1:]
	}
	if strings.IndexByte(query, '?') >= 0 {
		return "", fmt.Errorf("more placeholders than arguments")
	}
	sb.WriteString(query)
	return sb.String(), nil
}

func literal(v interface{}) (string, error) {
	switch val := v.(type) {
	case string:
		return "'" + val + "'", nil
	case int:
		return strconv.Itoa(val), nil
	case bool:
		if val {
			return "1", nil
		}
		return "0", nil
	default:
		return "", fmt.Errorf("unsupported literal type %T", v)
	}
}
