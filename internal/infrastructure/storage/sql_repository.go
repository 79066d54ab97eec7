package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/awp-finanznachrichten/archive-llm/internal/domain"
	"github.com/awp-finanznachrichten/archive-llm/internal/ports"
)

// SQLRepository persists accepted articles through database/sql with bound
// parameters. It expects unescaped records.
type SQLRepository struct {
	db    *sql.DB
	table string
}

var (
	_ ports.ArticleRepository = (*SQLRepository)(nil)
	_ ports.StatsReader       = (*SQLRepository)(nil)
)

// NewSQLRepository wires a sql.DB implementation.
func NewSQLRepository(db *sql.DB, table string) *SQLRepository {
	return &SQLRepository{db: db, table: table}
}

// Insert writes one record inside its own transaction. A record whose
// checksum is already archived is not written again; Insert then returns
// domain.ErrAlreadyStored.
func (r *SQLRepository) Insert(ctx context.Context, record domain.Record) error {
	if r.db == nil {
		return &domain.StoreError{Op: "insert", Err: errors.New("database is not configured")}
	}
	if record.Escaped {
		return &domain.StoreError{Op: "insert", Err: errors.New("record carries literal escaping, parameterized insert expects raw values")}
	}

	query, args, err := sq.Insert(r.table).Columns(columns...).Values(values(record)...).ToSql()
	if err != nil {
		return &domain.StoreError{Op: "build insert", Err: err}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.StoreError{Op: "begin", Err: err}
	}

	if record.Checksum != "" {
		known, err := r.hasChecksum(ctx, tx, record.Checksum)
		if err != nil {
			_ = tx.Rollback()
			return &domain.StoreError{Op: "lookup checksum", Err: err}
		}
		if known {
			_ = tx.Rollback()
			return domain.ErrAlreadyStored
		}
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		_ = tx.Rollback()
		return &domain.StoreError{Op: "insert", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &domain.StoreError{Op: "commit", Err: err}
	}

	return nil
}

func (r *SQLRepository) hasChecksum(ctx context.Context, tx *sql.Tx, sum string) (bool, error) {
	query, args, err := sq.Select("COUNT(*)").From(r.table).Where(sq.Eq{"checksum": sum}).ToSql()
	if err != nil {
		return false, err
	}
	var n int
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Stats reproduces the archive report: article count, rounded average word
// count and token total over AWP-copyrighted articles.
func (r *SQLRepository) Stats(ctx context.Context) (domain.Stats, error) {
	if r.db == nil {
		return domain.Stats{}, errors.New("database is not configured")
	}

	query, args, err := sq.
		Select(
			"COUNT(*)",
			"COALESCE(ROUND(AVG(word_count), 0), 0)",
			"COALESCE(SUM(token_count_openai), 0)",
		).
		From(r.table).
		Where(sq.Eq{"copyright_awp": 1}).
		ToSql()
	if err != nil {
		return domain.Stats{}, fmt.Errorf("build stats query: %w", err)
	}

	var stats domain.Stats
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&stats.Articles, &stats.AvgWordCount, &stats.TotalTokens); err != nil {
		return domain.Stats{}, fmt.Errorf("query stats: %w", err)
	}

	return stats, nil
}

// Close releases the database handle.
func (r *SQLRepository) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}
