package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/awp-finanznachrichten/archive-llm/internal/domain"
)

// columns lists the archive table columns in insert order.
var columns = []string{
	"title",
	"byline",
	"authors",
	"body",
	"complete_text",
	"publish_date",
	"publish_time",
	"language",
	"wires",
	"subjects",
	"industries",
	"countries",
	"companies_id",
	"companies_name",
	"word_count",
	"token_count_openai",
	"copyright_awp",
	"table_contained",
	"paragraph_count",
	"source_file",
	"checksum",
}

func values(r domain.Record) []interface{} {
	return []interface{}{
		r.Title,
		r.Byline,
		r.Authors,
		r.Body,
		r.Complete,
		r.PublishDate,
		r.PublishTime,
		r.Language,
		r.Wires,
		r.Subjects,
		r.Industries,
		r.Countries,
		r.CompanyIDs,
		r.CompanyNames,
		r.WordCount,
		r.TokenCount,
		r.CopyrightAWP,
		r.TableContained,
		r.ParagraphCount,
		r.SourceFile,
		r.Checksum,
	}
}

const mysqlSchema = `
CREATE TABLE IF NOT EXISTS %s (
	id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	title TEXT NOT NULL,
	byline TEXT,
	authors VARCHAR(64),
	body MEDIUMTEXT,
	complete_text MEDIUMTEXT,
	publish_date DATE,
	publish_time TIME,
	language VARCHAR(8),
	wires VARCHAR(255),
	subjects TEXT,
	industries TEXT,
	countries TEXT,
	companies_id TEXT,
	companies_name TEXT,
	word_count INT,
	token_count_openai INT,
	copyright_awp TINYINT(1) NOT NULL DEFAULT 0,
	table_contained TINYINT(1) NOT NULL DEFAULT 0,
	paragraph_count INT,
	source_file VARCHAR(1024),
	checksum CHAR(16) UNIQUE,
	imported_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
) DEFAULT CHARSET=utf8mb4`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS %s (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	byline TEXT,
	authors TEXT,
	body TEXT,
	complete_text TEXT,
	publish_date TEXT,
	publish_time TEXT,
	language TEXT,
	wires TEXT,
	subjects TEXT,
	industries TEXT,
	countries TEXT,
	companies_id TEXT,
	companies_name TEXT,
	word_count INTEGER,
	token_count_openai INTEGER,
	copyright_awp INTEGER NOT NULL DEFAULT 0,
	table_contained INTEGER NOT NULL DEFAULT 0,
	paragraph_count INTEGER,
	source_file TEXT,
	checksum TEXT UNIQUE,
	imported_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// EnsureTable creates the archive table when it does not exist yet.
// The table name is validated by the config layer.
func EnsureTable(ctx context.Context, db *sql.DB, dialect Dialect, table string) error {
	ddl := mysqlSchema
	if dialect == DialectSQLite {
		ddl = sqliteSchema
	}
	if _, err := db.ExecContext(ctx, fmt.Sprintf(ddl, table)); err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}
	return nil
}
