package article

import (
	"strings"

	"github.com/awp-finanznachrichten/archive-llm/internal/domain"
)

const (
	listSeparator    = " "
	companySeparator = " | "
)

// Escape doubles single quotes, the SQL string-literal convention.
func Escape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// Unescape reverses Escape.
func Unescape(s string) string {
	return strings.ReplaceAll(s, "''", "'")
}

// Source identifies the document a record was built from.
type Source struct {
	Rel      string
	Checksum string
}

// RecordBuilder flattens accepted articles. EscapeQuotes is meant for sinks
// that render literal SQL and applies to every string field, metadata and
// source path included; parameterized stores take raw values.
type RecordBuilder struct {
	EscapeQuotes bool
}

// Build assembles the persistable record, or returns domain.ErrNotAccepted.
func (b RecordBuilder) Build(
	a domain.ExtractedArticle,
	text domain.AssembledText,
	m domain.Metrics,
	v domain.Verdict,
	src Source,
) (domain.Record, error) {
	if !v.Accept() {
		return domain.Record{}, domain.ErrNotAccepted
	}

	esc := func(s string) string { return s }
	if b.EscapeQuotes {
		esc = Escape
	}

	return domain.Record{
		Title:        esc(a.Title),
		Byline:       esc(a.Byline),
		Authors:      esc(text.Authors),
		Body:         esc(text.Body),
		Complete:     esc(text.Complete),
		PublishDate:  a.PublishDate(),
		PublishTime:  a.PublishTime(),
		Language:     esc(a.Language),
		Wires:        esc(strings.Join(a.Wires, listSeparator)),
		Subjects:     esc(strings.Join(a.Subjects, listSeparator)),
		Industries:   esc(strings.Join(a.Industries, listSeparator)),
		Countries:    esc(strings.Join(a.Countries, listSeparator)),
		CompanyIDs:   esc(strings.Join(a.CompanyIDs, listSeparator)),
		CompanyNames: esc(strings.Join(a.CompanyNames, companySeparator)),

		WordCount:      m.WordCount,
		TokenCount:     m.TokenCount,
		CopyrightAWP:   text.CopyrightAWP,
		TableContained: a.TableContained,
		ParagraphCount: a.ParagraphCount,

		SourceFile: esc(src.Rel),
		Checksum:   esc(src.Checksum),
		Escaped:    b.EscapeQuotes,
	}, nil
}
