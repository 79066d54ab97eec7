package ports

import (
	"context"
	"time"

	"github.com/awp-finanznachrichten/archive-llm/internal/domain"
)

// Document is one discovered input file.
type Document struct {
	// Path is the absolute location on disk.
	Path string
	// Rel is the path relative to the input root, used as file identifier.
	Rel string
}

// DocumentSource lists the wire documents waiting to be imported.
type DocumentSource interface {
	Discover(ctx context.Context) ([]Document, error)
	Read(doc Document) ([]byte, error)
}

// FileMover routes processed files into their terminal bucket.
type FileMover interface {
	Move(doc Document, bucket domain.Bucket) error
	Prune() error
}

// ArticleRepository persists accepted records, one transaction per call.
type ArticleRepository interface {
	Insert(ctx context.Context, record domain.Record) error
	Close() error
}

// StatsReader reports aggregate figures over the archive.
type StatsReader interface {
	Stats(ctx context.Context) (domain.Stats, error)
}

// TokenCounter counts tokens under a fixed subword encoding.
type TokenCounter interface {
	CountTokens(text string) (int, error)
}

// Notifier alerts operators, e.g. about quarantined documents.
type Notifier interface {
	Alert(ctx context.Context, subject, body string) error
}

// RunRecorder collects per-run metrics.
type RunRecorder interface {
	RecordOutcome(outcome domain.Outcome, metrics domain.Metrics)
	RecordRun(summary domain.RunSummary)
	Flush() error
}

// Scheduler controls when pipelines execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
