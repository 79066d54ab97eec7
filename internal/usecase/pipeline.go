package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/awp-finanznachrichten/archive-llm/internal/article"
	"github.com/awp-finanznachrichten/archive-llm/internal/domain"
	"github.com/awp-finanznachrichten/archive-llm/internal/logging"
	"github.com/awp-finanznachrichten/archive-llm/internal/newsml"
	"github.com/awp-finanznachrichten/archive-llm/internal/ports"
)

const alertSubject = "Archive import: document quarantined"

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source     ports.DocumentSource
	Mover      ports.FileMover
	Repository ports.ArticleRepository
	Tokens     ports.TokenCounter
	Classifier *article.Classifier
	Builder    article.RecordBuilder
	Notifier   ports.Notifier
	Recorder   ports.RunRecorder
	Logger     *slog.Logger
}

// Pipeline implements the archive import workflow.
type Pipeline struct {
	source     ports.DocumentSource
	mover      ports.FileMover
	repository ports.ArticleRepository
	measurer   *article.Measurer
	classifier *article.Classifier
	builder    article.RecordBuilder
	notifier   ports.Notifier
	recorder   ports.RunRecorder
	log        *slog.Logger
	now        func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	classifier := deps.Classifier
	if classifier == nil {
		classifier = article.NewClassifier(article.DefaultPermittedWires)
	}
	log := deps.Logger
	if log == nil {
		log = logging.Discard()
	}

	return &Pipeline{
		source:     deps.Source,
		mover:      deps.Mover,
		repository: deps.Repository,
		measurer:   article.NewMeasurer(deps.Tokens),
		classifier: classifier,
		builder:    deps.Builder,
		notifier:   deps.Notifier,
		recorder:   deps.Recorder,
		log:        log,
		now:        time.Now,
	}
}

// Run imports every discovered document once. Per-document failures are
// quarantined; only a failed discovery or a cancelled context is returned.
func (p *Pipeline) Run(ctx context.Context) (domain.RunSummary, error) {
	summary := domain.RunSummary{RunID: uuid.NewString(), Started: p.now()}
	log := p.log.With("run_id", summary.RunID)

	if p.source == nil {
		return summary, errors.New("document source is not configured")
	}

	docs, err := p.source.Discover(ctx)
	if err != nil {
		return summary, fmt.Errorf("discover documents: %w", err)
	}
	log.Info("run started", "documents", len(docs))

	var runErr error
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			log.Warn("run interrupted", "remaining", len(docs)-summary.Total, "error", err)
			runErr = err
			break
		}

		outcome, metrics := p.process(ctx, doc)
		summary.Add(outcome)
		p.report(ctx, log, doc, outcome, metrics)
		p.finalize(log, doc, outcome)
	}

	if p.mover != nil {
		if err := p.mover.Prune(); err != nil {
			log.Warn("prune input tree failed", "error", err)
		}
	}

	summary.Duration = p.now().Sub(summary.Started)
	log.Info("run finished",
		"total", summary.Total,
		"accepted", summary.Accepted,
		"rejected", summary.Rejected,
		"failed", summary.Failed,
		"status", summary.Status(),
		"duration", summary.Duration,
	)

	if p.recorder != nil {
		p.recorder.RecordRun(summary)
		if err := p.recorder.Flush(); err != nil {
			log.Warn("flush run metrics failed", "error", err)
		}
	}

	return summary, runErr
}

// ProcessDocument drives one document through parsing, extraction,
// assembly, measurement, classification and persistence. It never panics
// and never touches the file itself.
func (p *Pipeline) ProcessDocument(ctx context.Context, doc ports.Document) domain.Outcome {
	outcome, _ := p.process(ctx, doc)
	return outcome
}

func (p *Pipeline) process(ctx context.Context, doc ports.Document) (outcome domain.Outcome, metrics domain.Metrics) {
	stage := domain.StageParsing
	defer func() {
		if r := recover(); r != nil {
			outcome = failed(stage, fmt.Errorf("panic: %v", r))
		}
	}()

	if p.source == nil {
		return failed(stage, errors.New("document source is not configured")), metrics
	}
	raw, err := p.source.Read(doc)
	if err != nil {
		return failed(stage, err), metrics
	}
	parsed, err := newsml.ParseBytes(raw)
	if err != nil {
		return failed(stage, err), metrics
	}

	stage = domain.StageExtracting
	extracted, err := newsml.Extract(parsed)
	if err != nil {
		return failed(stage, err), metrics
	}

	stage = domain.StageAssembling
	text := article.Assemble(extracted)

	stage = domain.StageMeasuring
	metrics, err = p.measurer.Measure(text.Complete)
	if err != nil {
		return failed(stage, err), metrics
	}

	stage = domain.StageClassifying
	verdict := p.classifier.Classify(extracted, text, metrics)
	if !verdict.Accept() {
		stage = domain.StageSkipping
		return domain.Outcome{Kind: domain.OutcomeRejected, Reasons: verdict.Reasons}, metrics
	}

	stage = domain.StagePersisting
	record, err := p.builder.Build(extracted, text, metrics, verdict, article.Source{
		Rel:      doc.Rel,
		Checksum: checksum(raw),
	})
	if err != nil {
		return failed(stage, err), metrics
	}
	if p.repository == nil {
		return failed(stage, errors.New("article repository is not configured")), metrics
	}
	if err := p.repository.Insert(ctx, record); err != nil {
		if errors.Is(err, domain.ErrAlreadyStored) {
			return domain.Outcome{Kind: domain.OutcomeAccepted, Record: record, Duplicate: true}, metrics
		}
		return failed(stage, err), metrics
	}

	return domain.Outcome{Kind: domain.OutcomeAccepted, Record: record}, metrics
}

func (p *Pipeline) report(ctx context.Context, log *slog.Logger, doc ports.Document, outcome domain.Outcome, metrics domain.Metrics) {
	switch outcome.Kind {
	case domain.OutcomeAccepted:
		if outcome.Duplicate {
			log.Info("article already imported", "file", doc.Rel, "checksum", outcome.Record.Checksum)
			break
		}
		log.Info("article imported",
			"file", doc.Rel,
			"words", metrics.WordCount,
			"tokens", metrics.TokenCount,
			"copyright_awp", outcome.Record.CopyrightAWP,
		)
	case domain.OutcomeRejected:
		log.Info("article ignored", "file", doc.Rel, "reasons", strings.Join(domain.Verdict{Reasons: outcome.Reasons}.Strings(), ", "))
	default:
		attrs := []any{"file", doc.Rel, "error", outcome.Err}
		var stageErr *domain.StageError
		if errors.As(outcome.Err, &stageErr) {
			attrs = append(attrs, "stage", stageErr.Stage)
		}
		log.Error("document quarantined", attrs...)

		if p.notifier != nil {
			body := fmt.Sprintf("file: %s\nerror: %v", doc.Rel, outcome.Err)
			if err := p.notifier.Alert(ctx, alertSubject, body); err != nil {
				log.Warn("alert failed", "file", doc.Rel, "error", err)
			}
		}
	}

	if p.recorder != nil {
		p.recorder.RecordOutcome(outcome, metrics)
	}
}

func (p *Pipeline) finalize(log *slog.Logger, doc ports.Document, outcome domain.Outcome) {
	if p.mover == nil {
		return
	}
	if err := p.mover.Move(doc, outcome.Bucket()); err != nil {
		log.Error("move document failed",
			"file", doc.Rel,
			"bucket", outcome.Bucket(),
			"stage", domain.StageFinalizing,
			"error", err,
		)
	}
}

func failed(stage domain.Stage, err error) domain.Outcome {
	return domain.Outcome{
		Kind: domain.OutcomeFailed,
		Err:  &domain.StageError{Stage: stage, Err: err},
	}
}

func checksum(raw []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(raw))
}
