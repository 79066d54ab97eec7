package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/awp-finanznachrichten/archive-llm/internal/article"
	"github.com/awp-finanznachrichten/archive-llm/internal/config"
	"github.com/awp-finanznachrichten/archive-llm/internal/domain"
	"github.com/awp-finanznachrichten/archive-llm/internal/infrastructure/filestore"
	"github.com/awp-finanznachrichten/archive-llm/internal/infrastructure/scheduler"
	"github.com/awp-finanznachrichten/archive-llm/internal/infrastructure/storage"
	"github.com/awp-finanznachrichten/archive-llm/internal/infrastructure/telegram"
	"github.com/awp-finanznachrichten/archive-llm/internal/infrastructure/telemetry"
	"github.com/awp-finanznachrichten/archive-llm/internal/infrastructure/tokenizer"
	"github.com/awp-finanznachrichten/archive-llm/internal/logging"
	"github.com/awp-finanznachrichten/archive-llm/internal/ports"
	"github.com/awp-finanznachrichten/archive-llm/internal/usecase"
)

const stopTimeout = 30 * time.Second

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg config.Config
	log *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.Discard()
	}
	return &Application{cfg: cfg, log: baseLogger}
}

// RunOnce imports every pending document a single time.
func (a *Application) RunOnce(ctx context.Context) (domain.RunSummary, error) {
	pipeline, closeStore, err := a.buildPipeline(ctx)
	if err != nil {
		return domain.RunSummary{}, err
	}
	defer closeStore()

	return pipeline.Run(ctx)
}

// Watch re-runs the import on the configured interval until ctx is done.
func (a *Application) Watch(ctx context.Context) error {
	pipeline, closeStore, err := a.buildPipeline(ctx)
	if err != nil {
		return err
	}
	defer closeStore()

	driver := scheduler.NewIntervalScheduler(a.cfg.Watch.Interval)
	sched := usecase.NewScheduler(driver, pipeline, a.log.With("component", "scheduler"))
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	a.log.Info("watching input", "dir", a.inputDir(), "interval", a.cfg.Watch.Interval)

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if err := sched.Stop(stopCtx); err != nil {
		return fmt.Errorf("stop scheduler: %w", err)
	}
	return nil
}

// Stats reports aggregate figures over the AWP-attributed archive rows.
func (a *Application) Stats(ctx context.Context) (domain.Stats, error) {
	if a.cfg.Database.Driver == config.DriverSQLDump {
		return domain.Stats{}, errors.New("statistics need a database driver, not sqldump")
	}

	db, _, err := storage.OpenDB(ctx, a.cfg.Database)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("open database: %w", err)
	}
	repo := storage.NewSQLRepository(db, a.cfg.Database.Table)
	defer repo.Close()

	return repo.Stats(ctx)
}

func (a *Application) buildPipeline(ctx context.Context) (*usecase.Pipeline, func(), error) {
	encoder, err := tokenizer.NewEncoder(a.cfg.Tokenizer.Encoding)
	if err != nil {
		return nil, nil, fmt.Errorf("load tokenizer: %w", err)
	}

	repo, builder, err := a.openRepository(ctx)
	if err != nil {
		return nil, nil, err
	}
	closeStore := func() {
		if err := repo.Close(); err != nil {
			a.log.Warn("close store failed", "error", err)
		}
	}

	store := filestore.New(a.inputDir(), a.cfg.Input.ProjectDir, a.cfg.Input.Extension, a.log.With("component", "filestore"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:     store,
		Mover:      store,
		Repository: repo,
		Tokens:     encoder,
		Classifier: article.NewClassifier(a.cfg.Classifier.PermittedWires),
		Builder:    builder,
		Notifier:   a.notifier(),
		Recorder:   telemetry.NewRecorder(a.cfg.Metrics.Textfile),
		Logger:     a.log.With("component", "pipeline"),
	})
	return pipeline, closeStore, nil
}

func (a *Application) openRepository(ctx context.Context) (ports.ArticleRepository, article.RecordBuilder, error) {
	db := a.cfg.Database

	if db.Driver == config.DriverSQLDump {
		w, err := storage.NewDumpWriter(db.DSN, db.Table)
		if err != nil {
			return nil, article.RecordBuilder{}, err
		}
		return w, article.RecordBuilder{EscapeQuotes: true}, nil
	}

	handle, dialect, err := storage.OpenDB(ctx, db)
	if err != nil {
		return nil, article.RecordBuilder{}, fmt.Errorf("open database: %w", err)
	}
	if db.CreateTable {
		if err := storage.EnsureTable(ctx, handle, dialect, db.Table); err != nil {
			_ = handle.Close()
			return nil, article.RecordBuilder{}, err
		}
	}
	return storage.NewSQLRepository(handle, db.Table), article.RecordBuilder{}, nil
}

func (a *Application) notifier() ports.Notifier {
	tg := a.cfg.Notifications.Telegram
	if !tg.Enabled {
		return telegram.Noop{}
	}
	return telegram.NewNotifier(tg.APIURL, tg.BotToken, tg.ChatID)
}

// inputDir resolves a relative input directory against the project directory.
func (a *Application) inputDir() string {
	if filepath.IsAbs(a.cfg.Input.Dir) {
		return a.cfg.Input.Dir
	}
	return filepath.Join(a.cfg.Input.ProjectDir, a.cfg.Input.Dir)
}
