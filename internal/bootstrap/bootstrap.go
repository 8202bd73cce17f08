package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/codespaze/resume-builder/internal/config"
	"github.com/codespaze/resume-builder/internal/core/ports"
	"github.com/codespaze/resume-builder/internal/core/usecase"
	"github.com/codespaze/resume-builder/internal/infrastructure/extractor/document"
	"github.com/codespaze/resume-builder/internal/infrastructure/llm"
	"github.com/codespaze/resume-builder/internal/infrastructure/queue/nats"
	"github.com/codespaze/resume-builder/internal/infrastructure/repository/postgres"
	"github.com/codespaze/resume-builder/internal/infrastructure/resilience"
	"github.com/codespaze/resume-builder/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue      *nats.Queue
	Repo       ports.ResumeRepository
	ExtractUC  ports.ResumeExtractor
	GenerateUC ports.ContentGenerator
	ResumeUC   ports.ResumeService
	HistoryUC  ports.HistoryAppender

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewResumeRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig())

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: executor,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	providerClient := &http.Client{
		Timeout: time.Duration(cfg.ProviderTimeoutSeconds) * time.Second,
	}
	registry := llm.NewRegistry(
		llm.NewResilientProvider(llm.NewGemini(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey, providerClient), executor),
		llm.NewResilientProvider(llm.NewMistral(cfg.MistralBaseURL, cfg.MistralModel, cfg.MistralAPIKey, providerClient), executor),
		llm.NewResilientProvider(llm.NewPerplexity(cfg.PerplexityBaseURL, cfg.PerplexityModel, cfg.PerplexityAPIKey, providerClient), executor),
	)

	extractor := document.New()
	clock := usecase.SystemClock()

	generateUC := usecase.NewGenerateContentUseCase(registry)
	extractUC := usecase.NewExtractResumeUseCase(repo, storage, extractor, generateUC, queue, clock)
	resumeUC := usecase.NewSaveResumeUseCase(repo, queue, clock)
	historyUC := usecase.NewAppendHistoryUseCase(repo, clock)

	return &App{
		Config: cfg,

		Queue:      queue,
		Repo:       repo,
		ExtractUC:  extractUC,
		GenerateUC: generateUC,
		ResumeUC:   resumeUC,
		HistoryUC:  historyUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
