package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/docinsight/internal/config"
	"github.com/kirillkom/docinsight/internal/core/ports"
	"github.com/kirillkom/docinsight/internal/core/usecase"
	"github.com/kirillkom/docinsight/internal/export"
	"github.com/kirillkom/docinsight/internal/infrastructure/extractor/pdftext"
	"github.com/kirillkom/docinsight/internal/infrastructure/extractor/plaintext"
	"github.com/kirillkom/docinsight/internal/infrastructure/llm/claude"
	"github.com/kirillkom/docinsight/internal/infrastructure/ocr/vision"
	"github.com/kirillkom/docinsight/internal/infrastructure/parsing"
	"github.com/kirillkom/docinsight/internal/infrastructure/queue/nats"
	"github.com/kirillkom/docinsight/internal/infrastructure/repository/postgres"
	"github.com/kirillkom/docinsight/internal/infrastructure/resilience"
	s3storage "github.com/kirillkom/docinsight/internal/infrastructure/storage/s3"
)

type App struct {
	Config config.Config
	Logger *slog.Logger

	Queue        ports.MessageQueue
	Repo         ports.DocumentRepository
	Conversation ports.ConversationLog

	IngestUC  ports.DocumentIngestor
	AnalyzeUC ports.DocumentAnalyzer
	AskUC     ports.QuestionAnswerer
	DeleteUC  ports.DocumentRemover
	Exporter  *export.Service

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewDocumentRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	conversation := postgres.NewConversationRepository(db)

	storage, err := s3storage.New(ctx, s3storage.Options{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Bucket:    cfg.S3Bucket,
		UseSSL:    cfg.S3UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.New(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		Runner: resilience.NewRunner(resilience.DefaultPolicy()),
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	summarizer := claude.New(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMMaxTokens)
	recognizer := vision.New(cfg.OCRBaseURL)

	parser, err := parsing.New()
	if err != nil {
		return nil, fmt.Errorf("init analysis parser: %w", err)
	}

	extractors := []ports.TextExtractor{plaintext.New(), pdftext.New()}

	ingestUC := usecase.NewIngestDocumentUseCase(repo, storage, queue, extractors, logger)
	analyzeUC := usecase.NewAnalyzeDocumentUseCase(repo, recognizer, summarizer, parser, logger)
	askUC := usecase.NewAskUseCase(repo, summarizer, conversation, logger)
	deleteUC := usecase.NewDeleteDocumentUseCase(repo, storage, logger)
	exporter := export.NewService(repo, logger)

	return &App{
		Config: cfg,
		Logger: logger,

		Queue:        queue,
		Repo:         repo,
		Conversation: conversation,

		IngestUC:  ingestUC,
		AnalyzeUC: analyzeUC,
		AskUC:     askUC,
		DeleteUC:  deleteUC,
		Exporter:  exporter,

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
