package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/docinsight/internal/core/domain"
	"github.com/kirillkom/docinsight/internal/core/ports"
)

// IngestDocumentUseCase stores the uploaded blob, creates the document
// record and enqueues it for analysis.
type IngestDocumentUseCase struct {
	repo       ports.DocumentRepository
	storage    ports.ObjectStorage
	queue      ports.MessageQueue
	extractors []ports.TextExtractor
	logger     *slog.Logger
}

func NewIngestDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	queue ports.MessageQueue,
	extractors []ports.TextExtractor,
	logger *slog.Logger,
) *IngestDocumentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestDocumentUseCase{
		repo:       repo,
		storage:    storage,
		queue:      queue,
		extractors: extractors,
		logger:     logger,
	}
}

func (uc *IngestDocumentUseCase) Upload(
	ctx context.Context,
	name, mimeType string,
	size int64,
	body io.Reader,
) (*domain.Document, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read upload body: %w", err)
	}

	id := uuid.NewString()
	storageKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(name))
	now := time.Now().UTC()

	progress := func(percent int) {
		uc.logger.Debug("upload progress", "document_id", id, "percent", percent)
	}
	if err := uc.storage.Put(ctx, storageKey, mimeType, int64(len(raw)), bytes.NewReader(raw), progress); err != nil {
		return nil, fmt.Errorf("save to object storage: %w", err)
	}

	doc := &domain.Document{
		ID:              id,
		Name:            name,
		MimeType:        mimeType,
		SizeBytes:       size,
		SourceReference: storageKey,
		SourceContent:   uc.inlineContent(id, mimeType, raw),
		Status:          domain.StatusUploaded,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if doc.SizeBytes <= 0 {
		doc.SizeBytes = int64(len(raw))
	}

	if err := uc.repo.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("create document record: %w", err)
	}

	if err := uc.queue.PublishAnalysisRequested(ctx, doc.ID); err != nil {
		return nil, fmt.Errorf("publish analysis request: %w", err)
	}
	return doc, nil
}

// RequestAnalysis re-enqueues an existing document, the manual retry path.
func (uc *IngestDocumentUseCase) RequestAnalysis(ctx context.Context, documentID string) error {
	if _, err := uc.repo.GetByID(ctx, documentID); err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}
	if err := uc.queue.PublishAnalysisRequested(ctx, documentID); err != nil {
		return fmt.Errorf("publish analysis request: %w", err)
	}
	return nil
}

// inlineContent extracts text for mime types we can read directly, so the
// pipeline can skip the storage round trip. Extraction failure is not fatal;
// the document keeps its reference route.
func (uc *IngestDocumentUseCase) inlineContent(documentID, mimeType string, raw []byte) string {
	for _, ex := range uc.extractors {
		if !ex.Supports(mimeType) {
			continue
		}
		text, err := ex.Extract(raw)
		if err != nil {
			uc.logger.Warn("inline text extraction", "document_id", documentID, "mime_type", mimeType, "error", err)
			return ""
		}
		return text
	}
	return ""
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "document.bin"
	}
	return base
}
