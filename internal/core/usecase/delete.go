package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirillkom/docinsight/internal/core/ports"
)

// DeleteDocumentUseCase removes a document, its conversation entries (via
// the repository cascade) and, best-effort, its stored blob.
type DeleteDocumentUseCase struct {
	repo    ports.DocumentRepository
	storage ports.ObjectStorage
	logger  *slog.Logger
}

func NewDeleteDocumentUseCase(repo ports.DocumentRepository, storage ports.ObjectStorage, logger *slog.Logger) *DeleteDocumentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeleteDocumentUseCase{repo: repo, storage: storage, logger: logger}
}

func (uc *DeleteDocumentUseCase) DeleteByID(ctx context.Context, id string) error {
	doc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	if err := uc.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if doc.SourceReference != "" {
		if err := uc.storage.Remove(ctx, doc.SourceReference); err != nil {
			uc.logger.Warn("remove stored blob", "document_id", id, "key", doc.SourceReference, "error", err)
		}
	}
	return nil
}
