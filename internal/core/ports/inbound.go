package ports

import (
	"context"
	"io"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

// DocumentIngestor is the inbound contract for document upload orchestration.
type DocumentIngestor interface {
	Upload(ctx context.Context, name, mimeType string, size int64, body io.Reader) (*domain.Document, error)
	RequestAnalysis(ctx context.Context, documentID string) error
}

// DocumentAnalyzer drives the analysis pipeline for a stored document.
type DocumentAnalyzer interface {
	AnalyzeByID(ctx context.Context, documentID string) error
}

// QuestionAnswerer answers follow-up questions grounded in a document's
// stored analysis or raw content.
type QuestionAnswerer interface {
	Ask(ctx context.Context, documentID, question string) (*domain.ConversationEntry, error)
}

// DocumentReader is the inbound read model for document metadata/state.
type DocumentReader interface {
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context, limit int) ([]domain.Document, error)
}

// DocumentRemover deletes a document, its conversation log and its blob.
type DocumentRemover interface {
	DeleteByID(ctx context.Context, id string) error
}
