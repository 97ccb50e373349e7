package ports

import (
	"context"
	"io"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

// DocumentRepository persists document records and owns the status machine.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context, limit int) ([]domain.Document, error)
	SetAnalyzing(ctx context.Context, id string) error
	SetAnalyzed(ctx context.Context, id string, analysis domain.Analysis) error
	SetFailed(ctx context.Context, id string, reason string) error
	// Delete removes the record and cascades deletion of its conversation
	// entries in a single transaction.
	Delete(ctx context.Context, id string) error
}

// ConversationLog is the append-only per-document question/answer history.
type ConversationLog interface {
	Append(ctx context.Context, entry *domain.ConversationEntry) error
	ListByDocument(ctx context.Context, documentID string) ([]domain.ConversationEntry, error)
}

// ObjectStorage stores source document blobs. Put reports upload progress as
// a monotonic percentage 0..100; the callback may be nil.
type ObjectStorage interface {
	Put(ctx context.Context, key, contentType string, size int64, data io.Reader, progress func(percent int)) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// MessageQueue publishes/consumes analysis job events.
type MessageQueue interface {
	PublishAnalysisRequested(ctx context.Context, documentID string) error
	SubscribeAnalysisRequested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextRecognizer extracts text from an image reference. It never returns an
// empty string on success; "no text detected" is reported as a placeholder,
// not an error.
type TextRecognizer interface {
	Recognize(ctx context.Context, imageReference string) (string, error)
}

// Summarizer invokes the generative backend.
type Summarizer interface {
	SummarizeText(ctx context.Context, text string) (string, error)
	SummarizeReference(ctx context.Context, reference, mimeType string) (string, error)
	AnswerQuestion(ctx context.Context, question, context string) (string, error)
}

// AnalysisParser extracts structured sections from free-form model output.
// Parsing is pure and total: missing sections degrade to empty values.
type AnalysisParser interface {
	Parse(text string) domain.Sections
}

// TextExtractor pulls inline text out of an uploaded blob so small text-like
// documents can be analyzed without a storage round trip.
type TextExtractor interface {
	Supports(mimeType string) bool
	Extract(data []byte) (string, error)
}
