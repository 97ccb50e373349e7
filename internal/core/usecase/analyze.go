package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirillkom/docinsight/internal/core/domain"
	"github.com/kirillkom/docinsight/internal/core/ports"
)

// AnalyzeDocumentUseCase runs the analysis pipeline for one document:
// routing (recognition vs. direct summarization), parsing and persistence.
type AnalyzeDocumentUseCase struct {
	repo       ports.DocumentRepository
	recognizer ports.TextRecognizer
	summarizer ports.Summarizer
	parser     ports.AnalysisParser
	logger     *slog.Logger
}

func NewAnalyzeDocumentUseCase(
	repo ports.DocumentRepository,
	recognizer ports.TextRecognizer,
	summarizer ports.Summarizer,
	parser ports.AnalysisParser,
	logger *slog.Logger,
) *AnalyzeDocumentUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeDocumentUseCase{
		repo:       repo,
		recognizer: recognizer,
		summarizer: summarizer,
		parser:     parser,
		logger:     logger,
	}
}

func (uc *AnalyzeDocumentUseCase) AnalyzeByID(ctx context.Context, documentID string) error {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	if err := uc.repo.SetAnalyzing(ctx, documentID); err != nil {
		return fmt.Errorf("set status=analyzing: %w", err)
	}

	fullText, err := uc.produceAnalysisText(ctx, doc)
	if err != nil {
		return uc.failWith(ctx, documentID, err)
	}

	sections := uc.parser.Parse(fullText)
	analysis := domain.Analysis{
		FullText:        fullText,
		Summary:         sections.Summary,
		KeyPoints:       sections.KeyPoints,
		Details:         sections.Details,
		Recommendations: sections.Recommendations,
		AnalyzedAt:      time.Now().UTC(),
	}

	if err := uc.repo.SetAnalyzed(ctx, documentID, analysis); err != nil {
		return uc.failWith(ctx, documentID, fmt.Errorf("save analysis: %w", err))
	}
	return nil
}

// produceAnalysisText decides the route: inline content first, then image
// recognition, then direct reference summarization.
func (uc *AnalyzeDocumentUseCase) produceAnalysisText(ctx context.Context, doc *domain.Document) (string, error) {
	switch {
	case doc.SourceContent != "":
		return uc.summarizer.SummarizeText(ctx, doc.SourceContent)
	case doc.SourceReference != "" && doc.IsImage():
		text, err := uc.recognizer.Recognize(ctx, doc.SourceReference)
		if err != nil {
			return "", fmt.Errorf("recognize image text: %w", err)
		}
		return uc.summarizer.SummarizeText(ctx, text)
	case doc.SourceReference != "":
		return uc.summarizer.SummarizeReference(ctx, doc.SourceReference, doc.MimeType)
	default:
		return "", domain.WrapError(domain.ErrInvalidState, "analyze document", errors.New("no content or reference available"))
	}
}

// failWith marks the document failed best-effort and returns the original
// pipeline error. A failing status update is joined, never masks the cause.
func (uc *AnalyzeDocumentUseCase) failWith(ctx context.Context, documentID string, pipelineErr error) error {
	if failErr := uc.repo.SetFailed(ctx, documentID, pipelineErr.Error()); failErr != nil {
		uc.logger.Error("mark analysis failed", "document_id", documentID, "error", failErr)
		return fmt.Errorf("%w; mark failed status: %v", pipelineErr, failErr)
	}
	return pipelineErr
}
