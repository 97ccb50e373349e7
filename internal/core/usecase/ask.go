package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/kirillkom/docinsight/internal/core/domain"
	"github.com/kirillkom/docinsight/internal/core/ports"
)

// AskUseCase answers a follow-up question about a document, grounding the
// answer in the stored analysis when available, otherwise the raw content.
type AskUseCase struct {
	repo       ports.DocumentRepository
	summarizer ports.Summarizer
	log        ports.ConversationLog
	logger     *slog.Logger
}

func NewAskUseCase(
	repo ports.DocumentRepository,
	summarizer ports.Summarizer,
	log ports.ConversationLog,
	logger *slog.Logger,
) *AskUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &AskUseCase{
		repo:       repo,
		summarizer: summarizer,
		log:        log,
		logger:     logger,
	}
}

func (uc *AskUseCase) Ask(ctx context.Context, documentID, question string) (*domain.ConversationEntry, error) {
	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("fetch document by id: %w", err)
	}

	contextText := selectContext(doc)
	if contextText == "" {
		return nil, domain.WrapError(domain.ErrInvalidState, "answer question", errors.New("no content available to answer questions"))
	}

	answer, err := uc.summarizer.AnswerQuestion(ctx, question, contextText)
	if err != nil {
		return nil, fmt.Errorf("answer question: %w", err)
	}

	entry := &domain.ConversationEntry{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		Question:   question,
		Answer:     answer,
		CreatedAt:  time.Now().UTC(),
	}

	// The primary contract is returning an answer; a failed log append is
	// reported but never propagated.
	if err := uc.log.Append(ctx, entry); err != nil {
		uc.logger.Warn("append conversation entry", "document_id", documentID, "error", err)
	}
	return entry, nil
}

// selectContext prefers the stored analysis text over the raw source.
func selectContext(doc *domain.Document) string {
	if doc.Analysis != nil && doc.Analysis.FullText != "" {
		return doc.Analysis.FullText
	}
	return doc.SourceContent
}
