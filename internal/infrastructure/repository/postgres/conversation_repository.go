package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

type ConversationRepository struct {
	db *sql.DB
}

func NewConversationRepository(db *sql.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

func (r *ConversationRepository) Append(ctx context.Context, entry *domain.ConversationEntry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO conversation_entries (id, document_id, question, answer, created_at)
VALUES ($1,$2,$3,$4,$5)
`, entry.ID, entry.DocumentID, entry.Question, entry.Answer, entry.CreatedAt)
	if err != nil {
		return domain.WrapError(domain.ErrStorage, "append conversation entry", err)
	}
	return nil
}

// ListByDocument returns entries newest first; the Q&A surface shows the
// latest exchange on top.
func (r *ConversationRepository) ListByDocument(ctx context.Context, documentID string) ([]domain.ConversationEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, document_id, question, answer, created_at
FROM conversation_entries
WHERE document_id = $1
ORDER BY created_at DESC
`, documentID)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStorage, "list conversation entries", err)
	}
	defer rows.Close()

	out := make([]domain.ConversationEntry, 0)
	for rows.Next() {
		var entry domain.ConversationEntry
		if err := rows.Scan(&entry.ID, &entry.DocumentID, &entry.Question, &entry.Answer, &entry.CreatedAt); err != nil {
			return nil, domain.WrapError(domain.ErrStorage, "scan conversation entry", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrStorage, "iterate conversation entries", err)
	}
	return out, nil
}
