package domain

import "time"

// ConversationEntry is one question/answer pair in a document's Q&A log.
// Entries are immutable and removed only when the owning document is deleted.
type ConversationEntry struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	CreatedAt  time.Time `json:"created_at"`
}
