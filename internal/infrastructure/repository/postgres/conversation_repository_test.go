package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

func newConversationRepoWithMock(t *testing.T) (*ConversationRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &ConversationRepository{db: db}, mock, func() { _ = db.Close() }
}

func TestAppendInsertsEntry(t *testing.T) {
	repo, mock, done := newConversationRepoWithMock(t)
	defer done()

	mock.ExpectExec("INSERT INTO conversation_entries").
		WithArgs("entry-1", "doc-1", "What is this?", "A report.", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry := &domain.ConversationEntry{
		ID:         "entry-1",
		DocumentID: "doc-1",
		Question:   "What is this?",
		Answer:     "A report.",
	}
	if err := repo.Append(context.Background(), entry); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if entry.CreatedAt.IsZero() {
		t.Fatalf("expected created_at to be stamped")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListByDocumentReturnsNewestFirst(t *testing.T) {
	repo, mock, done := newConversationRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, document_id, question, answer, created_at(?s:.*)ORDER BY created_at DESC").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "document_id", "question", "answer", "created_at"}).
			AddRow("entry-2", "doc-1", "q2", "a2", now).
			AddRow("entry-1", "doc-1", "q1", "a1", now.Add(-time.Minute)))

	entries, err := repo.ListByDocument(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if len(entries) != 2 || entries[0].ID != "entry-2" {
		t.Fatalf("unexpected entries: %+v", entries)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListByDocumentEmptyIsNotAnError(t *testing.T) {
	repo, mock, done := newConversationRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, document_id, question, answer, created_at").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "document_id", "question", "answer", "created_at"}))

	entries, err := repo.ListByDocument(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("ListByDocument() error = %v", err)
	}
	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", entries)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
