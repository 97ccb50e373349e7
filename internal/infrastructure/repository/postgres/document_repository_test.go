package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

func newRepoWithMock(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	return &DocumentRepository{db: db}, mock, func() { _ = db.Close() }
}

func documentColumns() []string {
	return []string{
		"id", "name", "mime_type", "size_bytes", "source_content", "source_reference",
		"status", "error_message", "analysis", "created_at", "updated_at",
	}
}

func TestGetByIDReturnsDomainNotFound(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectQuery("SELECT id, name, mime_type").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDDecodesAnalysisPayload(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	analysisJSON := `{"fullText":"raw","summary":"short","keyPoints":["a","b"],"details":"","recommendations":[]}`
	mock.ExpectQuery("SELECT id, name, mime_type").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows(documentColumns()).AddRow(
			"doc-1", "report.pdf", "application/pdf", int64(42), "", "doc-1_report.pdf",
			"analyzed", "", []byte(analysisJSON), now, now,
		))

	doc, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if doc.Status != domain.StatusAnalyzed {
		t.Fatalf("expected analyzed status, got %s", doc.Status)
	}
	if doc.Analysis == nil || doc.Analysis.Summary != "short" || len(doc.Analysis.KeyPoints) != 2 {
		t.Fatalf("analysis not decoded: %+v", doc.Analysis)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetByIDNilAnalysisStaysNil(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, name, mime_type").
		WithArgs("doc-1").
		WillReturnRows(sqlmock.NewRows(documentColumns()).AddRow(
			"doc-1", "notes.txt", "text/plain", int64(5), "hello", "",
			"uploaded", "", nil, now, now,
		))

	doc, err := repo.GetByID(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if doc.Analysis != nil {
		t.Fatalf("expected nil analysis, got %+v", doc.Analysis)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSetAnalyzingReturnsDomainNotFoundWhenNoRowsAffected(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("missing", string(domain.StatusAnalyzing), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetAnalyzing(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSetAnalyzedWritesStatusAndPayloadTogether(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectExec("UPDATE documents").
		WithArgs("doc-1", string(domain.StatusAnalyzed), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.SetAnalyzed(context.Background(), "doc-1", domain.Analysis{
		FullText:  "raw output",
		Summary:   "short",
		KeyPoints: []string{"a"},
	})
	if err != nil {
		t.Fatalf("SetAnalyzed() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestSetFailedDoesNotTouchAnalysisColumn(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	// The statement carries only status, error message and timestamp.
	mock.ExpectExec(`UPDATE documents\s+SET status = \$2, error_message = \$3, updated_at = \$4`).
		WithArgs("doc-1", string(domain.StatusFailed), "backend down", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.SetFailed(context.Background(), "doc-1", "backend down"); err != nil {
		t.Fatalf("SetFailed() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDeleteCascadesInOneTransaction(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM conversation_entries").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM documents").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Delete(context.Background(), "doc-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDeleteMissingDocumentRollsBack(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM conversation_entries").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM documents").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDeleteCascadeFailurePropagatesStorageError(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM conversation_entries").
		WithArgs("doc-1").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Delete(context.Background(), "doc-1")
	if !domain.IsKind(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	repo, mock, done := newRepoWithMock(t)
	defer done()

	now := time.Now().UTC()
	mock.ExpectQuery("SELECT id, name, mime_type(?s:.*)ORDER BY created_at DESC").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(documentColumns()).
			AddRow("doc-2", "b.txt", "text/plain", int64(1), "", "", "uploaded", "", nil, now, now).
			AddRow("doc-1", "a.txt", "text/plain", int64(1), "", "", "analyzed", "", nil, now.Add(-time.Hour), now))

	docs, err := repo.List(context.Background(), 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(docs) != 2 || docs[0].ID != "doc-2" {
		t.Fatalf("unexpected listing: %+v", docs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
