package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

type DocumentRepository struct {
	db *sql.DB
}

func NewDocumentRepository(db *sql.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026082901)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	mime_type TEXT NOT NULL,
	size_bytes BIGINT NOT NULL DEFAULT 0,
	source_content TEXT NOT NULL DEFAULT '',
	source_reference TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	analysis JSONB,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at DESC);

CREATE TABLE IF NOT EXISTS conversation_entries (
	id TEXT PRIMARY KEY,
	document_id TEXT NOT NULL,
	question TEXT NOT NULL,
	answer TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_conversation_entries_document
	ON conversation_entries(document_id, created_at DESC);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	analysisJSON, err := marshalAnalysis(doc.Analysis)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO documents (
	id, name, mime_type, size_bytes, source_content, source_reference, status, error_message, analysis, created_at, updated_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
`,
		doc.ID, doc.Name, doc.MimeType, doc.SizeBytes, doc.SourceContent, doc.SourceReference,
		string(doc.Status), doc.Error, analysisJSON, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		return domain.WrapError(domain.ErrStorage, "insert document", err)
	}
	return nil
}

func (r *DocumentRepository) GetByID(ctx context.Context, id string) (*domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, mime_type, size_bytes, source_content, source_reference, status, error_message, analysis, created_at, updated_at
FROM documents
WHERE id = $1
`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.WrapError(domain.ErrDocumentNotFound, "get document", fmt.Errorf("id=%s", id))
		}
		return nil, domain.WrapError(domain.ErrStorage, "scan document", err)
	}
	return doc, nil
}

func (r *DocumentRepository) List(ctx context.Context, limit int) ([]domain.Document, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
SELECT id, name, mime_type, size_bytes, source_content, source_reference, status, error_message, analysis, created_at, updated_at
FROM documents
ORDER BY created_at DESC
LIMIT $1
`, limit)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStorage, "list documents", err)
	}
	defer rows.Close()

	out := make([]domain.Document, 0, limit)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, domain.WrapError(domain.ErrStorage, "scan document row", err)
		}
		out = append(out, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrStorage, "iterate documents", err)
	}
	return out, nil
}

func (r *DocumentRepository) SetAnalyzing(ctx context.Context, id string) error {
	return r.updateStatus(ctx, "set analyzing", `
UPDATE documents
SET status = $2, error_message = '', updated_at = $3
WHERE id = $1
`, id, string(domain.StatusAnalyzing), time.Now().UTC())
}

// SetAnalyzed writes status and payload in one statement so a reader never
// sees an analyzed document without its analysis.
func (r *DocumentRepository) SetAnalyzed(ctx context.Context, id string, analysis domain.Analysis) error {
	analysisJSON, err := marshalAnalysis(&analysis)
	if err != nil {
		return err
	}
	return r.updateStatus(ctx, "set analyzed", `
UPDATE documents
SET status = $2, analysis = $3, error_message = '', updated_at = $4
WHERE id = $1
`, id, string(domain.StatusAnalyzed), analysisJSON, time.Now().UTC())
}

// SetFailed leaves any previous analysis payload in place; a failed
// re-analysis must not wipe the last good result.
func (r *DocumentRepository) SetFailed(ctx context.Context, id string, reason string) error {
	return r.updateStatus(ctx, "set failed", `
UPDATE documents
SET status = $2, error_message = $3, updated_at = $4
WHERE id = $1
`, id, string(domain.StatusFailed), reason, time.Now().UTC())
}

// Delete removes the document and its conversation entries in one
// transaction; a partial cascade never survives.
func (r *DocumentRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.WrapError(domain.ErrStorage, "begin delete tx", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM conversation_entries WHERE document_id = $1`, id); err != nil {
		return domain.WrapError(domain.ErrStorage, "cascade delete conversation entries", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return domain.WrapError(domain.ErrStorage, "delete document", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.WrapError(domain.ErrStorage, "delete document rows affected", err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, "delete document", fmt.Errorf("id=%s", id))
	}

	if err := tx.Commit(); err != nil {
		return domain.WrapError(domain.ErrStorage, "commit delete tx", err)
	}
	return nil
}

func (r *DocumentRepository) updateStatus(ctx context.Context, operation, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return domain.WrapError(domain.ErrStorage, operation, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return domain.WrapError(domain.ErrStorage, operation, err)
	}
	if rows == 0 {
		return domain.WrapError(domain.ErrDocumentNotFound, operation, errors.New("no rows affected"))
	}
	return nil
}

type documentScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row documentScanner) (*domain.Document, error) {
	var doc domain.Document
	var status string
	var analysisRaw []byte

	err := row.Scan(
		&doc.ID, &doc.Name, &doc.MimeType, &doc.SizeBytes, &doc.SourceContent, &doc.SourceReference,
		&status, &doc.Error, &analysisRaw, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	doc.Status = domain.DocumentStatus(status)
	if len(analysisRaw) > 0 {
		var analysis domain.Analysis
		if err := json.Unmarshal(analysisRaw, &analysis); err != nil {
			return nil, fmt.Errorf("unmarshal analysis: %w", err)
		}
		doc.Analysis = &analysis
	}
	return &doc, nil
}

func marshalAnalysis(analysis *domain.Analysis) ([]byte, error) {
	if analysis == nil {
		return nil, nil
	}
	raw, err := json.Marshal(analysis)
	if err != nil {
		return nil, domain.WrapError(domain.ErrStorage, "marshal analysis", err)
	}
	return raw, nil
}
