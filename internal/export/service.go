package export

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/docinsight/internal/core/ports"
)

// Service produces XLSX workbooks listing documents and their analysis
// results.
type Service struct {
	repo   ports.DocumentRepository
	logger *slog.Logger
}

func NewService(repo ports.DocumentRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

const sheet = "Documents"

func (s *Service) ExportDocumentsXLSX(ctx context.Context, limit int) ([]byte, error) {
	start := time.Now()

	docs, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Name",
		"MIME Type",
		"Status",
		"Summary",
		"Key Points",
		"Analyzed At",
		"Uploaded At",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, doc := range docs {
		summary := ""
		keyPoints := 0
		analyzedAt := ""
		if doc.Analysis != nil {
			summary = doc.Analysis.Summary
			keyPoints = len(doc.Analysis.KeyPoints)
			if !doc.Analysis.AnalyzedAt.IsZero() {
				analyzedAt = doc.Analysis.AnalyzedAt.UTC().Format(time.RFC3339)
			}
		}
		values := []any{
			doc.Name,
			doc.MimeType,
			string(doc.Status),
			summary,
			keyPoints,
			analyzedAt,
			doc.CreatedAt.UTC().Format(time.RFC3339),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("documents exported",
		"count", len(docs),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
