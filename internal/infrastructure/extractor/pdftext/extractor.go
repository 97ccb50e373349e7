package pdftext

import (
	"bytes"
	"errors"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

var errNoText = errors.New("no extractable text")

// Extractor pulls plain text out of uploaded PDFs so their content can be
// summarized inline without another backend round trip.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Supports(mimeType string) bool {
	return mimeType == "application/pdf"
}

func (e *Extractor) Extract(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", domain.WrapError(domain.ErrInvalidState, "read pdf", err)
	}

	var builder strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Pages that fail to decode are skipped; partial text is
			// still useful for summarization.
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	out := strings.TrimSpace(builder.String())
	if out == "" {
		return "", domain.WrapError(domain.ErrInvalidState, "extract pdf text", errNoText)
	}
	return out, nil
}
