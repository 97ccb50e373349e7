package plaintext

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

var errInvalidEncoding = errors.New("payload is not valid utf-8")

// Extractor captures inline source content for plain-text uploads.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Supports(mimeType string) bool {
	return strings.HasPrefix(mimeType, "text/")
}

func (e *Extractor) Extract(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", domain.WrapError(domain.ErrInvalidState, "extract plain text", errInvalidEncoding)
	}
	return strings.TrimSpace(string(data)), nil
}
