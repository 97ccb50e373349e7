package httpadapter

import (
	"net/http"

	"github.com/kirillkom/docinsight/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrInvalidState):
		return http.StatusConflict
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrRecognition), domain.IsKind(err, domain.ErrSummarization):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
