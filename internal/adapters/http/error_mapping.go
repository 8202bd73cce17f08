package httpadapter

import (
	"net/http"

	"github.com/codespaze/resume-builder/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	case domain.IsKind(err, domain.ErrEmptyExtraction):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrSerialization):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrResumeNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrAllProvidersFailed):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrTemporary):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// clientMessage keeps upstream response bodies, connection strings and
// wrapped internals out of client-facing errors.
func clientMessage(err error, status int) string {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return "invalid input"
	case domain.IsKind(err, domain.ErrUnsupportedMediaType):
		return "unsupported media type"
	case domain.IsKind(err, domain.ErrEmptyExtraction):
		return "no text could be extracted from the document"
	case domain.IsKind(err, domain.ErrSerialization):
		return "resume payload is not serializable"
	case domain.IsKind(err, domain.ErrResumeNotFound):
		return "resume not found"
	case domain.IsKind(err, domain.ErrAllProvidersFailed):
		return "all AI providers are unavailable"
	case status == http.StatusServiceUnavailable:
		return "service temporarily unavailable"
	default:
		return "internal server error"
	}
}
