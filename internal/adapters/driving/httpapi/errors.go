package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
	"github.com/custodia-labs/sercha-manuals/internal/logger"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusFor maps a domain error to an HTTP status and a client-safe message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrBadRequest), errors.Is(err, domain.ErrUnsupportedType):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrEmbeddingUnavailable):
		return http.StatusServiceUnavailable, "embedding provider not configured"
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, "embedding provider failed"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func writeError(c *gin.Context, err error) {
	code, msg := statusFor(err)
	if code >= http.StatusInternalServerError {
		logger.Warnw("request failed", "path", c.FullPath(), "status", code, "error", err)
	}
	c.AbortWithStatusJSON(code, ErrorResponse{Code: code, Message: msg})
}
