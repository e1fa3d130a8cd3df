package handler

import (
	"errors"
	"net/http"

	"github.com/contratos-rag/backend/middleware"
	"github.com/contratos-rag/backend/model"
	"github.com/contratos-rag/backend/service"
	"github.com/gin-gonic/gin"
)

// statusForError maps the service error taxonomy to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, service.ErrUnreadablePDF):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrEmbeddingService), errors.Is(err, service.ErrChatService):
		return http.StatusBadGateway
	case errors.Is(err, service.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusForError(err), model.ErrorResponse{
		Error:     err.Error(),
		RequestID: middleware.GetRequestID(c),
	})
}
