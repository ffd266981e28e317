package handler

import (
	"errors"
	"net/http"

	"github.com/cloud-wave-best-zizon/catalog-service/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation, domain.KindInvalidQuery, domain.KindInvalidID,
		domain.KindUnknownSKU, domain.KindInsufficientStock:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindDuplicateCode, domain.KindDuplicateID:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	kind := domain.KindOf(err)
	status := statusForKind(kind)

	message := err.Error()
	var de *domain.Error
	if errors.As(err, &de) {
		message = de.Message
	}

	if status == http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err))
		message = "internal error"
	}

	c.JSON(status, gin.H{
		"error": message,
		"kind":  string(kind),
	})
}
