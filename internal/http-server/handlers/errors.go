package handlers

import (
	"errors"
	"net/http"

	"github.com/chaemni0706/PaddleOCR-Interface/internal/models/dto"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/services"
	"github.com/chaemni0706/PaddleOCR-Interface/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError maps service errors to the envelope and HTTP status.
func writeError(c *gin.Context, log *zap.Logger, err error) {
	var verr *validator.ValidationError
	switch {
	case errors.As(err, &verr):
		status := http.StatusBadRequest
		if verr.Code == validator.CodeFileTooLarge {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, dto.Fail(verr.Code, verr.Message))
	case errors.Is(err, services.ErrJobNotFound):
		c.JSON(http.StatusNotFound, dto.Fail(dto.CodeJobNotFound, "job not found"))
	case errors.Is(err, services.ErrResultNotReady):
		c.JSON(http.StatusConflict, dto.Fail(dto.CodeResultNotReady, "result is not ready yet"))
	default:
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.Fail(dto.CodeInternalError, "internal server error"))
	}
}
