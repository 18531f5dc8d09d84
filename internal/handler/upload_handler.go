package handler

import (
	"errors"
	"io"
	"net/http"

	"go-gin-rsvp/internal/service"
	"go-gin-rsvp/internal/storage"
	apperrors "go-gin-rsvp/pkg/app_errors"
	"go-gin-rsvp/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UploadResponse struct {
	URL string `json:"url"`
}

type UploadHandler struct {
	service service.UploadService
}

func NewUploadHandler(service service.UploadService) *UploadHandler {
	return &UploadHandler{service: service}
}

func (h *UploadHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api")
	{
		router.POST("upload", h.Upload)
	}
}

func (h *UploadHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file provided"})
		return
	}
	if header.Size > storage.MaxImageSize {
		h.handleError(c, apperrors.ErrImageTooLarge, "Upload")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.handleError(c, err, "Upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, storage.MaxImageSize+1))
	if err != nil {
		h.handleError(c, err, "Upload")
		return
	}

	url, err := h.service.UploadCoverImage(c, data, header.Header.Get("Content-Type"))
	if err != nil {
		h.handleError(c, err, "Upload")
		return
	}
	c.JSON(http.StatusOK, UploadResponse{URL: url})
}

func (h *UploadHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))

	switch {
	case errors.Is(err, apperrors.ErrInvalidImage), errors.Is(err, apperrors.ErrImageTooLarge):
		log.Warn("Rejected image")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image"})
	}
}
