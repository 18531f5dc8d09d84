package service

import (
	"context"

	"go-gin-rsvp/internal/storage"
	"go-gin-rsvp/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const coverImagePrefix = "covers/"

type UploadService interface {
	// UploadCoverImage 驗證、縮圖後上傳，回傳公開網址
	UploadCoverImage(ctx context.Context, data []byte, declaredType string) (string, error)
}

type UploadServiceImpl struct {
	uploader storage.Uploader
	maxWidth uint
}

func NewUploadService(uploader storage.Uploader) UploadService {
	return &UploadServiceImpl{uploader: uploader, maxWidth: storage.MaxImageWidth}
}

func (s *UploadServiceImpl) UploadCoverImage(ctx context.Context, data []byte, declaredType string) (string, error) {
	img, err := storage.ValidateImage(data, declaredType)
	if err != nil {
		return "", err
	}

	shrunk, err := storage.Shrink(img, s.maxWidth)
	if err != nil {
		return "", err
	}

	key := coverImagePrefix + uuid.New().String() + shrunk.Extension
	url, err := s.uploader.Upload(ctx, key, shrunk.Data, shrunk.ContentType)
	if err != nil {
		return "", err
	}

	logger.WithComponent("storage").Info("cover image uploaded",
		zap.String("key", key),
		zap.Int("bytes", len(shrunk.Data)),
	)
	return url, nil
}
