package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"go-gin-rsvp/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// Uploader 上傳物件並回傳公開網址
type Uploader interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type S3UploaderImpl struct {
	client        s3iface.S3API
	bucket        string
	publicBaseURL string
}

// NewS3Uploader 以靜態憑證建立 session；未設定金鑰時改用預設的 credential chain
func NewS3Uploader(cfg *config.StorageConfig) (Uploader, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create aws session: %w", err)
	}

	return NewS3UploaderWithClient(s3.New(sess), cfg), nil
}

func NewS3UploaderWithClient(client s3iface.S3API, cfg *config.StorageConfig) Uploader {
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return &S3UploaderImpl{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: base,
	}
}

func (u *S3UploaderImpl) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		ACL:           aws.String("public-read"),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		CacheControl:  aws.String("public, max-age=31536000"),
		StorageClass:  aws.String("STANDARD"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return u.publicBaseURL + "/" + key, nil
}
