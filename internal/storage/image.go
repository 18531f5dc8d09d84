package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	apperrors "go-gin-rsvp/pkg/app_errors"

	"github.com/nfnt/resize"
)

const (
	MaxImageSize = 5 * 1024 * 1024
	// MaxImageWidth 封面圖超過此寬度會被等比例縮小
	MaxImageWidth uint = 1600
	// MaxImagePixels 解碼前的尺寸上限；小檔案也可能宣告極大的尺寸
	MaxImagePixels = 40_000_000
)

// Image 已驗證、可上傳的圖片
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

// ValidateImage 檢查大小與實際內容類型；declaredType 為表單宣告的類型，可為空
func ValidateImage(data []byte, declaredType string) (*Image, error) {
	if len(data) > MaxImageSize {
		return nil, apperrors.ErrImageTooLarge
	}
	if len(data) == 0 {
		return nil, apperrors.ErrInvalidImage
	}
	if declaredType != "" && !strings.HasPrefix(declaredType, "image/") {
		return nil, apperrors.ErrInvalidImage
	}

	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperrors.ErrInvalidImage
	}

	ext, ok := extensions[contentType]
	if !ok {
		ext = ""
	}
	return &Image{Data: data, ContentType: contentType, Extension: ext}, nil
}

type codec struct {
	config func(io.Reader) (image.Config, error)
	decode func(io.Reader) (image.Image, error)
	encode func(io.Writer, image.Image) error
}

var codecs = map[string]codec{
	"image/jpeg": {jpeg.DecodeConfig, jpeg.Decode, func(w io.Writer, m image.Image) error {
		return jpeg.Encode(w, m, &jpeg.Options{Quality: 85})
	}},
	"image/png": {png.DecodeConfig, png.Decode, png.Encode},
	"image/gif": {gif.DecodeConfig, gif.Decode, func(w io.Writer, m image.Image) error {
		return gif.Encode(w, m, nil)
	}},
}

// Shrink 寬度超過 maxWidth 時以 Lanczos3 等比例縮小。
// 先只讀檔頭取得尺寸，超過 MaxImagePixels 的圖不解碼；寬度未超過也不解碼。
// 無法解碼的格式（如 webp）原樣返回。
func Shrink(img *Image, maxWidth uint) (*Image, error) {
	c, ok := codecs[img.ContentType]
	if !ok {
		return img, nil
	}

	cfg, err := c.config(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxImagePixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds pixel limit", apperrors.ErrInvalidImage, cfg.Width, cfg.Height)
	}
	if uint(cfg.Width) <= maxWidth {
		return img, nil
	}

	decoded, err := c.decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidImage, err)
	}

	var buf bytes.Buffer
	if err := c.encode(&buf, resize.Resize(maxWidth, 0, decoded, resize.Lanczos3)); err != nil {
		return nil, err
	}
	return &Image{Data: buf.Bytes(), ContentType: img.ContentType, Extension: img.Extension}, nil
}
