package qrcode

import (
	"fmt"
	"regexp"
	"strings"

	goqrcode "github.com/skip2/go-qrcode"
)

const (
	DefaultSize = 300
	CompactSize = 240
	MaxSize     = 1024
)

// PNG 產生邀請連結的 QR code 圖片
func PNG(url string, size int) ([]byte, error) {
	if url == "" {
		return nil, fmt.Errorf("qrcode: empty url")
	}
	if size <= 0 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return goqrcode.Encode(url, goqrcode.Medium, size)
}

var whitespace = regexp.MustCompile(`\s+`)

// FileName e.g. "Sarah's Party" -> "sarah's-party-qr-code.png"
func FileName(title string) string {
	return whitespace.ReplaceAllString(strings.ToLower(title), "-") + "-qr-code.png"
}
