// Package imagehost uploads profile pictures to an external host and returns
// a public URL for them.
package imagehost

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrTooLarge        = errors.New("image too large")
)

// MaxImageSize caps uploads at 5 MiB.
const MaxImageSize = 5 << 20

// Image is one file to upload.
type Image struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Uploader stores an image and returns the URL to display it.
type Uploader interface {
	Upload(ctx context.Context, img Image) (string, error)
}

var allowedTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Check validates size and content type before any network call.
func Check(img Image) error {
	if img.Size > MaxImageSize {
		return ErrTooLarge
	}
	if _, ok := allowedTypes[strings.ToLower(img.ContentType)]; !ok {
		return ErrUnsupportedType
	}
	return nil
}

func extensionFor(img Image) string {
	if ext := strings.ToLower(path.Ext(img.Filename)); ext != "" {
		return ext
	}
	return allowedTypes[strings.ToLower(img.ContentType)]
}
