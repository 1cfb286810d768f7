// Package storage: хранение загруженных файлов (видео, обложки, превью).
package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"blogplatform/internal/apperr"
)

type Kind string

const (
	KindImage     Kind = "image"
	KindVideo     Kind = "video"
	KindThumbnail Kind = "thumbnail"
)

var (
	imageTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp"}
	videoTypes = []string{"video/mp4", "video/mpeg", "video/quicktime", "video/x-msvideo", "video/webm"}
)

const (
	DefaultMaxImageSize int64 = 5 << 20
	DefaultMaxVideoSize int64 = 100 << 20
)

type Limits struct {
	MaxImageSize int64
	MaxVideoSize int64
}

func (l Limits) maxFor(k Kind) int64 {
	if k == KindVideo {
		if l.MaxVideoSize > 0 {
			return l.MaxVideoSize
		}
		return DefaultMaxVideoSize
	}
	if l.MaxImageSize > 0 {
		return l.MaxImageSize
	}
	return DefaultMaxImageSize
}

// Upload: входящий файл из multipart-формы.
type Upload struct {
	Kind     Kind
	Filename string
	MimeType string
	Size     int64
	Body     io.Reader
}

// Stored: результат сохранения; Path передаётся обратно в Delete.
type Stored struct {
	Filename     string
	OriginalName string
	MimeType     string
	Size         int64
	Path         string
	URL          string
}

type FileStorage interface {
	Save(ctx context.Context, u Upload) (*Stored, error)
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete не считает ошибкой отсутствие файла.
	Delete(ctx context.Context, path string) error
}

// Validate проверяет MIME-тип и заявленный размер.
func Validate(u Upload, limits Limits) error {
	mime := strings.ToLower(strings.TrimSpace(u.MimeType))
	switch u.Kind {
	case KindVideo:
		if !contains(videoTypes, mime) {
			return apperr.Validation("Only video files (MP4, MPEG, MOV, AVI, WebM) are allowed")
		}
	case KindImage, KindThumbnail:
		if !contains(imageTypes, mime) {
			return apperr.Validation("Only image files (JPEG, PNG, GIF, WebP) are allowed")
		}
	default:
		return apperr.Validation("Invalid file type")
	}
	if u.Size > limits.maxFor(u.Kind) {
		return apperr.Validation("File too large")
	}
	return nil
}

// limitedCopy копирует не больше max байт; превышение, ошибка валидации.
func limitedCopy(dst io.Writer, src io.Reader, max int64) (int64, error) {
	n, err := io.Copy(dst, io.LimitReader(src, max+1))
	if err != nil {
		return n, err
	}
	if n > max {
		return n, apperr.Validation("File too large")
	}
	return n, nil
}

func dirFor(k Kind) string {
	switch k {
	case KindVideo:
		return "videos"
	case KindThumbnail:
		return "thumbnails"
	default:
		return "images"
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}
