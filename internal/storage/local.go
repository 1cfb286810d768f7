package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"blogplatform/internal/apperr"
)

// LocalStorage кладёт файлы в root/{images,videos,thumbnails}.
type LocalStorage struct {
	root      string
	urlPrefix string
	limits    Limits
}

func NewLocalStorage(root string, limits Limits) (*LocalStorage, error) {
	for _, k := range []Kind{KindImage, KindVideo, KindThumbnail} {
		if err := os.MkdirAll(filepath.Join(root, dirFor(k)), os.ModePerm); err != nil {
			return nil, err
		}
	}
	return &LocalStorage{root: root, urlPrefix: "/uploads", limits: limits}, nil
}

func (s *LocalStorage) Save(ctx context.Context, u Upload) (*Stored, error) {
	if err := Validate(u, s.limits); err != nil {
		return nil, err
	}
	name := string(u.Kind) + "-" + uuid.NewString() + ext(u.Filename)
	rel := path.Join(dirFor(u.Kind), name)
	full := filepath.Join(s.root, filepath.FromSlash(rel))

	dst, err := os.Create(full)
	if err != nil {
		return nil, apperr.Wrap(err, "create upload file")
	}
	size, err := limitedCopy(dst, u.Body, s.limits.maxFor(u.Kind))
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(full)
		return nil, apperr.Wrap(err, "write upload file")
	}

	return &Stored{
		Filename:     name,
		OriginalName: u.Filename,
		MimeType:     u.MimeType,
		Size:         size,
		Path:         rel,
		URL:          s.urlPrefix + "/" + rel,
	}, nil
}

func (s *LocalStorage) Open(_ context.Context, p string) (io.ReadCloser, error) {
	full, err := s.resolve(p)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, apperr.NotFound("File not found")
	}
	if err != nil {
		return nil, apperr.Wrap(err, "open upload file")
	}
	return f, nil
}

func (s *LocalStorage) Delete(_ context.Context, p string) error {
	if p == "" || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return nil
	}
	full, err := s.resolve(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperr.Wrap(err, "delete upload file")
	}
	return nil
}

// resolve не выпускает путь за пределы root.
func (s *LocalStorage) resolve(p string) (string, error) {
	p = strings.TrimPrefix(p, s.urlPrefix+"/")
	clean := path.Clean("/" + p)[1:]
	if clean == "" || strings.HasPrefix(clean, "..") {
		return "", apperr.Validation("Invalid file path")
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}
