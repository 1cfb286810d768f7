package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"blogplatform/internal/apperr"
	"blogplatform/internal/models"
	"blogplatform/internal/repository"
	"blogplatform/internal/storage"
	"blogplatform/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Clock: источник времени; в тестах подменяется фиксированным.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock: часы по умолчанию.
var SystemClock Clock = systemClock{}

// maxSlugAttempts ограничивает перебор суффиксов -1, -2, ...
const maxSlugAttempts = 1000

// withUniqueSlug сохраняет запись, перебирая slug-кандидаты, пока хранилище
// отвечает конфликтом именно по slug.
func withUniqueSlug(title string, save func(slug string) error) error {
	base := utils.Slugify(title)
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		err := save(utils.SlugCandidate(base, attempt))
		if err == nil || !repository.IsConflictOn(err, repository.FieldSlug) {
			return err
		}
	}
	return apperr.Conflict("Could not generate a unique slug", repository.FieldSlug)
}

// fieldErrors копит ошибки валидации полей.
type fieldErrors []string

func (f *fieldErrors) check(ok bool, msg string) {
	if !ok {
		*f = append(*f, msg)
	}
}

func (f *fieldErrors) maxLen(s *string, max int, msg string) {
	if s != nil {
		f.check(utf8.RuneCountInString(strings.TrimSpace(*s)) <= max, msg)
	}
}

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return apperr.Validation("Validation failed", f...)
}

func requireAuth(actor models.Actor) error {
	if !actor.IsAuthenticated() {
		return apperr.Forbidden("Authentication required")
	}
	return nil
}

func requireAdmin(actor models.Actor) error {
	if !actor.IsAdmin() {
		return apperr.Forbidden("Admin access required")
	}
	return nil
}

// logFail: Warn для доменных ошибок, Error для сбоев хранилища.
func logFail(log *zap.Logger, msg string, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		log.Error(msg, zap.Error(err))
		return
	}
	log.Warn(msg, zap.Error(err))
}

// removeFiles удаляет загруженные файлы; ошибки только логируются.
func removeFiles(ctx context.Context, log *zap.Logger, files storage.FileStorage, paths ...string) {
	if files == nil {
		return
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := files.Delete(ctx, p); err != nil {
			log.Warn("Не удалось удалить файл", zap.String("path", p), zap.Error(err))
		}
	}
}

func newID() string { return uuid.NewString() }

func trimmed(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}
