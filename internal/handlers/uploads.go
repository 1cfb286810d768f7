package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"

	"blogplatform/internal/apperr"
	"blogplatform/internal/logger"
	"blogplatform/internal/storage"

	"go.uber.org/zap"
)

const maxFormMemory = 32 << 20

// form: разобранная multipart-форма запроса.
type form struct {
	r     *http.Request
	files storage.FileStorage
	saved []*storage.Stored
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func parseForm(r *http.Request, files storage.FileStorage) (*form, error) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		return nil, apperr.Validation("Invalid multipart form", err.Error())
	}
	return &form{r: r, files: files}, nil
}

// str возвращает nil, если поле не передано: для частичного обновления.
func (f *form) str(name string) *string {
	vals, ok := f.r.MultipartForm.Value[name]
	if !ok || len(vals) == 0 {
		return nil
	}
	v := vals[0]
	return &v
}

func (f *form) boolean(name string) *bool {
	v := f.str(name)
	if v == nil {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(*v))
	if err != nil {
		return nil
	}
	return &b
}

// list: значение через запятую превращается в срез из одного элемента,
// разбиение на теги делает сервис.
func (f *form) list(name string) *[]string {
	vals, ok := f.r.MultipartForm.Value[name]
	if !ok {
		return nil
	}
	out := append([]string{}, vals...)
	return &out
}

// save сохраняет файл поля field; nil, nil, файла в форме нет.
func (f *form) save(field string, kind storage.Kind) (*storage.Stored, error) {
	file, header, err := f.r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Validation("Invalid file field", field)
	}
	defer file.Close()

	st, err := f.files.Save(f.r.Context(), storage.Upload{
		Kind:     kind,
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Size:     header.Size,
		Body:     file,
	})
	if err != nil {
		return nil, err
	}
	f.saved = append(f.saved, st)
	return st, nil
}

// discard удаляет всё, что успели сохранить для этого запроса.
func (f *form) discard() {
	if f == nil {
		return
	}
	log := logger.WithCtx(f.r.Context())
	for _, st := range f.saved {
		if err := f.files.Delete(f.r.Context(), st.Path); err != nil {
			log.Warn("Не удалось удалить загруженный файл", zap.String("path", st.Path), zap.Error(err))
		}
	}
	f.saved = nil
}

type UploadHandler struct {
	base
	files storage.FileStorage
}

func NewUploadHandler(files storage.FileStorage, debug bool) *UploadHandler {
	return &UploadHandler{base: base{debug: debug}, files: files}
}

// Serve
// @Summary      Отдать загруженный файл
// @Tags         uploads
// @Produce      octet-stream
// @Param        path  path  string  true  "Путь файла"
// @Success      200
// @Failure      404  {object}  map[string]string
// @Router       /uploads/{path} [get]
func (h *UploadHandler) Serve(w http.ResponseWriter, r *http.Request) {
	p := pathVar(r, "path")
	rc, err := h.files.Open(r.Context(), p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	defer rc.Close()

	if ct := mime.TypeByExtension(path.Ext(p)); ct != "" {
		w.Header().Set("Content-Type", ct)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, rc); err != nil {
		logger.WithCtx(r.Context()).Warn("Обрыв отдачи файла", zap.String("path", p), zap.Error(err))
	}
}
