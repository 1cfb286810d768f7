package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"blogplatform/internal/apperr"
	"blogplatform/internal/models"
	"blogplatform/internal/services"
	"blogplatform/internal/storage"
	helpers "blogplatform/internal/utils/helpers"
)

type UserContentHandler struct {
	base
	svc   services.UserContentService
	files storage.FileStorage
}

func NewUserContentHandler(svc services.UserContentService, files storage.FileStorage, debug bool) *UserContentHandler {
	return &UserContentHandler{base: base{debug: debug}, svc: svc, files: files}
}

type contentCommentRequest struct {
	Content string `json:"content"`
}

// readInput: JSON или multipart с полями video, featuredImage, thumbnail.
// Возвращённая форма нужна только для отката загрузок при ошибке разбора.
func (h *UserContentHandler) readInput(r *http.Request) (models.UserContentInput, *form, error) {
	var in models.UserContentInput
	if !isMultipart(r) {
		return in, nil, helpers.DecodeJSON(r, &in)
	}
	f, err := parseForm(r, h.files)
	if err != nil {
		return in, nil, err
	}
	in = models.UserContentInput{
		Title:           f.str("title"),
		Description:     f.str("description"),
		ContentType:     f.str("contentType"),
		TextContent:     f.str("textContent"),
		Category:        f.str("category"),
		Tags:            f.list("tags"),
		VideoURL:        f.str("videoUrl"),
		MetaTitle:       f.str("metaTitle"),
		MetaDescription: f.str("metaDescription"),
		Featured:        f.boolean("featured"),
	}
	if raw := f.str("externalLinks"); raw != nil && strings.TrimSpace(*raw) != "" {
		var links []models.ExternalLink
		if err := json.Unmarshal([]byte(*raw), &links); err != nil {
			return in, f, apperr.Validation("Validation failed", "externalLinks must be a JSON array")
		}
		in.ExternalLinks = &links
	}

	video, err := f.save("video", storage.KindVideo)
	if err != nil {
		return in, f, err
	}
	if video != nil {
		in.VideoFile = &models.VideoFile{
			Filename:     video.Filename,
			OriginalName: video.OriginalName,
			MimeType:     video.MimeType,
			Size:         video.Size,
			Path:         video.Path,
			URL:          video.URL,
		}
	}
	img, err := f.save("featuredImage", storage.KindImage)
	if err != nil {
		return in, f, err
	}
	if img != nil {
		in.FeaturedImage = &img.URL
	}
	thumb, err := f.save("thumbnail", storage.KindThumbnail)
	if err != nil {
		return in, f, err
	}
	if thumb != nil {
		in.Thumbnail = &thumb.URL
	}
	return in, f, nil
}

func (h *UserContentHandler) list(w http.ResponseWriter, list *models.UserContentList) {
	helpers.JSON(w, http.StatusOK, "", helpers.Payload{"content": list.Content, "pagination": list.Pagination})
}

// ListPublic
// @Summary      Одобренный пользовательский контент
// @Tags         user-content
// @Produce      json
// @Param        page         query  int     false  "Страница"
// @Param        limit        query  int     false  "Размер страницы (по умолчанию 12)"
// @Param        category     query  string  false  "Категория или all"
// @Param        contentType  query  string  false  "text|video|all"
// @Param        featured     query  bool    false  "Только избранное"
// @Param        author       query  string  false  "ID автора"
// @Param        search       query  string  false  "Поиск"
// @Success      200  {object}  models.UserContentList
// @Router       /api/user-content [get]
func (h *UserContentHandler) ListPublic(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.svc.ListPublic(r.Context(), actor(r), services.UserContentQuery{
		Page:        queryInt(r, "page"),
		Limit:       queryInt(r, "limit"),
		Category:    q.Get("category"),
		ContentType: q.Get("contentType"),
		Search:      q.Get("search"),
		Featured:    queryBool(r, "featured"),
		Author:      q.Get("author"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.list(w, list)
}

// GetBySlug
// @Summary      Контент по slug
// @Tags         user-content
// @Produce      json
// @Param        slug  path  string  true  "Slug"
// @Success      200  {object}  models.UserContentView
// @Failure      404  {object}  map[string]string
// @Router       /api/user-content/{slug} [get]
func (h *UserContentHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetBySlug(r.Context(), actor(r), pathVar(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "", helpers.Payload{"content": c})
}

// ListMine
// @Summary      Мой контент
// @Tags         user-content
// @Produce      json
// @Param        status  query  string  false  "Статус или all"
// @Param        page    query  int     false  "Страница"
// @Param        limit   query  int     false  "Размер страницы"
// @Success      200  {object}  models.UserContentList
// @Security     ApiKeyAuth
// @Router       /api/user-content/my/content [get]
func (h *UserContentHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListMine(r.Context(), actor(r), r.URL.Query().Get("status"), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.list(w, list)
}

// Create
// @Summary      Загрузить контент
// @Description  Новая запись всегда попадает в очередь модерации
// @Tags         user-content
// @Accept       mpfd,json
// @Produce      json
// @Param        title        formData  string  true   "Заголовок"
// @Param        description  formData  string  true   "Описание"
// @Param        contentType  formData  string  true   "text|video"
// @Param        category     formData  string  true   "Категория"
// @Param        textContent  formData  string  false  "Текст статьи"
// @Param        videoUrl     formData  string  false  "Внешняя ссылка на видео"
// @Param        video        formData  file    false  "Видео"
// @Param        featuredImage formData file    false  "Обложка"
// @Param        thumbnail    formData  file    false  "Превью видео"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Security     ApiKeyAuth
// @Router       /api/user-content [post]
func (h *UserContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, f, err := h.readInput(r)
	if err != nil {
		f.discard()
		h.fail(w, r, err)
		return
	}
	// после передачи в сервис откат загрузок на его стороне
	c, err := h.svc.Create(r.Context(), actor(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, "Content uploaded successfully and is pending approval", helpers.Payload{"content": c})
}

// Update
// @Summary      Изменить контент
// @Description  Правка отклонённой записи автором возвращает её в очередь модерации
// @Tags         user-content
// @Accept       mpfd,json
// @Produce      json
// @Param        id  path  string  true  "ID записи"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Security     ApiKeyAuth
// @Router       /api/user-content/{id} [put]
func (h *UserContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, f, err := h.readInput(r)
	if err != nil {
		f.discard()
		h.fail(w, r, err)
		return
	}
	c, err := h.svc.Update(r.Context(), actor(r), pathVar(r, "id"), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Content updated successfully", helpers.Payload{"content": c})
}

// Delete
// @Summary      Удалить контент
// @Tags         user-content
// @Produce      json
// @Param        id  path  string  true  "ID записи"
// @Success      200  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/user-content/{id} [delete]
func (h *UserContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), actor(r), pathVar(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Content deleted successfully", nil)
}

// ToggleLike
// @Summary      Лайк контента
// @Tags         user-content
// @Produce      json
// @Param        id  path  string  true  "ID записи"
// @Success      200  {object}  models.LikeResult
// @Security     ApiKeyAuth
// @Router       /api/user-content/{id}/like [post]
func (h *UserContentHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ToggleLike(r.Context(), actor(r), pathVar(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	msg := "Like removed"
	if res.Liked {
		msg = "Content liked"
	}
	helpers.JSON(w, http.StatusOK, msg, helpers.Payload{"liked": res.Liked, "likeCount": res.LikeCount})
}

// AddComment
// @Summary      Комментарий к контенту
// @Description  Комментарий ждёт одобрения модератора
// @Tags         user-content
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID записи"
// @Param        body  body  contentCommentRequest  true  "Текст"
// @Success      201  {object}  map[string]interface{}
// @Security     ApiKeyAuth
// @Router       /api/user-content/{id}/comment [post]
func (h *UserContentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req contentCommentRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	c, count, err := h.svc.AddComment(r.Context(), actor(r), pathVar(r, "id"), req.Content)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, "Comment added successfully and is pending approval", helpers.Payload{
		"comment":      c,
		"commentCount": count,
	})
}

// ListComments
// @Summary      Комментарии к контенту
// @Tags         user-content
// @Produce      json
// @Param        id     path   string  true   "ID записи"
// @Param        page   query  int     false  "Страница"
// @Param        limit  query  int     false  "Размер страницы"
// @Success      200  {object}  models.CommentList
// @Router       /api/user-content/{id}/comments [get]
func (h *UserContentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.ListComments(r.Context(), actor(r), pathVar(r, "id"), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "", helpers.Payload{"comments": list.Comments, "pagination": list.Pagination})
}
