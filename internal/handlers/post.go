package handlers

import (
	"net/http"

	"blogplatform/internal/logger"
	"blogplatform/internal/models"
	"blogplatform/internal/services"
	"blogplatform/internal/storage"
	helpers "blogplatform/internal/utils/helpers"

	"go.uber.org/zap"
)

type PostHandler struct {
	base
	svc   services.PostService
	files storage.FileStorage
}

func NewPostHandler(svc services.PostService, files storage.FileStorage, debug bool) *PostHandler {
	return &PostHandler{base: base{debug: debug}, svc: svc, files: files}
}

// readInput принимает и JSON, и multipart-форму с полем featuredImage.
func (h *PostHandler) readInput(r *http.Request) (models.PostInput, *form, error) {
	var in models.PostInput
	if !isMultipart(r) {
		return in, nil, helpers.DecodeJSON(r, &in)
	}
	f, err := parseForm(r, h.files)
	if err != nil {
		return in, nil, err
	}
	in = models.PostInput{
		Title:           f.str("title"),
		Content:         f.str("content"),
		Excerpt:         f.str("excerpt"),
		CategoryID:      f.str("category"),
		Tags:            f.list("tags"),
		Status:          f.str("status"),
		Featured:        f.boolean("featured"),
		CommentsEnabled: f.boolean("commentsEnabled"),
	}
	img, err := f.save("featuredImage", storage.KindImage)
	if err != nil {
		return in, f, err
	}
	if img != nil {
		in.FeaturedImage = &img.URL
	}
	return in, f, nil
}

// List
// @Summary      Список опубликованных постов
// @Tags         posts
// @Produce      json
// @Param        page      query  int     false  "Страница"
// @Param        limit     query  int     false  "Размер страницы"
// @Param        category  query  string  false  "Slug категории"
// @Param        tag       query  string  false  "Тег"
// @Param        author    query  string  false  "ID автора"
// @Param        search    query  string  false  "Поиск"
// @Param        sort      query  string  false  "newest|oldest|views|likes"
// @Param        status    query  string  false  "all, вместе с черновиками (только свои)"
// @Success      200  {object}  models.PostList
// @Router       /api/posts [get]
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.svc.List(r.Context(), actor(r), services.PostQuery{
		Page:     queryInt(r, "page"),
		Limit:    queryInt(r, "limit"),
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Author:   q.Get("author"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
		Status:   q.Get("status"),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "", helpers.Payload{"posts": list.Posts, "pagination": list.Pagination})
}

// Featured
// @Summary      Избранные посты
// @Tags         posts
// @Produce      json
// @Param        limit  query  int  false  "Количество (по умолчанию 5)"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/posts/featured [get]
func (h *PostHandler) Featured(w http.ResponseWriter, r *http.Request) {
	posts, err := h.svc.Featured(r.Context(), queryInt(r, "limit"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "", helpers.Payload{"posts": posts})
}

// GetBySlug
// @Summary      Пост по slug
// @Description  Увеличивает счётчик просмотров
// @Tags         posts
// @Produce      json
// @Param        slug  path  string  true  "Slug"
// @Success      200  {object}  models.PostView
// @Failure      404  {object}  map[string]string
// @Router       /api/posts/{slug} [get]
func (h *PostHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetBySlug(r.Context(), actor(r), pathVar(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "", helpers.Payload{"post": p})
}

// Create
// @Summary      Создать пост
// @Tags         posts
// @Accept       json,mpfd
// @Produce      json
// @Param        body  body  models.PostInput  true  "Данные поста"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Security     ApiKeyAuth
// @Router       /api/posts [post]
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, f, err := h.readInput(r)
	if err != nil {
		f.discard()
		h.fail(w, r, err)
		return
	}
	p, err := h.svc.Create(r.Context(), actor(r), in)
	if err != nil {
		f.discard()
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, "Post created successfully", helpers.Payload{"post": p})
}

// Update
// @Summary      Изменить пост
// @Tags         posts
// @Accept       json,mpfd
// @Produce      json
// @Param        id    path  string            true  "ID поста"
// @Param        body  body  models.PostInput  true  "Изменяемые поля"
// @Success      200  {object}  map[string]interface{}
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/posts/{id} [put]
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	in, f, err := h.readInput(r)
	if err != nil {
		f.discard()
		h.fail(w, r, err)
		return
	}
	p, err := h.svc.Update(r.Context(), actor(r), pathVar(r, "id"), in)
	if err != nil {
		f.discard()
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Post updated successfully", helpers.Payload{"post": p})
}

// Delete
// @Summary      Удалить пост
// @Description  Удаляет пост вместе с комментариями и лайками
// @Tags         posts
// @Produce      json
// @Param        id  path  string  true  "ID поста"
// @Success      200  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/posts/{id} [delete]
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := pathVar(r, "id")
	if err := h.svc.Delete(r.Context(), actor(r), id); err != nil {
		h.fail(w, r, err)
		return
	}
	logger.WithCtx(r.Context()).Info("Пост удалён через API", zap.String("post_id", id))
	helpers.JSON(w, http.StatusOK, "Post deleted successfully", nil)
}

// ToggleLike
// @Summary      Лайк / снять лайк
// @Tags         posts
// @Produce      json
// @Param        id  path  string  true  "ID поста"
// @Success      200  {object}  models.LikeResult
// @Security     ApiKeyAuth
// @Router       /api/posts/{id}/like [post]
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ToggleLike(r.Context(), actor(r), pathVar(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	msg := "Post unliked"
	if res.Liked {
		msg = "Post liked"
	}
	helpers.JSON(w, http.StatusOK, msg, helpers.Payload{"liked": res.Liked, "likeCount": res.LikeCount})
}
