package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"blogplatform/internal/apperr"
	"blogplatform/internal/models"
	"blogplatform/internal/services"
	helpers "blogplatform/internal/utils/helpers"
)

type CommentHandler struct {
	base
	svc services.CommentService
}

func NewCommentHandler(svc services.CommentService, debug bool) *CommentHandler {
	return &CommentHandler{base: base{debug: debug}, svc: svc}
}

type createCommentRequest struct {
	Content       string  `json:"content"`
	PostID        string  `json:"post"`
	ParentComment *string `json:"parentComment"`
}

type updateCommentRequest struct {
	Content string `json:"content"`
}

type approveCommentRequest struct {
	IsApproved *bool `json:"isApproved"`
}

// ListForPost
// @Summary      Комментарии поста
// @Description  Одобренные комментарии верхнего уровня с вложенными ответами
// @Tags         comments
// @Produce      json
// @Param        postId  path   string  true   "ID поста"
// @Param        page    query  int     false  "Страница"
// @Param        limit   query  int     false  "Размер страницы"
// @Success      200  {object}  models.CommentList
// @Router       /api/comments/post/{postId} [get]
func (h *CommentHandler) ListForPost(w http.ResponseWriter, r *http.Request) {
	target := models.Target{Type: models.TargetPost, ID: pathVar(r, "postId")}
	list, err := h.svc.ListForTarget(r.Context(), actor(r), target, queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "", helpers.Payload{"comments": list.Comments, "pagination": list.Pagination})
}

// Create
// @Summary      Оставить комментарий
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        body  body  createCommentRequest  true  "Комментарий"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/comments [post]
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.PostID == "" {
		h.fail(w, r, apperr.Validation("Validation failed", "Valid post ID is required"))
		return
	}
	c, err := h.svc.Create(r.Context(), actor(r), models.Target{Type: models.TargetPost, ID: req.PostID}, services.CommentInput{
		Content:         req.Content,
		ParentCommentID: req.ParentComment,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, "Comment created successfully", helpers.Payload{"comment": c})
}

// Update
// @Summary      Изменить комментарий
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID комментария"
// @Param        body  body  updateCommentRequest  true  "Новый текст"
// @Success      200  {object}  map[string]interface{}
// @Security     ApiKeyAuth
// @Router       /api/comments/{id} [put]
func (h *CommentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateCommentRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.svc.Update(r.Context(), actor(r), pathVar(r, "id"), req.Content)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Comment updated successfully", helpers.Payload{"comment": c})
}

// Delete
// @Summary      Удалить комментарий
// @Description  Вместе с комментарием удаляются все ответы на него
// @Tags         comments
// @Produce      json
// @Param        id  path  string  true  "ID комментария"
// @Success      200  {object}  map[string]interface{}
// @Security     ApiKeyAuth
// @Router       /api/comments/{id} [delete]
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Delete(r.Context(), actor(r), pathVar(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Comment deleted successfully", helpers.Payload{"deleted": n})
}

// ToggleLike
// @Summary      Лайк комментария
// @Tags         comments
// @Produce      json
// @Param        id  path  string  true  "ID комментария"
// @Success      200  {object}  models.LikeResult
// @Security     ApiKeyAuth
// @Router       /api/comments/{id}/like [post]
func (h *CommentHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.ToggleLike(r.Context(), actor(r), pathVar(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	msg := "Comment unliked"
	if res.Liked {
		msg = "Comment liked"
	}
	helpers.JSON(w, http.StatusOK, msg, helpers.Payload{"liked": res.Liked, "likeCount": res.LikeCount})
}

// ListAll
// @Summary      Все комментарии (админ)
// @Tags         comments
// @Produce      json
// @Param        approved  query  bool    false  "Фильтр по одобрению"
// @Param        search    query  string  false  "Поиск по тексту"
// @Param        page      query  int     false  "Страница"
// @Param        limit     query  int     false  "Размер страницы"
// @Success      200  {object}  models.CommentList
// @Security     ApiKeyAuth
// @Router       /api/comments [get]
func (h *CommentHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	q := services.CommentQuery{
		Search: r.URL.Query().Get("search"),
		Page:   queryInt(r, "page"),
		Limit:  queryInt(r, "limit"),
	}
	if raw := r.URL.Query().Get("approved"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.fail(w, r, apperr.Validation("Invalid approved filter"))
			return
		}
		q.Approved = &v
	}
	list, err := h.svc.ListAll(r.Context(), actor(r), q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "", helpers.Payload{"comments": list.Comments, "pagination": list.Pagination})
}

// SetApproval
// @Summary      Одобрить / скрыть комментарий
// @Tags         comments
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID комментария"
// @Param        body  body  approveCommentRequest  true  "isApproved"
// @Success      200  {object}  map[string]interface{}
// @Security     ApiKeyAuth
// @Router       /api/comments/{id}/approve [put]
func (h *CommentHandler) SetApproval(w http.ResponseWriter, r *http.Request) {
	var req approveCommentRequest
	if err := helpers.DecodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.IsApproved == nil {
		h.fail(w, r, apperr.Validation("Validation failed", "isApproved is required"))
		return
	}
	c, err := h.svc.SetApproval(r.Context(), actor(r), pathVar(r, "id"), *req.IsApproved)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	verb := "disapproved"
	if *req.IsApproved {
		verb = "approved"
	}
	helpers.JSON(w, http.StatusOK, fmt.Sprintf("Comment %s successfully", verb), helpers.Payload{"comment": c})
}
