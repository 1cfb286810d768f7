package handlers

import (
	"net/http"

	"blogplatform/internal/models"
	"blogplatform/internal/services"
	helpers "blogplatform/internal/utils/helpers"
)

type CategoryHandler struct {
	base
	svc services.CategoryService
}

func NewCategoryHandler(svc services.CategoryService, debug bool) *CategoryHandler {
	return &CategoryHandler{base: base{debug: debug}, svc: svc}
}

// List
// @Summary      Категории
// @Tags         categories
// @Produce      json
// @Success      200  {array}  models.Category
// @Router       /api/categories [get]
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "", helpers.Payload{"categories": list})
}

// GetBySlug
// @Summary      Категория по slug
// @Tags         categories
// @Produce      json
// @Param        slug  path  string  true  "Slug"
// @Success      200  {object}  models.Category
// @Failure      404  {object}  map[string]string
// @Router       /api/categories/{slug} [get]
func (h *CategoryHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.GetBySlug(r.Context(), pathVar(r, "slug"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "", helpers.Payload{"category": c})
}

// Create
// @Summary      Создать категорию
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        body  body  models.CategoryInput  true  "Категория"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Security     ApiKeyAuth
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if err := helpers.DecodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.svc.Create(r.Context(), actor(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusCreated, "Category created successfully", helpers.Payload{"category": c})
}

// Update
// @Summary      Изменить категорию
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID категории"
// @Param        body  body  models.CategoryInput  true  "Поля"
// @Success      200  {object}  map[string]interface{}
// @Security     ApiKeyAuth
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if err := helpers.DecodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.svc.Update(r.Context(), actor(r), pathVar(r, "id"), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Category updated successfully", helpers.Payload{"category": c})
}

// Delete
// @Summary      Удалить категорию
// @Tags         categories
// @Produce      json
// @Param        id  path  string  true  "ID категории"
// @Success      200  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), actor(r), pathVar(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Category deleted successfully", nil)
}
