package handlers

import (
	"net/http"

	"blogplatform/internal/models"
	"blogplatform/internal/services"
	helpers "blogplatform/internal/utils/helpers"
)

// AdminHandler: настройки блога и модерация пользовательского контента.
type AdminHandler struct {
	base
	settings services.AdminSettingsService
	content  services.UserContentService
}

func NewAdminHandler(settings services.AdminSettingsService, content services.UserContentService, debug bool) *AdminHandler {
	return &AdminHandler{base: base{debug: debug}, settings: settings, content: content}
}

type moderationRequest struct {
	Notes    string `json:"notes"`
	Featured bool   `json:"featured"`
}

// GetSettings
// @Summary      Настройки администратора
// @Description  Публичный профиль автора блога; создаётся со значениями по умолчанию при первом чтении
// @Tags         admin
// @Produce      json
// @Success      200  {object}  models.AdminSettingsView
// @Router       /api/admin/settings [get]
func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Get(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "", helpers.Payload{"settings": s})
}

// UpdateSettings
// @Summary      Обновить настройки администратора
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body  models.AdminSettingsInput  true  "Настройки"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/admin/settings [put]
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var in models.AdminSettingsInput
	if err := helpers.DecodeJSON(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	s, err := h.settings.Update(r.Context(), actor(r), in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Admin settings updated successfully", helpers.Payload{"settings": s})
}

// ResetSettings
// @Summary      Сбросить настройки администратора
// @Tags         admin
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Security     ApiKeyAuth
// @Router       /api/admin/settings/reset [post]
func (h *AdminHandler) ResetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.settings.Reset(r.Context(), actor(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Admin settings reset to defaults successfully", helpers.Payload{"settings": s})
}

// PendingContent
// @Summary      Очередь модерации
// @Tags         admin
// @Produce      json
// @Param        page   query  int  false  "Страница"
// @Param        limit  query  int  false  "Размер страницы (по умолчанию вся очередь)"
// @Success      200  {object}  map[string]interface{}
// @Security     ApiKeyAuth
// @Router       /api/admin/content/pending [get]
func (h *AdminHandler) PendingContent(w http.ResponseWriter, r *http.Request) {
	list, err := h.content.PendingQueue(r.Context(), actor(r), queryInt(r, "page"), queryInt(r, "limit"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "", helpers.Payload{
		"content":    list.Content,
		"count":      list.Pagination.TotalItems,
		"pagination": list.Pagination,
	})
}

// ContentStats
// @Summary      Статистика модерации
// @Tags         admin
// @Produce      json
// @Success      200  {object}  models.ModerationStats
// @Security     ApiKeyAuth
// @Router       /api/admin/content/stats [get]
func (h *AdminHandler) ContentStats(w http.ResponseWriter, r *http.Request) {
	st, err := h.content.Stats(r.Context(), actor(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "", helpers.Payload{"stats": st})
}

// ApproveContent
// @Summary      Одобрить контент
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path  string             true   "ID записи"
// @Param        body  body  moderationRequest  false  "notes, featured"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/admin/content/{id}/approve [put]
func (h *AdminHandler) ApproveContent(w http.ResponseWriter, r *http.Request) {
	req, err := h.moderationBody(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.content.Approve(r.Context(), actor(r), pathVar(r, "id"), req.Notes, req.Featured)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Content approved successfully", helpers.Payload{"content": c})
}

// RejectContent
// @Summary      Отклонить контент
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID записи"
// @Param        body  body  moderationRequest  true  "notes, причина отказа"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/admin/content/{id}/reject [put]
func (h *AdminHandler) RejectContent(w http.ResponseWriter, r *http.Request) {
	req, err := h.moderationBody(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.content.Reject(r.Context(), actor(r), pathVar(r, "id"), req.Notes)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Content rejected", helpers.Payload{"content": c})
}

// PublishContent
// @Summary      Опубликовать одобренный контент
// @Tags         admin
// @Produce      json
// @Param        id  path  string  true  "ID записи"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Security     ApiKeyAuth
// @Router       /api/admin/content/{id}/publish [put]
func (h *AdminHandler) PublishContent(w http.ResponseWriter, r *http.Request) {
	c, err := h.content.Publish(r.Context(), actor(r), pathVar(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	helpers.JSON(w, http.StatusOK, "Content published successfully", helpers.Payload{"content": c})
}

// moderationBody допускает пустое тело: approve без заметок.
func (h *AdminHandler) moderationBody(r *http.Request) (moderationRequest, error) {
	var req moderationRequest
	if r.Body == nil || r.ContentLength == 0 {
		return req, nil
	}
	err := helpers.DecodeJSON(r, &req)
	return req, err
}
