// Package moderation: машина состояний пользовательского контента.
//
//	(create) -> pending
//	pending  --Approve--> approved --Publish--> published
//	pending  --Reject-->  rejected --edit автором--> pending
//
// Правка админом статус не меняет. draft в переходах не участвует.
package moderation

import (
	"strings"
	"time"

	"blogplatform/internal/apperr"
	"blogplatform/internal/models"
)

// Initial: статус любой новой записи.
const Initial = models.StatusPending

// Approve одобряет запись из очереди модерации.
func Approve(c *models.UserContent, moderatorID, notes string, featured bool, now time.Time) error {
	if c.Status != models.StatusPending {
		return apperr.InvalidState("Only pending content can be approved")
	}
	c.Status = models.StatusApproved
	if c.PublishedAt == nil {
		c.PublishedAt = &now
	}
	stamp(c, moderatorID, strings.TrimSpace(notes), now)
	if featured {
		c.Featured = true
	}
	return nil
}

// Reject отклоняет запись из очереди, причина обязательна.
func Reject(c *models.UserContent, moderatorID, notes string, now time.Time) error {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return apperr.Validation("Rejection reason is required")
	}
	if c.Status != models.StatusPending {
		return apperr.InvalidState("Only pending content can be rejected")
	}
	c.Status = models.StatusRejected
	stamp(c, moderatorID, notes, now)
	return nil
}

// Publish переводит одобренный контент в published. Только для админа.
func Publish(c *models.UserContent, moderatorID string, now time.Time) error {
	if c.Status != models.StatusApproved {
		return apperr.InvalidState("Only approved content can be published")
	}
	c.Status = models.StatusPublished
	if c.PublishedAt == nil {
		c.PublishedAt = &now
	}
	id := moderatorID
	c.ModeratedBy = &id
	c.ModeratedAt = &now
	c.UpdatedAt = now
	return nil
}

// CheckEditable проверяет, может ли actor менять запись в текущем статусе.
func CheckEditable(c *models.UserContent, actor models.Actor) error {
	if !actor.CanManage(c.AuthorID) {
		return apperr.Forbidden("Not authorized to update this content")
	}
	if actor.IsAdmin() {
		return nil
	}
	if c.Status == models.StatusApproved || c.Status == models.StatusPublished {
		return apperr.InvalidState("Cannot edit approved or published content")
	}
	return nil
}

// ApplyEdit вызывается после изменения полей. Правка отклонённого контента
// автором отправляет его на повторную модерацию. Возвращает true при пересабмите.
func ApplyEdit(c *models.UserContent, actor models.Actor, now time.Time) bool {
	c.UpdatedAt = now
	if actor.IsAdmin() || c.Status != models.StatusRejected {
		return false
	}
	c.Status = models.StatusPending
	c.ModerationNotes = ""
	return true
}

// IsPublic: статусы, видимые без прав администратора.
func IsPublic(s models.ContentStatus) bool {
	return s == models.StatusApproved || s == models.StatusPublished
}

var PublicStatuses = []models.ContentStatus{models.StatusApproved, models.StatusPublished}

// HidesModeration: в этих статусах заметки модератора скрыты от не-админов.
func HidesModeration(s models.ContentStatus) bool {
	return s == models.StatusPending || s == models.StatusRejected
}

// CommentStatus переводит флаг одобрения в статус комментария.
func CommentStatus(approved bool) models.CommentStatus {
	if approved {
		return models.CommentApproved
	}
	return models.CommentRejected
}

func stamp(c *models.UserContent, moderatorID, notes string, now time.Time) {
	id := moderatorID
	c.ModeratedBy = &id
	c.ModeratedAt = &now
	c.ModerationNotes = notes
	c.UpdatedAt = now
}
