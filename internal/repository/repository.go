package repository

import (
	"context"
	"time"

	"blogplatform/internal/models"
)

// Поля уникальных ограничений, которые репозитории кладут в детали Conflict.
const (
	FieldSlug = "slug"
	FieldName = "name"
)

type PostRepo interface {
	Create(ctx context.Context, p *models.Post) error
	GetByID(ctx context.Context, id string) (*models.Post, error)
	GetBySlug(ctx context.Context, slug string) (*models.Post, error)
	// GetByIDs возвращает найденные посты в порядке ids, отсутствующие пропускаются.
	GetByIDs(ctx context.Context, ids []string) ([]*models.Post, error)
	Update(ctx context.Context, p *models.Post) error
	// Delete удаляет пост вместе с комментариями и лайками одной транзакцией.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f models.PostFilter) ([]*models.Post, int, error)
	IncrementViews(ctx context.Context, id string) (int, error)
}

type CommentRepo interface {
	// Create сохраняет комментарий и, если это ответ, дописывает его id
	// в reply_ids родителя в той же транзакции.
	Create(ctx context.Context, c *models.Comment) error
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	Update(ctx context.Context, c *models.Comment) error
	SetStatus(ctx context.Context, id string, status models.CommentStatus, at time.Time) (*models.Comment, error)
	// Delete каскадно удаляет ответы, затем сам комментарий и ссылку на него у родителя.
	// Возвращает число удалённых записей.
	Delete(ctx context.Context, id string) (int, error)
	ListTopLevel(ctx context.Context, target models.Target, status models.CommentStatus, page models.Page) ([]*models.Comment, int, error)
	ListReplies(ctx context.Context, parentIDs []string, onlyApproved bool) ([]*models.Comment, error)
	ListAll(ctx context.Context, f models.CommentFilter) ([]*models.Comment, int, error)
	CountApproved(ctx context.Context, targetType models.TargetType, ids []string) (map[string]int, error)
}

type UserContentRepo interface {
	Create(ctx context.Context, c *models.UserContent) error
	GetByID(ctx context.Context, id string) (*models.UserContent, error)
	GetBySlug(ctx context.Context, slug string) (*models.UserContent, error)
	// Save пишет запись, только если её статус в хранилище всё ещё expected;
	// иначе InvalidState. Так переходы модерации не перетирают друг друга.
	Save(ctx context.Context, c *models.UserContent, expected models.ContentStatus) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f models.UserContentFilter) ([]*models.UserContent, int, error)
	IncrementViews(ctx context.Context, id string) (int, error)
	Stats(ctx context.Context) (models.ModerationStats, error)
}

// LikeRepo хранит леджер лайков, одна строка на (сущность, пользователь).
type LikeRepo interface {
	Toggle(ctx context.Context, target models.Target, userID string, at time.Time) (models.LikeResult, error)
	ListFor(ctx context.Context, targetType models.TargetType, ids []string) (map[string]models.LikeSet, error)
}

type CategoryRepo interface {
	Create(ctx context.Context, c *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	List(ctx context.Context) ([]*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id string) error
	// RefreshPostCount пересчитывает число опубликованных постов категории.
	RefreshPostCount(ctx context.Context, id string) (int, error)
}

type AdminSettingsRepo interface {
	// GetOrCreate: единственный путь создания записи настроек.
	GetOrCreate(ctx context.Context, defaults *models.AdminSettings) (*models.AdminSettings, error)
	Save(ctx context.Context, s *models.AdminSettings) error
}
