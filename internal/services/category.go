package services

import (
	"context"
	"strings"

	"blogplatform/internal/apperr"
	"blogplatform/internal/logger"
	"blogplatform/internal/models"
	"blogplatform/internal/repository"
	"blogplatform/internal/utils"

	"go.uber.org/zap"
)

type CategoryService interface {
	List(ctx context.Context) ([]*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	Create(ctx context.Context, actor models.Actor, in models.CategoryInput) (*models.Category, error)
	Update(ctx context.Context, actor models.Actor, id string, in models.CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
	// UpdatePostCount пересчитывает число опубликованных постов категории.
	UpdatePostCount(ctx context.Context, id string) error
}

type categoryService struct {
	repo  repository.CategoryRepo
	clock Clock
}

func NewCategoryService(repo repository.CategoryRepo, clock Clock) CategoryService {
	return &categoryService{repo: repo, clock: clock}
}

func (s *categoryService) List(ctx context.Context) ([]*models.Category, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		logFail(logger.WithCtx(ctx), "Ошибка получения категорий (repo)", err)
		return nil, err
	}
	return list, nil
}

func (s *categoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *categoryService) GetByID(ctx context.Context, id string) (*models.Category, error) {
	return s.repo.GetByID(ctx, id)
}

func validateCategory(in models.CategoryInput, creating bool) error {
	var errs fieldErrors
	if creating || in.Name != nil {
		errs.check(trimmed(in.Name) != "", "Category name is required")
	}
	errs.maxLen(in.Name, 50, "Category name cannot exceed 50 characters")
	errs.maxLen(in.Description, 200, "Description cannot exceed 200 characters")
	return errs.err()
}

func (s *categoryService) Create(ctx context.Context, actor models.Actor, in models.CategoryInput) (*models.Category, error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание категории", zap.String("name", trimmed(in.Name)))

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateCategory(in, true); err != nil {
		log.Warn("Валидация категории не пройдена", zap.Error(err))
		return nil, err
	}

	now := s.clock.Now()
	c := &models.Category{
		ID:          newID(),
		Name:        trimmed(in.Name),
		Description: trimmed(in.Description),
		Color:       models.DefaultCategoryColor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if color := trimmed(in.Color); color != "" {
		c.Color = color
	}
	c.Slug = utils.Slugify(c.Name)

	if err := s.repo.Create(ctx, c); err != nil {
		if repository.IsConflictOn(err, repository.FieldName) || repository.IsConflictOn(err, repository.FieldSlug) {
			err = apperr.Conflict("Category already exists", repository.FieldName)
		}
		logFail(log, "Ошибка создания категории (repo)", err)
		return nil, err
	}

	log.Info("Категория создана", zap.String("category_id", c.ID), zap.String("slug", c.Slug))
	return c, nil
}

func (s *categoryService) Update(ctx context.Context, actor models.Actor, id string, in models.CategoryInput) (*models.Category, error) {
	log := logger.WithCtx(ctx)
	log.Info("Обновление категории", zap.String("category_id", id))

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := validateCategory(in, false); err != nil {
		log.Warn("Валидация категории не пройдена", zap.Error(err))
		return nil, err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logFail(log, "Категория не найдена", err)
		return nil, err
	}
	if name := trimmed(in.Name); name != "" && name != c.Name {
		c.Name = name
		c.Slug = utils.Slugify(name)
	}
	if in.Description != nil {
		c.Description = strings.TrimSpace(*in.Description)
	}
	if color := trimmed(in.Color); color != "" {
		c.Color = color
	}
	c.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, c); err != nil {
		if repository.IsConflictOn(err, repository.FieldName) || repository.IsConflictOn(err, repository.FieldSlug) {
			err = apperr.Conflict("Category already exists", repository.FieldName)
		}
		logFail(log, "Ошибка обновления категории (repo)", err)
		return nil, err
	}
	return c, nil
}

func (s *categoryService) Delete(ctx context.Context, actor models.Actor, id string) error {
	log := logger.WithCtx(ctx)
	log.Info("Удаление категории", zap.String("category_id", id))

	if err := requireAdmin(actor); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		logFail(log, "Ошибка удаления категории (repo)", err)
		return err
	}
	return nil
}

func (s *categoryService) UpdatePostCount(ctx context.Context, id string) error {
	n, err := s.repo.RefreshPostCount(ctx, id)
	if err != nil {
		logFail(logger.WithCtx(ctx), "Ошибка пересчёта постов категории", err)
		return err
	}
	logger.WithCtx(ctx).Debug("Счётчик постов категории обновлён", zap.String("category_id", id), zap.Int("post_count", n))
	return nil
}
