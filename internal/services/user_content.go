package services

import (
	"context"
	"strings"

	"blogplatform/internal/apperr"
	"blogplatform/internal/logger"
	"blogplatform/internal/models"
	"blogplatform/internal/moderation"
	"blogplatform/internal/repository"
	"blogplatform/internal/storage"
	"blogplatform/internal/utils"

	"go.uber.org/zap"
)

const (
	defaultContentLimit   = 12
	defaultMyContentLimit = 10
)

// UserContentQuery: параметры публичного списка; "all" в Category/ContentType снимает фильтр.
type UserContentQuery struct {
	Page        int
	Limit       int
	Category    string
	ContentType string
	Search      string
	Featured    bool
	Author      string
}

type UserContentService interface {
	Create(ctx context.Context, actor models.Actor, in models.UserContentInput) (*models.UserContentView, error)
	Update(ctx context.Context, actor models.Actor, id string, in models.UserContentInput) (*models.UserContentView, error)
	Delete(ctx context.Context, actor models.Actor, id string) error
	ListPublic(ctx context.Context, actor models.Actor, q UserContentQuery) (*models.UserContentList, error)
	ListMine(ctx context.Context, actor models.Actor, status string, page, limit int) (*models.UserContentList, error)
	GetBySlug(ctx context.Context, actor models.Actor, slug string) (*models.UserContentView, error)
	ToggleLike(ctx context.Context, actor models.Actor, id string) (models.LikeResult, error)
	// AddComment возвращает созданный комментарий и текущий commentCount.
	AddComment(ctx context.Context, actor models.Actor, id, content string) (*models.CommentView, int, error)
	ListComments(ctx context.Context, actor models.Actor, id string, page, limit int) (*models.CommentList, error)

	PendingQueue(ctx context.Context, actor models.Actor, page, limit int) (*models.UserContentList, error)
	Approve(ctx context.Context, actor models.Actor, id, notes string, featured bool) (*models.UserContentView, error)
	Reject(ctx context.Context, actor models.Actor, id, notes string) (*models.UserContentView, error)
	Publish(ctx context.Context, actor models.Actor, id string) (*models.UserContentView, error)
	Stats(ctx context.Context, actor models.Actor) (models.ModerationStats, error)
}

type userContentService struct {
	repo     repository.UserContentRepo
	likes    repository.LikeRepo
	comments CommentService
	files    storage.FileStorage
	clock    Clock
}

func NewUserContentService(
	repo repository.UserContentRepo,
	likes repository.LikeRepo,
	comments CommentService,
	files storage.FileStorage,
	clock Clock,
) UserContentService {
	return &userContentService{repo: repo, likes: likes, comments: comments, files: files, clock: clock}
}

func validateUserContent(in models.UserContentInput, creating bool) error {
	var errs fieldErrors
	if creating || in.Title != nil {
		errs.check(trimmed(in.Title) != "", "Title is required")
	}
	errs.maxLen(in.Title, 200, "Title cannot exceed 200 characters")
	if creating || in.Description != nil {
		errs.check(trimmed(in.Description) != "", "Description is required")
	}
	errs.maxLen(in.Description, 500, "Description cannot exceed 500 characters")
	if creating || in.ContentType != nil {
		ct := models.ContentType(trimmed(in.ContentType))
		errs.check(ct == models.ContentText || ct == models.ContentVideo, "Content type must be text or video")
	}
	if creating || in.Category != nil {
		errs.check(models.IsContentCategory(trimmed(in.Category)), "Category is required and must be one of the supported categories")
	}
	errs.maxLen(in.MetaTitle, 60, "Meta title cannot exceed 60 characters")
	errs.maxLen(in.MetaDescription, 160, "Meta description cannot exceed 160 characters")
	return errs.err()
}

// checkPayload: textContent обязателен для text, источник видео, для video.
func checkPayload(c *models.UserContent) error {
	switch c.ContentType {
	case models.ContentText:
		if strings.TrimSpace(c.TextContent) == "" {
			return apperr.Validation("Text content is required for text articles")
		}
	case models.ContentVideo:
		if !c.VideoFile.HasSource() {
			return apperr.Validation("Video file or video URL is required for video content")
		}
	}
	return nil
}

func lowerTags(raw []string) []string {
	tags := utils.SplitTags(raw)
	for i, t := range tags {
		tags[i] = strings.ToLower(t)
	}
	return utils.SplitTags(tags)
}

func (s *userContentService) applyInput(c *models.UserContent, in models.UserContentInput) {
	if v := trimmed(in.Title); v != "" {
		c.Title = v
	}
	if v := trimmed(in.Description); v != "" {
		c.Description = v
	}
	if v := trimmed(in.ContentType); v != "" {
		c.ContentType = models.ContentType(v)
	}
	if in.TextContent != nil {
		c.TextContent = *in.TextContent
	}
	if v := trimmed(in.Category); v != "" {
		c.Category = v
	}
	if in.Tags != nil {
		c.Tags = lowerTags(*in.Tags)
	}
	if in.MetaTitle != nil {
		c.MetaTitle = strings.TrimSpace(*in.MetaTitle)
	}
	if in.MetaDescription != nil {
		c.MetaDescription = strings.TrimSpace(*in.MetaDescription)
	}
	if in.ExternalLinks != nil {
		c.ExternalLinks = append([]models.ExternalLink{}, (*in.ExternalLinks)...)
	}
	if in.FeaturedImage != nil {
		c.FeaturedImage = strings.TrimSpace(*in.FeaturedImage)
	}

	switch {
	case in.VideoFile != nil:
		vf := *in.VideoFile
		if c.VideoFile != nil && vf.Thumbnail == "" {
			vf.Thumbnail = c.VideoFile.Thumbnail
		}
		c.VideoFile = &vf
	case trimmed(in.VideoURL) != "":
		c.VideoFile = &models.VideoFile{URL: trimmed(in.VideoURL)}
	}
	if in.Thumbnail != nil {
		if c.VideoFile == nil {
			c.VideoFile = &models.VideoFile{}
		}
		c.VideoFile.Thumbnail = *in.Thumbnail
	}

	if c.ContentType == models.ContentText {
		c.ReadingTime = utils.ReadingTime(c.TextContent)
	} else {
		c.TextContent = ""
		c.ReadingTime = 0
	}
}

// uploadedFiles: файлы, которые обработчик уже сохранил для этого запроса.
func uploadedFiles(in models.UserContentInput) []string {
	var out []string
	if in.VideoFile != nil && in.VideoFile.Path != "" {
		out = append(out, in.VideoFile.Path)
	}
	if in.Thumbnail != nil {
		out = append(out, *in.Thumbnail)
	}
	if in.FeaturedImage != nil {
		out = append(out, *in.FeaturedImage)
	}
	return out
}

func containsPath(list []string, p string) bool {
	for _, v := range list {
		if v == p {
			return true
		}
	}
	return false
}

func (s *userContentService) Create(ctx context.Context, actor models.Actor, in models.UserContentInput) (view *models.UserContentView, err error) {
	log := logger.WithCtx(ctx)
	log.Info("Создание пользовательского контента",
		zap.String("title", trimmed(in.Title)),
		zap.String("content_type", trimmed(in.ContentType)),
	)

	// загруженные файлы не должны пережить неудачный запрос
	defer func() {
		if err != nil {
			removeFiles(ctx, log, s.files, uploadedFiles(in)...)
		}
	}()

	if err := requireAuth(actor); err != nil {
		return nil, err
	}
	if err := validateUserContent(in, true); err != nil {
		log.Warn("Валидация контента не пройдена", zap.Error(err))
		return nil, err
	}

	now := s.clock.Now()
	c := &models.UserContent{
		ID:            newID(),
		AuthorID:      actor.ID,
		AuthorName:    actor.DisplayName,
		AuthorEmail:   actor.Email,
		Tags:          []string{},
		ExternalLinks: []models.ExternalLink{},
		Status:        moderation.Initial,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.applyInput(c, in)
	if err := checkPayload(c); err != nil {
		log.Warn("Валидация контента не пройдена", zap.Error(err))
		return nil, err
	}

	err = withUniqueSlug(c.Title, func(slug string) error {
		c.Slug = slug
		return s.repo.Create(ctx, c)
	})
	if err != nil {
		logFail(log, "Ошибка создания контента (repo)", err)
		return nil, err
	}

	log.Info("Контент создан и ждёт модерации", zap.String("content_id", c.ID), zap.String("slug", c.Slug))
	v := userContentView(c, actor, 0)
	return &v, nil
}

func (s *userContentService) Update(ctx context.Context, actor models.Actor, id string, in models.UserContentInput) (view *models.UserContentView, err error) {
	log := logger.WithCtx(ctx).With(zap.String("content_id", id))
	log.Info("Редактирование контента")

	defer func() {
		if err != nil {
			removeFiles(ctx, log, s.files, uploadedFiles(in)...)
		}
	}()

	if err := validateUserContent(in, false); err != nil {
		log.Warn("Валидация контента не пройдена", zap.Error(err))
		return nil, err
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logFail(log, "Контент не найден", err)
		return nil, err
	}
	if err := moderation.CheckEditable(c, actor); err != nil {
		log.Warn("Редактирование запрещено", zap.String("status", string(c.Status)), zap.Error(err))
		return nil, err
	}

	expected := c.Status
	oldFiles := c.StoredFiles()
	oldTitle := c.Title

	s.applyInput(c, in)
	// featured меняет только модератор
	if actor.IsAdmin() && in.Featured != nil {
		c.Featured = *in.Featured
	}
	if err := checkPayload(c); err != nil {
		log.Warn("Валидация контента не пройдена", zap.Error(err))
		return nil, err
	}
	resubmitted := moderation.ApplyEdit(c, actor, s.clock.Now())

	if c.Title != oldTitle {
		err = withUniqueSlug(c.Title, func(slug string) error {
			c.Slug = slug
			return s.repo.Save(ctx, c, expected)
		})
	} else {
		err = s.repo.Save(ctx, c, expected)
	}
	if err != nil {
		logFail(log, "Ошибка сохранения контента (repo)", err)
		return nil, err
	}

	// замещённые файлы больше не нужны
	var stale []string
	for _, p := range oldFiles {
		if p == "" {
			continue
		}
		if !containsPath(c.StoredFiles(), p) {
			stale = append(stale, p)
		}
	}
	removeFiles(ctx, log, s.files, stale...)

	log.Info("Контент обновлён", zap.String("status", string(c.Status)), zap.Bool("resubmitted", resubmitted))
	return s.view(ctx, c, actor)
}

func (s *userContentService) Delete(ctx context.Context, actor models.Actor, id string) error {
	log := logger.WithCtx(ctx).With(zap.String("content_id", id))
	log.Info("Удаление контента")

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logFail(log, "Контент не найден", err)
		return err
	}
	if !actor.CanManage(c.AuthorID) {
		log.Warn("Нет прав на удаление контента")
		return apperr.Forbidden("Not authorized to delete this content")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		logFail(log, "Ошибка удаления контента (repo)", err)
		return err
	}
	removeFiles(ctx, log, s.files, c.StoredFiles()...)

	log.Info("Контент удалён")
	return nil
}

func (s *userContentService) view(ctx context.Context, c *models.UserContent, actor models.Actor) (*models.UserContentView, error) {
	counts, err := s.comments.CountApproved(ctx, models.TargetUserContent, []string{c.ID})
	if err != nil {
		return nil, err
	}
	v := userContentView(c, actor, counts[c.ID])
	return &v, nil
}

func (s *userContentService) list(ctx context.Context, actor models.Actor, f models.UserContentFilter) (*models.UserContentList, error) {
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		logFail(logger.WithCtx(ctx), "Ошибка получения списка контента (repo)", err)
		return nil, err
	}
	counts, err := s.comments.CountApproved(ctx, models.TargetUserContent, ids(items, func(c *models.UserContent) string { return c.ID }))
	if err != nil {
		return nil, err
	}
	out := make([]models.UserContentView, 0, len(items))
	for _, c := range items {
		out = append(out, userContentView(c, actor, counts[c.ID]))
	}
	return &models.UserContentList{Content: out, Pagination: f.Page.Paginate(total)}, nil
}

func (s *userContentService) ListPublic(ctx context.Context, actor models.Actor, q UserContentQuery) (*models.UserContentList, error) {
	logger.WithCtx(ctx).Debug("Публичный список контента",
		zap.String("category", q.Category),
		zap.String("content_type", q.ContentType),
		zap.Int("page", q.Page),
	)
	f := models.UserContentFilter{
		AuthorID: strings.TrimSpace(q.Author),
		Search:   strings.TrimSpace(q.Search),
		Featured: q.Featured,
		Statuses: moderation.PublicStatuses,
		Page:     models.NewPage(q.Page, q.Limit, defaultContentLimit),
	}
	if q.Category != "all" {
		f.Category = strings.TrimSpace(q.Category)
	}
	if q.ContentType != "all" {
		f.ContentType = strings.TrimSpace(q.ContentType)
	}
	return s.list(ctx, actor, f)
}

func (s *userContentService) ListMine(ctx context.Context, actor models.Actor, status string, page, limit int) (*models.UserContentList, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}
	f := models.UserContentFilter{
		AuthorID: actor.ID,
		Page:     models.NewPage(page, limit, defaultMyContentLimit),
	}
	if status != "" && status != "all" {
		st := models.ContentStatus(status)
		if !st.Valid() {
			return nil, apperr.Validation("Invalid status filter")
		}
		f.Statuses = []models.ContentStatus{st}
	}
	return s.list(ctx, actor, f)
}

func (s *userContentService) GetBySlug(ctx context.Context, actor models.Actor, slug string) (*models.UserContentView, error) {
	log := logger.WithCtx(ctx).With(zap.String("slug", slug))
	c, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		logFail(log, "Контент не найден", err)
		return nil, err
	}
	if !moderation.IsPublic(c.Status) {
		log.Warn("Контент не опубликован", zap.String("status", string(c.Status)))
		return nil, apperr.NotFound("Content not found")
	}
	views, err := s.repo.IncrementViews(ctx, c.ID)
	if err != nil {
		logFail(log, "Ошибка увеличения просмотров (repo)", err)
		return nil, err
	}
	c.Views = views
	return s.view(ctx, c, actor)
}

func (s *userContentService) ToggleLike(ctx context.Context, actor models.Actor, id string) (models.LikeResult, error) {
	log := logger.WithCtx(ctx).With(zap.String("content_id", id))
	if err := requireAuth(actor); err != nil {
		return models.LikeResult{}, err
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logFail(log, "Контент не найден", err)
		return models.LikeResult{}, err
	}
	res, err := s.likes.Toggle(ctx, c.CommentTarget(), actor.ID, s.clock.Now())
	if err != nil {
		logFail(log, "Ошибка переключения лайка контента (repo)", err)
		return models.LikeResult{}, err
	}
	log.Info("Лайк контента переключён", zap.Bool("liked", res.Liked), zap.Int("like_count", res.LikeCount))
	return res, nil
}

func (s *userContentService) AddComment(ctx context.Context, actor models.Actor, id, content string) (*models.CommentView, int, error) {
	target := models.Target{Type: models.TargetUserContent, ID: id}
	cv, err := s.comments.Create(ctx, actor, target, CommentInput{Content: content})
	if err != nil {
		return nil, 0, err
	}
	counts, err := s.comments.CountApproved(ctx, models.TargetUserContent, []string{id})
	if err != nil {
		return nil, 0, err
	}
	return cv, counts[id], nil
}

func (s *userContentService) ListComments(ctx context.Context, actor models.Actor, id string, page, limit int) (*models.CommentList, error) {
	return s.comments.ListForTarget(ctx, actor, models.Target{Type: models.TargetUserContent, ID: id}, page, limit)
}

// PendingQueue: единственная очередь модерации, новые сверху.
// Без limit отдаёт всю очередь, page/limit включают постраничный вывод.
func (s *userContentService) PendingQueue(ctx context.Context, actor models.Actor, page, limit int) (*models.UserContentList, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	p := models.AllItems()
	if limit > 0 {
		p = models.NewPage(page, limit, limit)
	}
	return s.list(ctx, actor, models.UserContentFilter{
		Statuses: []models.ContentStatus{models.StatusPending},
		Page:     p,
	})
}

// moderate загружает запись, применяет переход и сохраняет его
// при условии, что статус не успел измениться.
func (s *userContentService) moderate(ctx context.Context, actor models.Actor, id, action string, apply func(c *models.UserContent) error) (*models.UserContentView, error) {
	log := logger.WithCtx(ctx).With(zap.String("content_id", id), zap.String("action", action))
	log.Info("Модерация контента")

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logFail(log, "Контент не найден", err)
		return nil, err
	}
	expected := c.Status
	if err := apply(c); err != nil {
		log.Warn("Переход модерации отклонён", zap.String("status", string(expected)), zap.Error(err))
		return nil, err
	}
	if err := s.repo.Save(ctx, c, expected); err != nil {
		logFail(log, "Ошибка сохранения модерации (repo)", err)
		return nil, err
	}

	log.Info("Статус контента изменён", zap.String("from", string(expected)), zap.String("to", string(c.Status)))
	return s.view(ctx, c, actor)
}

func (s *userContentService) Approve(ctx context.Context, actor models.Actor, id, notes string, featured bool) (*models.UserContentView, error) {
	return s.moderate(ctx, actor, id, "approve", func(c *models.UserContent) error {
		return moderation.Approve(c, actor.ID, notes, featured, s.clock.Now())
	})
}

func (s *userContentService) Reject(ctx context.Context, actor models.Actor, id, notes string) (*models.UserContentView, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(notes) == "" {
		return nil, apperr.Validation("Rejection reason is required")
	}
	return s.moderate(ctx, actor, id, "reject", func(c *models.UserContent) error {
		return moderation.Reject(c, actor.ID, notes, s.clock.Now())
	})
}

func (s *userContentService) Publish(ctx context.Context, actor models.Actor, id string) (*models.UserContentView, error) {
	return s.moderate(ctx, actor, id, "publish", func(c *models.UserContent) error {
		return moderation.Publish(c, actor.ID, s.clock.Now())
	})
}

func (s *userContentService) Stats(ctx context.Context, actor models.Actor) (models.ModerationStats, error) {
	if err := requireAdmin(actor); err != nil {
		return models.ModerationStats{}, err
	}
	st, err := s.repo.Stats(ctx)
	if err != nil {
		logFail(logger.WithCtx(ctx), "Ошибка получения статистики модерации (repo)", err)
		return models.ModerationStats{}, err
	}
	return st, nil
}
