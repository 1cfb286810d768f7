package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"blogplatform/internal/apperr"
	"blogplatform/internal/logger"
	"blogplatform/internal/models"
	"blogplatform/internal/moderation"
	"blogplatform/internal/repository"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const (
	defaultCommentsLimit      = 10
	defaultAdminCommentsLimit = 20
	maxCommentLength          = 1000
)

// CommentInput: новый комментарий к сущности; ParentCommentID делает его ответом.
type CommentInput struct {
	Content         string
	ParentCommentID *string
}

// CommentQuery: фильтр админского списка комментариев.
type CommentQuery struct {
	Approved *bool
	Search   string
	Page     int
	Limit    int
}

type CommentService interface {
	Create(ctx context.Context, actor models.Actor, target models.Target, in CommentInput) (*models.CommentView, error)
	Update(ctx context.Context, actor models.Actor, id, content string) (*models.CommentView, error)
	// Delete возвращает число удалённых комментариев (сам + ответы).
	Delete(ctx context.Context, actor models.Actor, id string) (int, error)
	ToggleLike(ctx context.Context, actor models.Actor, id string) (models.LikeResult, error)
	SetApproval(ctx context.Context, actor models.Actor, id string, approved bool) (*models.CommentView, error)
	ListForTarget(ctx context.Context, actor models.Actor, target models.Target, page, limit int) (*models.CommentList, error)
	ListAll(ctx context.Context, actor models.Actor, q CommentQuery) (*models.CommentList, error)
	// CountApproved: commentCount для набора сущностей одного типа.
	CountApproved(ctx context.Context, targetType models.TargetType, ids []string) (map[string]int, error)
}

type commentService struct {
	repo     repository.CommentRepo
	likes    repository.LikeRepo
	posts    repository.PostRepo
	contents repository.UserContentRepo
	clock    Clock
	policy   *bluemonday.Policy
}

func NewCommentService(
	repo repository.CommentRepo,
	likes repository.LikeRepo,
	posts repository.PostRepo,
	contents repository.UserContentRepo,
	clock Clock,
) CommentService {
	return &commentService{
		repo:     repo,
		likes:    likes,
		posts:    posts,
		contents: contents,
		clock:    clock,
		policy:   bluemonday.StrictPolicy(),
	}
}

// commentable находит сущность, под которой пишут комментарий.
func (s *commentService) commentable(ctx context.Context, t models.Target) (models.Commentable, error) {
	switch t.Type {
	case models.TargetPost:
		return s.posts.GetByID(ctx, t.ID)
	case models.TargetUserContent:
		return s.contents.GetByID(ctx, t.ID)
	default:
		return nil, apperr.Validation("Unsupported comment target")
	}
}

func (s *commentService) cleanContent(raw string) (string, error) {
	content := strings.TrimSpace(raw)
	if content == "" {
		return "", apperr.Validation("Validation failed", "Comment content is required")
	}
	if utf8.RuneCountInString(content) > maxCommentLength {
		return "", apperr.Validation("Validation failed", "Comment cannot exceed 1000 characters")
	}
	content = strings.TrimSpace(s.policy.Sanitize(content))
	if content == "" {
		return "", apperr.Validation("Validation failed", "Comment content is required")
	}
	return content, nil
}

func (s *commentService) Create(ctx context.Context, actor models.Actor, target models.Target, in CommentInput) (*models.CommentView, error) {
	log := logger.WithCtx(ctx).With(zap.String("target_type", string(target.Type)), zap.String("target_id", target.ID))
	log.Info("Создание комментария", zap.Bool("reply", in.ParentCommentID != nil))

	if err := requireAuth(actor); err != nil {
		return nil, err
	}
	content, err := s.cleanContent(in.Content)
	if err != nil {
		log.Warn("Валидация комментария не пройдена", zap.Error(err))
		return nil, err
	}

	owner, err := s.commentable(ctx, target)
	if err != nil {
		logFail(log, "Сущность для комментария не найдена", err)
		return nil, err
	}
	if !owner.AcceptsComments() {
		log.Warn("Комментарии отключены")
		return nil, apperr.Forbidden("Comments are disabled for this post")
	}

	var parentID *string
	if in.ParentCommentID != nil && strings.TrimSpace(*in.ParentCommentID) != "" {
		id := strings.TrimSpace(*in.ParentCommentID)
		parent, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				err = apperr.NotFound("Parent comment not found")
			}
			logFail(log, "Родительский комментарий не найден", err)
			return nil, err
		}
		if parent.Target() != target {
			log.Warn("Родительский комментарий относится к другой сущности", zap.String("parent_id", id))
			return nil, apperr.Validation("Parent comment does not belong to this post")
		}
		if !parent.IsTopLevel() {
			log.Warn("Ответ на ответ не поддерживается", zap.String("parent_id", id))
			return nil, apperr.Validation("Replies to replies are not supported")
		}
		parentID = &id
	}

	now := s.clock.Now()
	c := &models.Comment{
		ID:              newID(),
		Content:         content,
		AuthorID:        actor.ID,
		AuthorName:      actor.DisplayName,
		TargetType:      target.Type,
		TargetID:        target.ID,
		ParentCommentID: parentID,
		ReplyIDs:        []string{},
		Status:          owner.InitialCommentStatus(),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	// ответ и ссылка на него у родителя пишутся одной транзакцией
	if err := s.repo.Create(ctx, c); err != nil {
		logFail(log, "Ошибка создания комментария (repo)", err)
		return nil, err
	}

	log.Info("Комментарий создан", zap.String("comment_id", c.ID), zap.String("status", string(c.Status)))
	v := commentView(c, actor)
	return &v, nil
}

func (s *commentService) Update(ctx context.Context, actor models.Actor, id, raw string) (*models.CommentView, error) {
	log := logger.WithCtx(ctx).With(zap.String("comment_id", id))
	log.Info("Редактирование комментария")

	content, err := s.cleanContent(raw)
	if err != nil {
		log.Warn("Валидация комментария не пройдена", zap.Error(err))
		return nil, err
	}
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logFail(log, "Комментарий не найден", err)
		return nil, err
	}
	if !actor.CanManage(c.AuthorID) {
		log.Warn("Нет прав на редактирование комментария")
		return nil, apperr.Forbidden("Not authorized to update this comment")
	}

	now := s.clock.Now()
	if content != c.Content {
		c.Content = content
		c.IsEdited = true
		c.EditedAt = &now
	}
	c.UpdatedAt = now
	if err := s.repo.Update(ctx, c); err != nil {
		logFail(log, "Ошибка обновления комментария (repo)", err)
		return nil, err
	}
	v := commentView(c, actor)
	return &v, nil
}

func (s *commentService) Delete(ctx context.Context, actor models.Actor, id string) (int, error) {
	log := logger.WithCtx(ctx).With(zap.String("comment_id", id))
	log.Info("Удаление комментария")

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		logFail(log, "Комментарий не найден", err)
		return 0, err
	}
	if !actor.CanManage(c.AuthorID) {
		log.Warn("Нет прав на удаление комментария")
		return 0, apperr.Forbidden("Not authorized to delete this comment")
	}

	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		logFail(log, "Ошибка удаления комментария (repo)", err)
		return 0, err
	}
	log.Info("Комментарий удалён", zap.Int("removed", n))
	return n, nil
}

func (s *commentService) ToggleLike(ctx context.Context, actor models.Actor, id string) (models.LikeResult, error) {
	log := logger.WithCtx(ctx).With(zap.String("comment_id", id))
	if err := requireAuth(actor); err != nil {
		return models.LikeResult{}, err
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		logFail(log, "Комментарий не найден", err)
		return models.LikeResult{}, err
	}

	res, err := s.likes.Toggle(ctx, models.Target{Type: models.TargetComment, ID: id}, actor.ID, s.clock.Now())
	if err != nil {
		logFail(log, "Ошибка переключения лайка комментария (repo)", err)
		return models.LikeResult{}, err
	}
	log.Debug("Лайк комментария переключён", zap.Bool("liked", res.Liked), zap.Int("like_count", res.LikeCount))
	return res, nil
}

// SetApproval не каскадируется на ответы.
func (s *commentService) SetApproval(ctx context.Context, actor models.Actor, id string, approved bool) (*models.CommentView, error) {
	log := logger.WithCtx(ctx).With(zap.String("comment_id", id))
	log.Info("Модерация комментария", zap.Bool("approved", approved))

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	c, err := s.repo.SetStatus(ctx, id, moderation.CommentStatus(approved), s.clock.Now())
	if err != nil {
		logFail(log, "Ошибка модерации комментария (repo)", err)
		return nil, err
	}
	v := commentView(c, actor)
	return &v, nil
}

func (s *commentService) ListForTarget(ctx context.Context, actor models.Actor, target models.Target, page, limit int) (*models.CommentList, error) {
	log := logger.WithCtx(ctx).With(zap.String("target_type", string(target.Type)), zap.String("target_id", target.ID))
	log.Debug("Получение комментариев", zap.Int("page", page), zap.Int("limit", limit))

	if _, err := s.commentable(ctx, target); err != nil {
		logFail(log, "Сущность для комментариев не найдена", err)
		return nil, err
	}

	p := models.NewPage(page, limit, defaultCommentsLimit)
	top, total, err := s.repo.ListTopLevel(ctx, target, models.CommentApproved, p)
	if err != nil {
		logFail(log, "Ошибка получения комментариев (repo)", err)
		return nil, err
	}

	replies, err := s.repo.ListReplies(ctx, ids(top, func(c *models.Comment) string { return c.ID }), !actor.IsAdmin())
	if err != nil {
		logFail(log, "Ошибка получения ответов (repo)", err)
		return nil, err
	}
	byParent := make(map[string][]models.CommentView, len(top))
	for _, r := range replies {
		byParent[*r.ParentCommentID] = append(byParent[*r.ParentCommentID], commentView(r, actor))
	}

	out := make([]models.CommentView, 0, len(top))
	for _, c := range top {
		v := commentView(c, actor)
		v.Replies = byParent[c.ID]
		out = append(out, v)
	}

	log.Debug("Комментарии получены", zap.Int("count", len(out)), zap.Int("replies", len(replies)))
	return &models.CommentList{Comments: out, Pagination: p.Paginate(total)}, nil
}

func (s *commentService) ListAll(ctx context.Context, actor models.Actor, q CommentQuery) (*models.CommentList, error) {
	log := logger.WithCtx(ctx)
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	f := models.CommentFilter{
		Approved: q.Approved,
		Search:   strings.TrimSpace(q.Search),
		Page:     models.NewPage(q.Page, q.Limit, defaultAdminCommentsLimit),
	}
	list, total, err := s.repo.ListAll(ctx, f)
	if err != nil {
		logFail(log, "Ошибка получения всех комментариев (repo)", err)
		return nil, err
	}
	out := make([]models.CommentView, 0, len(list))
	for _, c := range list {
		out = append(out, commentView(c, actor))
	}
	return &models.CommentList{Comments: out, Pagination: f.Page.Paginate(total)}, nil
}

func (s *commentService) CountApproved(ctx context.Context, targetType models.TargetType, targetIDs []string) (map[string]int, error) {
	counts, err := s.repo.CountApproved(ctx, targetType, targetIDs)
	if err != nil {
		logFail(logger.WithCtx(ctx), "Ошибка подсчёта комментариев (repo)", err)
		return nil, err
	}
	return counts, nil
}
